package request

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r *RegisterRequest) Validate() map[string]string {
	return confirmPassword(r.Password, r.PasswordConfirmation)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func confirmPassword(password, confirmation string) map[string]string {
	if password != "" && password != confirmation {
		return map[string]string{"password": "The password field confirmation does not match."}
	}
	return nil
}
