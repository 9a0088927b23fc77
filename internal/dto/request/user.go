package request

// CreateUserRequest is the admin variant of registration with an explicit role.
type CreateUserRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role" validate:"required,oneof=user admin"`
}

func (r *CreateUserRequest) Validate() map[string]string {
	return confirmPassword(r.Password, r.PasswordConfirmation)
}

// UpdateUserRequest only changes the fields that are present in the body.
type UpdateUserRequest struct {
	Name                 *string `json:"name,omitempty" validate:"omitnil,filled,max=255"`
	Email                *string `json:"email,omitempty" validate:"omitnil,filled,email,max=255"`
	Password             *string `json:"password,omitempty" validate:"omitnil,filled,min=8"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty"`
}

func (r *UpdateUserRequest) Validate() map[string]string {
	if r.Password == nil {
		return nil
	}
	confirmation := ""
	if r.PasswordConfirmation != nil {
		confirmation = *r.PasswordConfirmation
	}
	return confirmPassword(*r.Password, confirmation)
}

// IsEmpty reports whether no updatable field was supplied.
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil
}

type AdminUpdateUserRequest struct {
	UpdateUserRequest
	Role *string `json:"role,omitempty" validate:"omitnil,oneof=user admin"`
}

func (r *AdminUpdateUserRequest) IsEmpty() bool {
	return r.UpdateUserRequest.IsEmpty() && r.Role == nil
}
