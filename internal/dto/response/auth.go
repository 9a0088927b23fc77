package response

import (
	"catalog-api/internal/data/entity"
	"time"
)

const TokenTypeBearer = "Bearer"

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

type UserResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type UserDataResponse struct {
	User UserResponse `json:"user"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalAdmins       int64 `json:"total_admins"`
	TotalRegularUsers int64 `json:"total_regular_users"`
}

type DashboardResponse struct {
	Stats DashboardStats `json:"stats"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UsersToResponse(users []*entity.User) UserListResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return UserListResponse{Users: out, Total: len(out)}
}

func AuthToResponse(user *entity.User, token string) AuthResponse {
	return AuthResponse{
		User:        UserToResponse(user),
		AccessToken: token,
		TokenType:   TokenTypeBearer,
	}
}
