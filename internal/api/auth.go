package api

import (
	"time"

	"sweet-shop/internal/model"
)

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" validate:"max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"max=72" example:"secret123"`
	Name     string `json:"name" validate:"max=100" example:"Alice"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"required,max=72" example:"secret123"`
}

// swagger:model api.UserResponse
type UserResponse struct {
	ID        int        `json:"id" example:"1"`
	Email     string     `json:"email" example:"alice@example.com"`
	Name      string     `json:"name" example:"Alice"`
	Role      model.Role `json:"role" example:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// swagger:model api.AuthResponse
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
