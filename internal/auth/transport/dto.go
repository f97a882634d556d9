// Package transport defines request and response DTOs for auth endpoints.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest creates a new marketplace account. Admin accounts are not
// self-service; the role is restricted to the two trading sides.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=10,max=128"`
	Role     string `json:"role" validate:"required,oneof=buyer supplier"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse carries the signed access token and its lifetime.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}
