package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NewUserRequest registers a new account.
type NewUserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateEmailRequest changes the account email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest changes the password given the current one.
type UpdatePasswordRequest struct {
	ActualPassword string `json:"actual_password" validate:"required"`
	NewPassword    string `json:"new_password" validate:"required,min=8"`
}

// SendResetCodeRequest initiates the redefine password flow.
type SendResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RedefinePasswordRequest completes the redefine password flow.
type RedefinePasswordRequest struct {
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Authentication is the token pair issued on login, registration and refresh.
// It is never persisted.
type Authentication struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Addresses Addresses `json:"addresses,omitempty"`
}

// ToResponse maps a user to its public projection.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Addresses: u.Addresses,
	}
}

// JWTClaims is the access token payload. SessionID ties the stateless token
// back to the stored session for refresh and revocation.
type JWTClaims struct {
	Roles     []UserRole `json:"roles"`
	SessionID string     `json:"session_id"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *JWTClaims) UserID() string {
	return c.Subject
}
