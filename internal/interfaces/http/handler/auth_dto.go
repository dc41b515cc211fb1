package handler

import (
	"time"

	"github.com/lababil/pos/internal/application/identity"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the body of a successful login. It sits beside the
// success flag rather than under data, as POS clients expect.
type LoginResponse struct {
	Success   bool                `json:"success"`
	User      identity.UserPublic `json:"user"`
	Token     string              `json:"token"`
	TokenType string              `json:"token_type"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}
