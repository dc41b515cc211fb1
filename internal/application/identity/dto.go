package identity

import (
	"time"

	"github.com/lababil/pos/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	User      UserPublic
	Token     string
	ExpiresAt time.Time
}

// UserPublic is a user without credential material
type UserPublic struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserRequest contains input for creating a user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"max=200"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Role     string `json:"role" binding:"required,oneof=admin kasir"`
}

// UpdateUserRequest contains a partial user update. Nil fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Email    *string `json:"email" binding:"omitempty,max=200"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin kasir"`
	IsActive *bool   `json:"is_active"`
}

// ChangePasswordRequest contains the new password for a user
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ToUserPublic converts a domain User to UserPublic
func ToUserPublic(u *identity.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		Permissions: identity.PermissionsFor(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserPublics converts a slice of domain Users
func ToUserPublics(users []identity.User) []UserPublic {
	result := make([]UserPublic, len(users))
	for i := range users {
		result[i] = ToUserPublic(&users[i])
	}
	return result
}
