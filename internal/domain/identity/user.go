package identity

import (
	"regexp"
	"strings"
	"sync"

	"github.com/lababil/pos/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	absentHashOnce sync.Once
	absentHash     []byte
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex   = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// Identity errors
var (
	// ErrInvalidCredentials is returned for every failed login, whatever the cause
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password, or account is inactive")
	// ErrLastAdmin is returned when a change would leave no active admin
	ErrLastAdmin = shared.NewDomainError("LAST_ADMIN", "At least one active admin user must remain")
)

// User represents a user in the system
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseAggregateRoot
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         Role
	IsActive     bool
}

// NewUser creates a new active user. Usernames are kept exactly as given
// apart from surrounding whitespace; lookups are case-sensitive.
func NewUser(username, password, name, email string, role Role) (*User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return NewUserWithHash(username, passwordHash, name, email, role)
}

// NewUserWithHash creates a user from an existing bcrypt hash (seeding, imports)
func NewUserWithHash(username, passwordHash, name, email string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      passwordHash,
		Role:              role,
		IsActive:          true,
	}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	user.Version = 1

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetName sets the user's display name
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}

	u.Name = name
	u.IncrementVersion()

	return nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(email)
	}

	u.Email = email
	u.IncrementVersion()

	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if err := validateRole(role); err != nil {
		return err
	}
	if u.Role == role {
		return nil
	}

	u.Role = role
	u.IncrementVersion()

	u.AddDomainEvent(NewUserRoleChangedEvent(u))

	return nil
}

// Activate marks the user as active
func (u *User) Activate() {
	if u.IsActive {
		return
	}
	u.IsActive = true
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
}

// Deactivate marks the user as inactive. The last-admin rule is enforced
// by the caller, which can see the whole user set.
func (u *User) Deactivate() {
	if !u.IsActive {
		return
	}
	u.IsActive = false
	u.IncrementVersion()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword checks if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// VerifyAbsentPassword runs a bcrypt comparison of the same cost as
// VerifyPassword when no account exists. It always reports false.
func VerifyAbsentPassword(password string) bool {
	absentHashOnce.Do(func() {
		absentHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(absentHash, []byte(password))
	return false
}

// IsActiveAdmin reports whether the user counts toward the admin quorum
func (u *User) IsActiveAdmin() bool {
	return u.IsActive && u.Role == RoleAdmin
}

// CanLogin returns true if the user is allowed to authenticate
func (u *User) CanLogin() bool {
	return u.IsActive
}

// HasPermission checks the user's role against the capability table
func (u *User) HasPermission(perm Permission) bool {
	return HasPermission(u.Role, perm)
}

// Validation functions

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}

	// Allow alphanumeric, underscore, hyphen, and dot
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be admin or kasir")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
