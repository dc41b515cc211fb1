package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/lababil/pos/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    identity.UserRepository
	jwtService  *auth.JWTService
	revocations auth.RevocationStore
	logger      *zap.Logger

	// verifyAbsent burns a password check for usernames with no account
	verifyAbsent func(password string) bool
}

// NewAuthService creates a new authentication service. revocations may be nil,
// in which case Logout only logs.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		revocations:  revocations,
		logger:       logger,
		verifyAbsent: identity.VerifyAbsentPassword,
	}
}

// Authenticate checks a username and password. An unknown username, an
// inactive account and a wrong password all produce ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*UserPublic, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	public := ToUserPublic(user)
	return &public, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*identity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Username and password are required")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.verifyAbsent(password)
			s.logger.Warn("Login attempt for unknown user", zap.String("username", username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// Always hashed, whatever the account status.
	passwordOK := user.VerifyPassword(password)

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		return nil, identity.ErrInvalidCredentials
	}

	if !passwordOK {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, identity.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	public := ToUserPublic(user)
	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		Permissions: public.Permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		User:      public,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revocations == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser returns the user behind a validated token. Users deleted or
// deactivated since the token was issued are rejected.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*UserPublic, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.ErrUnauthorized
	}
	public := ToUserPublic(user)
	return &public, nil
}
