package identity

import (
	"context"
	"sync"
	"time"

	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/lababil/pos/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Seeded account details
const (
	SeedAdminUsername = "admin"
	SeedKasirUsername = "kasir"
)

// UserService handles user management. Every read-modify-write runs under
// one mutex so the last-admin check and the write it guards are atomic.
type UserService struct {
	mu             sync.Mutex
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	revocations    auth.RevocationStore
	tokenTTL       time.Duration
	logger         *zap.Logger
}

// NewUserService creates a new user service. revocations may be nil.
// tokenTTL bounds how long a user revocation entry is kept.
func NewUserService(
	userRepo identity.UserRepository,
	eventPublisher shared.EventPublisher,
	revocations auth.RevocationStore,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		revocations:    revocations,
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

// Create creates a new user with a unique username
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserPublic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(req.Username, req.Password, req.Name, req.Email, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	public := ToUserPublic(user)
	return &public, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*UserPublic, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := ToUserPublic(user)
	return &public, nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]UserPublic, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToUserPublics(users), nil
}

// Update applies a partial update. Demoting or deactivating the last
// active admin fails with ErrLastAdmin and leaves the user unchanged.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*UserPublic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	losesAdmin := user.IsActiveAdmin() &&
		((req.Role != nil && identity.Role(*req.Role) != identity.RoleAdmin) ||
			(req.IsActive != nil && !*req.IsActive))
	if losesAdmin {
		if err := s.ensureAnotherActiveAdmin(ctx); err != nil {
			return nil, err
		}
	}

	roleBefore, activeBefore := user.Role, user.IsActive

	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, user)

	if user.Role != roleBefore || user.IsActive != activeBefore {
		s.revokeUserTokens(ctx, user.ID)
	}

	public := ToUserPublic(user)
	return &public, nil
}

// ChangePassword sets a new password for a user
func (s *UserService) ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.Password); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, user)
	s.revokeUserTokens(ctx, user.ID)

	s.logger.Info("User password changed", zap.String("user_id", user.ID))
	return nil
}

// Delete removes a user. Deleting the last active admin fails with ErrLastAdmin.
func (s *UserService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsActiveAdmin() {
		if err := s.ensureAnotherActiveAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	user.AddDomainEvent(identity.NewUserDeletedEvent(user))
	s.publishDomainEvents(ctx, user)
	s.revokeUserTokens(ctx, user.ID)

	s.logger.Info("User deleted", zap.String("user_id", id), zap.String("username", user.Username))
	return nil
}

// Count returns the number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

// SeedDefaults creates the admin and kasir accounts when the user store is
// empty. It is a no-op otherwise.
func (s *UserService) SeedDefaults(ctx context.Context, adminPassword, kasirPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		username, password, name, email string
		role                            identity.Role
	}{
		{SeedAdminUsername, adminPassword, "Administrator", "admin@lababilsolution.com", identity.RoleAdmin},
		{SeedKasirUsername, kasirPassword, "Cashier", "kasir@lababilsolution.com", identity.RoleKasir},
	}

	for _, seed := range seeds {
		user, err := identity.NewUser(seed.username, seed.password, seed.name, seed.email, seed.role)
		if err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		s.publishDomainEvents(ctx, user)
	}

	s.logger.Info("Seeded default users",
		zap.Strings("usernames", []string{SeedAdminUsername, SeedKasirUsername}))
	return nil
}

func (s *UserService) ensureAnotherActiveAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return identity.ErrLastAdmin
	}
	return nil
}

func (s *UserService) revokeUserTokens(ctx context.Context, userID string) {
	if s.revocations == nil {
		return
	}
	if err := s.revocations.RevokeUser(ctx, userID, s.tokenTTL); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *UserService) publishDomainEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.String("user_id", user.ID), zap.Error(err))
	}
}
