package identity

import (
	"context"
	"testing"
	"time"

	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/lababil/pos/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestUserService(repo identity.UserRepository, revocations auth.RevocationStore) *UserService {
	return NewUserService(repo, nil, revocations, time.Hour, zap.NewNop())
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user", func(t *testing.T) {
		repo := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		svc := NewUserService(repo, publisher, nil, time.Hour, zap.NewNop())

		repo.On("ExistsByUsername", ctx, "budi").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == identity.EventTypeUserCreated
		})).Return(nil)

		public, err := svc.Create(ctx, CreateUserRequest{
			Username: "budi",
			Password: "rahasia123",
			Name:     "Budi Santoso",
			Email:    "Budi@Example.com",
			Role:     "kasir",
		})

		require.NoError(t, err)
		assert.Equal(t, "budi", public.Username)
		assert.Equal(t, "budi@example.com", public.Email)
		assert.True(t, public.IsActive)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		repo.On("ExistsByUsername", ctx, "kasir").Return(true, nil)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "kasir", Password: "kasir1234", Role: "kasir"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		repo.On("ExistsByUsername", ctx, "budi").Return(false, nil)

		_, err := svc.Create(ctx, CreateUserRequest{Username: "budi", Password: "password", Role: "kasir"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})
}

func TestUserService_LastAdminProtection(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot delete the only active admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		admin := newTestUser(t, "admin", "F@ruq2021", identity.RoleAdmin)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		repo.On("CountActiveAdmins", ctx).Return(int64(1), nil)

		err := svc.Delete(ctx, admin.ID)

		assert.ErrorIs(t, err, identity.ErrLastAdmin)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("cannot deactivate the only active admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		admin := newTestUser(t, "admin", "F@ruq2021", identity.RoleAdmin)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		repo.On("CountActiveAdmins", ctx).Return(int64(1), nil)

		_, err := svc.Update(ctx, admin.ID, UpdateUserRequest{IsActive: boolPtr(false)})

		assert.ErrorIs(t, err, identity.ErrLastAdmin)
		assert.True(t, admin.IsActive, "user is left unchanged")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cannot demote the only active admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		admin := newTestUser(t, "admin", "F@ruq2021", identity.RoleAdmin)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		repo.On("CountActiveAdmins", ctx).Return(int64(1), nil)

		_, err := svc.Update(ctx, admin.ID, UpdateUserRequest{Role: strPtr("kasir"), Name: strPtr("Renamed")})

		assert.ErrorIs(t, err, identity.ErrLastAdmin)
		assert.Equal(t, identity.RoleAdmin, admin.Role)
		assert.Equal(t, "admin", admin.Name)
	})

	t.Run("demote allowed when another admin remains", func(t *testing.T) {
		repo := new(MockUserRepository)
		revocations := auth.NewInMemoryRevocationStore()
		svc := newTestUserService(repo, revocations)
		admin := newTestUser(t, "admin2", "F@ruq2021", identity.RoleAdmin)
		issuedBefore := time.Now().Add(-time.Minute)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		repo.On("CountActiveAdmins", ctx).Return(int64(2), nil)
		repo.On("Save", ctx, admin).Return(nil)

		public, err := svc.Update(ctx, admin.ID, UpdateUserRequest{Role: strPtr("kasir")})

		require.NoError(t, err)
		assert.Equal(t, "kasir", public.Role)

		revoked, err := revocations.IsUserRevoked(ctx, admin.ID, issuedBefore)
		require.NoError(t, err)
		assert.True(t, revoked, "role change revokes existing tokens")
	})

	t.Run("renaming the last admin does not check the quorum", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		admin := newTestUser(t, "admin", "F@ruq2021", identity.RoleAdmin)
		repo.On("FindByID", ctx, admin.ID).Return(admin, nil)
		repo.On("Save", ctx, admin).Return(nil)

		public, err := svc.Update(ctx, admin.ID, UpdateUserRequest{Name: strPtr("Pak Admin")})

		require.NoError(t, err)
		assert.Equal(t, "Pak Admin", public.Name)
		repo.AssertNotCalled(t, "CountActiveAdmins", mock.Anything)
	})

	t.Run("kasir can be deleted freely", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		kasir := newTestUser(t, "kasir", "kasir123", identity.RoleKasir)
		repo.On("FindByID", ctx, kasir.ID).Return(kasir, nil)
		repo.On("Delete", ctx, kasir.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, kasir.ID))
		repo.AssertNotCalled(t, "CountActiveAdmins", mock.Anything)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, nil)
	kasir := newTestUser(t, "kasir", "kasir123", identity.RoleKasir)
	repo.On("FindByID", ctx, kasir.ID).Return(kasir, nil)
	repo.On("Save", ctx, kasir).Return(nil)

	require.NoError(t, svc.ChangePassword(ctx, kasir.ID, ChangePasswordRequest{Password: "baru12345"}))

	assert.True(t, kasir.VerifyPassword("baru12345"))
	assert.False(t, kasir.VerifyPassword("kasir123"))
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, nil)
	users := []identity.User{
		*newTestUser(t, "admin", "F@ruq2021", identity.RoleAdmin),
		*newTestUser(t, "kasir", "kasir123", identity.RoleKasir),
	}
	repo.On("FindAll", ctx).Return(users, nil)

	result, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "admin", result[0].Username)
	assert.Equal(t, "kasir", result[1].Role)
}

func TestUserService_SeedDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds admin and kasir into an empty store", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		repo.On("Count", ctx).Return(int64(0), nil)

		var saved []*identity.User
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*identity.User)) }).
			Return(nil)

		require.NoError(t, svc.SeedDefaults(ctx, "F@ruq2021", "kasir123"))

		require.Len(t, saved, 2)
		assert.Equal(t, "admin", saved[0].Username)
		assert.Equal(t, identity.RoleAdmin, saved[0].Role)
		assert.Equal(t, "Administrator", saved[0].Name)
		assert.True(t, saved[0].VerifyPassword("F@ruq2021"))
		assert.Equal(t, "kasir", saved[1].Username)
		assert.Equal(t, identity.RoleKasir, saved[1].Role)
		assert.True(t, saved[1].VerifyPassword("kasir123"))
	})

	t.Run("no-op when users exist", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		repo.On("Count", ctx).Return(int64(3), nil)

		require.NoError(t, svc.SeedDefaults(ctx, "F@ruq2021", "kasir123"))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
