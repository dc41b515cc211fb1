package memory

import (
	"context"
	"sort"

	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/shared"
)

// UserRepository implements identity.UserRepository on a Store
type UserRepository struct {
	store   *Store
	journal *journal
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Save creates or updates a user
func (r *UserRepository) Save(_ context.Context, user *identity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := detachedUser(*user)
	if i := r.store.userIndexLocked(user.ID); i >= 0 {
		previous := r.store.users[i]
		r.store.users[i] = stored
		return r.store.afterWriteLocked(r.journal, func() {
			if j := r.store.userIndexLocked(previous.ID); j >= 0 {
				r.store.users[j] = previous
			}
		})
	}
	r.store.users = append(r.store.users, stored)
	return r.store.afterWriteLocked(r.journal, func() { r.store.removeUserLocked(stored.ID) })
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.userIndexLocked(id)
	if i < 0 {
		return shared.ErrNotFound
	}
	removed := r.store.users[i]
	r.store.removeUserLocked(id)
	return r.store.afterWriteLocked(r.journal, func() {
		r.store.users = append(r.store.users, removed)
	})
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(_ context.Context, id string) (*identity.User, error) {
	return r.findOne(func(u *identity.User) bool { return u.ID == id })
}

// FindByUsername finds a user by exact username
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	return r.findOne(func(u *identity.User) bool { return u.Username == username })
}

// FindAll returns every user ordered by creation time
func (r *UserRepository) FindAll(_ context.Context) ([]identity.User, error) {
	r.store.mu.Lock()
	users := make([]identity.User, len(r.store.users))
	for i := range r.store.users {
		users[i] = detachedUser(r.store.users[i])
	}
	r.store.mu.Unlock()

	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// ExistsByUsername checks if a username already exists
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if shared.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

// CountActiveAdmins returns the number of active admin users
func (r *UserRepository) CountActiveAdmins(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for i := range r.store.users {
		if r.store.users[i].IsActiveAdmin() {
			n++
		}
	}
	return n, nil
}

// Count returns the total number of users
func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

func (r *UserRepository) findOne(match func(*identity.User) bool) (*identity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.users {
		if match(&r.store.users[i]) {
			u := detachedUser(r.store.users[i])
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *Store) removeUserLocked(id string) {
	if i := s.userIndexLocked(id); i >= 0 {
		s.users = append(s.users[:i], s.users[i+1:]...)
	}
}

// Ensure UserRepository implements identity.UserRepository
var _ identity.UserRepository = (*UserRepository)(nil)
