package memory

import (
	"context"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
)

// SettingsRepository implements settings.Repository on a Store
type SettingsRepository struct {
	store   *Store
	journal *journal
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the stored settings
func (r *SettingsRepository) Get(_ context.Context) (*settings.Settings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.settings == nil {
		return nil, shared.ErrNotFound
	}
	s := *r.store.settings
	return &s, nil
}

// Save replaces the stored settings
func (r *SettingsRepository) Save(_ context.Context, s *settings.Settings) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	previous := r.store.settings
	stored := *s
	r.store.settings = &stored
	return r.store.afterWriteLocked(r.journal, func() { r.store.settings = previous })
}

// Ensure SettingsRepository implements settings.Repository
var _ settings.Repository = (*SettingsRepository)(nil)
