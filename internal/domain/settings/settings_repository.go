package settings

import "context"

// Repository stores the single settings record
type Repository interface {
	// Get returns the stored settings, or shared.ErrNotFound when none were saved
	Get(ctx context.Context) (*Settings, error)

	// Save replaces the stored settings
	Save(ctx context.Context, s *Settings) error
}
