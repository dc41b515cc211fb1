package catalog

import (
	"context"

	"github.com/lababil/pos/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.Repository[Product]

	// Search returns products whose name or category contains term,
	// case-insensitively
	Search(ctx context.Context, term string) ([]Product, error)
}
