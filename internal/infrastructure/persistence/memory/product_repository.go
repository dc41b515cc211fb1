package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/lababil/pos/internal/infrastructure/persistence"
)

// ProductRepository implements catalog.ProductRepository on a Store
type ProductRepository struct {
	store   *Store
	journal *journal
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.productIndexLocked(id)
	if i < 0 {
		return nil, shared.ErrNotFound
	}
	p := detachedProduct(r.store.products[i])
	return &p, nil
}

// FindAll returns products matching the filter, sorted and paged like the
// SQL repository
func (r *ProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.store.mu.Lock()
	matched := r.matchLocked(filter)
	r.store.mu.Unlock()

	field := persistence.ValidateSortField(filter.OrderBy, persistence.ProductSortFields, "name")
	desc := persistence.ValidateSortOrder(filter.OrderDir) == "DESC"
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareProducts(&matched[i], &matched[j], field)
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	if filter.PageSize > 0 {
		matched = page(matched, filter.Offset(), filter.PageSize)
	}
	return matched, nil
}

// Search returns products whose name or category contains term,
// case-insensitively, ordered by name
func (r *ProductRepository) Search(_ context.Context, term string) ([]catalog.Product, error) {
	r.store.mu.Lock()
	matched := r.matchLocked(shared.Filter{Search: term})
	r.store.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

// Save creates or updates a product
func (r *ProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := detachedProduct(*product)
	var undo func()
	if i := r.store.productIndexLocked(product.ID); i >= 0 {
		previous := r.store.products[i]
		r.store.products[i] = stored
		undo = func() {
			if j := r.store.productIndexLocked(previous.ID); j >= 0 {
				r.store.products[j] = previous
			}
		}
	} else {
		r.store.products = append(r.store.products, stored)
		undo = func() { r.store.removeProductLocked(stored.ID) }
	}
	return r.store.afterWriteLocked(r.journal, undo)
}

// Delete deletes a product
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.productIndexLocked(id)
	if i < 0 {
		return shared.ErrNotFound
	}
	removed := r.store.products[i]
	r.store.removeProductLocked(id)
	return r.store.afterWriteLocked(r.journal, func() {
		r.store.products = append(r.store.products, removed)
	})
}

// Count counts products matching the filter
func (r *ProductRepository) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.matchLocked(filter))), nil
}

func (r *ProductRepository) matchLocked(filter shared.Filter) []catalog.Product {
	term := strings.TrimSpace(filter.Search)
	category := ""
	maxStock, hasMaxStock := 0, false
	for key, value := range filter.Filters {
		switch key {
		case "category":
			category = strings.ToLower(strings.TrimSpace(toString(value)))
		case "max_stock":
			maxStock, hasMaxStock = toInt(value)
		}
	}

	out := make([]catalog.Product, 0, len(r.store.products))
	for i := range r.store.products {
		p := &r.store.products[i]
		if term != "" && !p.Matches(term) {
			continue
		}
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if hasMaxStock && p.Stock > maxStock {
			continue
		}
		out = append(out, detachedProduct(*p))
	}
	return out
}

func (s *Store) removeProductLocked(id string) {
	if i := s.productIndexLocked(id); i >= 0 {
		s.products = append(s.products[:i], s.products[i+1:]...)
	}
}

func compareProducts(a, b *catalog.Product, field string) int {
	switch field {
	case "category":
		return strings.Compare(a.Category, b.Category)
	case "price":
		return a.Price.Cmp(b.Price)
	case "stock":
		return a.Stock - b.Stock
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func page[T any](items []T, offset, size int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// Ensure ProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*ProductRepository)(nil)
