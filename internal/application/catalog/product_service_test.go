package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, term string) ([]catalog.Product, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestProduct(t *testing.T, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "Software", "Lababil", decimal.NewFromInt(price), decimal.NewFromInt(price/2), stock)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product and publishes event", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := new(MockEventPublisher)
		svc := NewProductService(repo, publisher, nil, 5, nil)

		price := decimal.NewFromInt(2500000)
		stock := 10
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == catalog.EventTypeProductCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{
			Name:     "Website Development",
			Category: "Service",
			Price:    &price,
			Stock:    &stock,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "Website Development", resp.Name)
		assert.True(t, resp.Price.Equal(price))
		assert.True(t, resp.PurchasePrice.IsZero())
		assert.Equal(t, 10, resp.Stock)
		assert.False(t, resp.LowStock)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)

		price := decimal.NewFromInt(-1)
		_, err := svc.Create(ctx, CreateProductRequest{Name: "Broken", Price: &price})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := new(MockEventPublisher)
		svc := NewProductService(repo, publisher, nil, 5, nil)

		price := decimal.NewFromInt(100)
		repo.On("Save", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus down"))

		resp, err := svc.Create(ctx, CreateProductRequest{Name: "Mouse", Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "Mouse", resp.Name)
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("maps not found to product not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("flags low stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		p := newTestProduct(t, "Cable", 1000, 5)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)

		resp, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, resp.LowStock)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil, 5, nil)

	products := []catalog.Product{*newTestProduct(t, "A", 10, 1), *newTestProduct(t, "B", 20, 50)}
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "name" && f.OrderDir == "asc" && f.Filters["max_stock"] == 5
	})).Return(products, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

	items, total, err := svc.List(ctx, ProductListFilter{LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].LowStock)
	assert.False(t, items[1].LowStock)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil, 5, nil)

	p := newTestProduct(t, "Keyboard", 150000, 10)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)

	name := "Mechanical Keyboard"
	stock := 7
	resp, err := svc.Update(ctx, p.ID, UpdateProductRequest{Name: &name, Stock: &stock})

	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", resp.Name)
	assert.Equal(t, 7, resp.Stock)
	assert.True(t, resp.Price.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, "Software", resp.Category)
	assert.Equal(t, 2, resp.Version)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := new(MockEventPublisher)
		svc := NewProductService(repo, publisher, nil, 5, nil)

		p := newTestProduct(t, "Monitor", 1000000, 3)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		repo.On("Delete", ctx, p.ID).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == catalog.EventTypeProductDeleted
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, p.ID))
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		repo.On("FindByID", ctx, "nope").Return(nil, shared.ErrNotFound)

		err := svc.Delete(ctx, "nope")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_ReserveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		p := newTestProduct(t, "Laptop", 100, 10)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)

		resp, err := svc.ReserveStock(ctx, p.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 6, resp.Stock)
	})

	t.Run("insufficient stock leaves product untouched", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		p := newTestProduct(t, "Laptop", 100, 2)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.ReserveStock(ctx, p.ID, 3)

		var stockErr *catalog.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, 2, p.Stock)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("zero quantity", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, 5, nil)
		p := newTestProduct(t, "Laptop", 100, 2)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := svc.ReserveStock(ctx, p.ID, 0)
		assert.ErrorIs(t, err, catalog.ErrInvalidQuantity)
	})
}

func TestProductService_RestoreStock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	publisher := new(MockEventPublisher)
	svc := NewProductService(repo, publisher, nil, 5, nil)
	p := newTestProduct(t, "Laptop", 100, 3)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != 1 {
			return false
		}
		ev, ok := events[0].(*catalog.ProductStockChangedEvent)
		return ok && ev.Reason == catalog.StockChangeRestored
	})).Return(nil)

	resp, err := svc.RestoreStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Stock)
	publisher.AssertExpectations(t)
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil, 5, nil)
	p := newTestProduct(t, "Paper", 50, 3)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)

	resp, err := svc.AdjustStock(ctx, p.ID, AdjustStockRequest{Delta: 20, Reason: "restock"})
	require.NoError(t, err)
	assert.Equal(t, 23, resp.Stock)

	_, err = svc.AdjustStock(ctx, p.ID, AdjustStockRequest{Delta: -30})
	var stockErr *catalog.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 23, p.Stock)
}
