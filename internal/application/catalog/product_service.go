package catalog

import (
	"context"
	"sync"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultLowStockThreshold flags products with this many units or fewer
const DefaultLowStockThreshold = 5

// ProductService handles product-related business operations
type ProductService struct {
	productRepo       catalog.ProductRepository
	eventPublisher    shared.EventPublisher
	stockLock         sync.Locker
	lowStockThreshold int
	logger            *zap.Logger
}

// NewProductService creates a new ProductService. stockLock serializes stock
// read-modify-write cycles and must be the same lock the sales ledger holds;
// nil gets a private mutex.
func NewProductService(
	productRepo catalog.ProductRepository,
	eventPublisher shared.EventPublisher,
	stockLock sync.Locker,
	lowStockThreshold int,
	logger *zap.Logger,
) *ProductService {
	if stockLock == nil {
		stockLock = &sync.Mutex{}
	}
	if lowStockThreshold < 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo:       productRepo,
		eventPublisher:    eventPublisher,
		stockLock:         stockLock,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
	}
}

// LowStockThreshold returns the configured low stock threshold
func (s *ProductService) LowStockThreshold() int {
	return s.lowStockThreshold
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	purchasePrice := decimal.Zero
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}

	product, err := catalog.NewProduct(req.Name, req.Category, req.Supplier, price, purchasePrice, stock)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock))

	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id string) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.LowStock {
		domainFilter.Filters["max_stock"] = s.lowStockThreshold
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products, s.lowStockThreshold), total, nil
}

// Search returns every product whose name or category contains term.
// An empty term returns the whole catalog.
func (s *ProductService) Search(ctx context.Context, term string) ([]ProductResponse, error) {
	products, err := s.productRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products, s.lowStockThreshold), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error) {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name, category, supplier := product.Name, product.Category, product.Supplier
	price, purchasePrice, stock := product.Price, product.PurchasePrice, product.Stock
	if req.Name != nil {
		name = *req.Name
	}
	if req.Category != nil {
		category = *req.Category
	}
	if req.Supplier != nil {
		supplier = *req.Supplier
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	if req.Stock != nil {
		stock = *req.Stock
	}

	if err := product.Update(name, category, supplier, price, purchasePrice, stock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// Delete removes a product. Sale lines keep their name and price snapshot.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	product.AddDomainEvent(catalog.NewProductDeletedEvent(product))
	s.publishDomainEvents(ctx, product)

	s.logger.Info("product deleted", zap.String("product_id", id), zap.String("name", product.Name))
	return nil
}

// ReserveStock takes quantity units from a product's stock. The stock is
// left unchanged when the reservation fails.
func (s *ProductService) ReserveStock(ctx context.Context, id string, quantity int) (*ProductResponse, error) {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Reserve(quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// RestoreStock returns quantity units to a product's stock
func (s *ProductService) RestoreStock(ctx context.Context, id string, quantity int) (*ProductResponse, error) {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Restore(quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// AdjustStock applies a manual restock or shrinkage correction
func (s *ProductService) AdjustStock(ctx context.Context, id string, req AdjustStockRequest) (*ProductResponse, error) {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustStock(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	s.logger.Info("stock adjusted",
		zap.String("product_id", product.ID),
		zap.Int("delta", req.Delta),
		zap.Int("stock", product.Stock),
		zap.String("reason", req.Reason))

	response := ToProductResponse(product, s.lowStockThreshold)
	return &response, nil
}

// LowStock returns every product at or below the low stock threshold
func (s *ProductService) LowStock(ctx context.Context) ([]ProductResponse, error) {
	filter := shared.Unpaged()
	filter.OrderBy = "stock"
	filter.OrderDir = "asc"
	filter.Filters["max_stock"] = s.lowStockThreshold

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products, s.lowStockThreshold), nil
}

func (s *ProductService) findProduct(ctx context.Context, id string) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, catalog.ProductNotFound(id)
		}
		return nil, err
	}
	return product, nil
}

// publishDomainEvents publishes the aggregate's pending events. Publishing
// failures are logged and never undo the committed change.
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", product.ID),
			zap.Error(err))
	}
}
