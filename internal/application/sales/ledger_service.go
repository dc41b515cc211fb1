package sales

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockRestorePolicy decides what happens to stock when a transaction is deleted
type StockRestorePolicy string

const (
	// StockRestoreKeep leaves stock untouched
	StockRestoreKeep StockRestorePolicy = "keep"
	// StockRestoreRestore adds each deleted line's quantity back to its product
	StockRestoreRestore StockRestorePolicy = "restore"
)

const (
	defaultTopProducts = 5
	defaultReportDays  = 30
)

// TaxRateProvider returns the tax percentage applied to receipts
type TaxRateProvider interface {
	TaxRate(ctx context.Context) (decimal.Decimal, error)
}

// LedgerConfig holds the ledger's tunables
type LedgerConfig struct {
	RestorePolicy        StockRestorePolicy
	DefaultPaymentMethod string
	TopProducts          int
	Location             *time.Location
}

// LedgerService records sales against the append-only line ledger
type LedgerService struct {
	stockLock      sync.Locker
	scope          TransactionScope
	lineRepo       sales.SaleLineRepository
	generator      *sales.ReceiptNumberGenerator
	taxRates       TaxRateProvider
	eventPublisher shared.EventPublisher
	config         LedgerConfig
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService. stockLock must be the lock
// given to the product service so manual stock edits and checkouts never
// interleave. taxRates may be nil, in which case sales.DefaultTaxRate applies.
func NewLedgerService(
	stockLock sync.Locker,
	scope TransactionScope,
	lineRepo sales.SaleLineRepository,
	generator *sales.ReceiptNumberGenerator,
	taxRates TaxRateProvider,
	eventPublisher shared.EventPublisher,
	config LedgerConfig,
	logger *zap.Logger,
) *LedgerService {
	if stockLock == nil {
		stockLock = &sync.Mutex{}
	}
	if config.RestorePolicy == "" {
		config.RestorePolicy = StockRestoreKeep
	}
	if config.DefaultPaymentMethod == "" {
		config.DefaultPaymentMethod = sales.DefaultPaymentMethod
	}
	if config.TopProducts <= 0 {
		config.TopProducts = defaultTopProducts
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		stockLock:      stockLock,
		scope:          scope,
		lineRepo:       lineRepo,
		generator:      generator,
		taxRates:       taxRates,
		eventPublisher: eventPublisher,
		config:         config,
		logger:         logger,
	}
}

// CommitSale validates every requested line, then allocates a receipt
// number, reserves stock and appends the lines. Any failure leaves stock and
// the ledger unchanged.
func (s *LedgerService) CommitSale(ctx context.Context, req CommitSaleRequest) (*ReceiptResponse, error) {
	if len(req.Items) == 0 {
		return nil, sales.ErrEmptySale
	}

	customer := sales.CustomerInfo{
		Name:  req.Customer.Name,
		Email: req.Customer.Email,
		Phone: req.Customer.Phone,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = s.config.DefaultPaymentMethod
	}

	taxRate, err := s.taxRate(ctx)
	if err != nil {
		return nil, err
	}

	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	var (
		lines    []sales.SaleLine
		products []*catalog.Product
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		reserved, err := s.checkAvailability(ctx, repos.ProductRepo(), req.Items)
		if err != nil {
			return err
		}

		var sequence sales.ReceiptSequence
		if sequenced, ok := repos.(SequencedRepositories); ok {
			sequence = sequenced.ReceiptSequence()
		}
		date := s.generator.Now()
		receiptNumber, err := s.generator.NumberAt(ctx, sequence, date)
		if err != nil {
			return err
		}

		lines = make([]sales.SaleLine, 0, len(req.Items))
		for i, item := range req.Items {
			product := reserved.byID[item.ProductID]
			if err := product.Reserve(item.Quantity); err != nil {
				return err
			}
			line, err := sales.NewSaleLine(receiptNumber, sales.LineInput{
				LineNo:      i + 1,
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    item.Quantity,
			}, customer, date, paymentMethod)
			if err != nil {
				return err
			}
			lines = append(lines, *line)
		}

		for _, product := range reserved.ordered {
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return fmt.Errorf("failed to save product stock: %w", err)
			}
		}
		if err := repos.SaleLineRepo().SaveAll(ctx, lines); err != nil {
			return fmt.Errorf("failed to append sale lines: %w", err)
		}

		products = reserved.ordered
		return nil
	})
	if err != nil {
		return nil, err
	}

	group := sales.GroupByReceipt(lines, taxRate)[0]

	events := make([]shared.DomainEvent, 0, len(products)+1)
	for _, product := range products {
		events = append(events, product.GetDomainEvents()...)
		product.ClearDomainEvents()
	}
	events = append(events, sales.NewSaleCommittedEvent(group))
	s.publish(ctx, events)

	s.logger.Info("Sale committed",
		zap.String("receipt_number", group.ReceiptNumber),
		zap.String("customer", group.Customer),
		zap.Int("lines", len(group.Lines)),
		zap.Int("items", group.ItemCount),
		zap.String("grand_total", group.GrandTotal.String()))

	response := ToReceiptResponse(group)
	return &response, nil
}

type reservation struct {
	byID    map[string]*catalog.Product
	ordered []*catalog.Product
}

// checkAvailability loads every product once and checks each line in input
// order. Repeated products are checked against the cumulative quantity.
func (s *LedgerService) checkAvailability(ctx context.Context, repo catalog.ProductRepository, items []SaleItemRequest) (*reservation, error) {
	res := &reservation{byID: make(map[string]*catalog.Product, len(items))}
	requested := make(map[string]int, len(items))

	for _, item := range items {
		product, ok := res.byID[item.ProductID]
		if !ok {
			found, err := repo.FindByID(ctx, item.ProductID)
			if err != nil {
				if shared.IsNotFound(err) {
					return nil, catalog.ProductNotFound(item.ProductID)
				}
				return nil, err
			}
			product = found
			res.byID[item.ProductID] = product
			res.ordered = append(res.ordered, product)
		}

		if item.Quantity < 1 {
			return nil, catalog.ErrInvalidQuantity
		}

		requested[item.ProductID] += item.Quantity
		if product.Stock < requested[item.ProductID] {
			return nil, catalog.NewInsufficientStockError(product, requested[item.ProductID])
		}
	}
	return res, nil
}

// DeleteTransaction removes every line of a receipt. Stock is returned only
// under the restore policy, and only to products that still exist.
func (s *LedgerService) DeleteTransaction(ctx context.Context, receiptNumber string) (*DeleteTransactionResult, error) {
	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Receipt number is required")
	}

	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	restore := s.config.RestorePolicy == StockRestoreRestore
	var (
		deleted  int64
		restored []*catalog.Product
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.SaleLineRepo().FindByReceipt(ctx, receiptNumber)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return sales.ErrReceiptNotFound
		}

		if restore {
			restored, err = s.restoreStock(ctx, repos.ProductRepo(), lines)
			if err != nil {
				return err
			}
		}

		deleted, err = repos.SaleLineRepo().DeleteByReceipt(ctx, receiptNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	events := make([]shared.DomainEvent, 0, len(restored)+1)
	for _, product := range restored {
		events = append(events, product.GetDomainEvents()...)
		product.ClearDomainEvents()
	}
	events = append(events, sales.NewTransactionDeletedEvent(receiptNumber, int(deleted), restore))
	s.publish(ctx, events)

	s.logger.Info("Transaction deleted",
		zap.String("receipt_number", receiptNumber),
		zap.Int64("lines_deleted", deleted),
		zap.String("stock_policy", string(s.config.RestorePolicy)))

	return &DeleteTransactionResult{
		ReceiptNumber: receiptNumber,
		LinesDeleted:  deleted,
		StockRestored: restore,
	}, nil
}

func (s *LedgerService) restoreStock(ctx context.Context, repo catalog.ProductRepository, lines []sales.SaleLine) ([]*catalog.Product, error) {
	byID := make(map[string]*catalog.Product)
	ordered := make([]*catalog.Product, 0)
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			found, err := repo.FindByID(ctx, line.ProductID)
			if err != nil {
				if shared.IsNotFound(err) {
					s.logger.Warn("Skipping stock restore for deleted product",
						zap.String("product_id", line.ProductID),
						zap.String("line_id", line.ID))
					continue
				}
				return nil, err
			}
			product = found
			byID[line.ProductID] = product
			ordered = append(ordered, product)
		}
		if err := product.Restore(line.Quantity); err != nil {
			return nil, err
		}
	}

	for _, product := range ordered {
		if err := repo.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to save product stock: %w", err)
		}
	}
	return ordered, nil
}

// DeleteLine removes a single line. Stock and sibling lines are untouched.
func (s *LedgerService) DeleteLine(ctx context.Context, id string) error {
	s.stockLock.Lock()
	defer s.stockLock.Unlock()

	line, err := s.lineRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return sales.ErrLineNotFound
		}
		return err
	}

	if err := s.lineRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, []shared.DomainEvent{sales.NewSaleLineDeletedEvent(line)})

	s.logger.Info("Sale line deleted",
		zap.String("line_id", id),
		zap.String("receipt_number", line.ReceiptKey()))
	return nil
}

// ListLines returns ledger lines, newest receipt first
func (s *LedgerService) ListLines(ctx context.Context, filter LineListFilter) ([]SaleLineResponse, int64, error) {
	lineFilter, err := s.lineFilter(filter.From, filter.To)
	if err != nil {
		return nil, 0, err
	}
	lineFilter.Customer = strings.TrimSpace(filter.Customer)
	lineFilter.Page = filter.Page
	if lineFilter.Page < 1 {
		lineFilter.Page = 1
	}
	lineFilter.PageSize = filter.PageSize
	if lineFilter.PageSize < 1 {
		lineFilter.PageSize = 50
	}

	lines, total, err := s.lineRepo.FindAll(ctx, lineFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleLineResponses(lines), total, nil
}

// ListReceipts regroups the matching lines into receipts. Paging applies to
// receipts, not lines.
func (s *LedgerService) ListReceipts(ctx context.Context, filter LineListFilter) ([]ReceiptResponse, int64, error) {
	lineFilter, err := s.lineFilter(filter.From, filter.To)
	if err != nil {
		return nil, 0, err
	}
	lineFilter.Customer = strings.TrimSpace(filter.Customer)

	lines, _, err := s.lineRepo.FindAll(ctx, lineFilter)
	if err != nil {
		return nil, 0, err
	}
	taxRate, err := s.taxRate(ctx)
	if err != nil {
		return nil, 0, err
	}

	groups := sales.GroupByReceipt(lines, taxRate)
	total := int64(len(groups))

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize > 0 {
		start := (page - 1) * pageSize
		if start > len(groups) {
			start = len(groups)
		}
		end := start + pageSize
		if end > len(groups) {
			end = len(groups)
		}
		groups = groups[start:end]
	}

	result := make([]ReceiptResponse, len(groups))
	for i := range groups {
		result[i] = ToReceiptResponse(groups[i])
	}
	return result, total, nil
}

// GetReceipt returns one transaction regrouped from its lines
func (s *LedgerService) GetReceipt(ctx context.Context, receiptNumber string) (*ReceiptResponse, error) {
	group, err := s.LoadReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(*group)
	return &response, nil
}

// LoadReceipt returns the domain view of one receipt, with the current tax rate applied
func (s *LedgerService) LoadReceipt(ctx context.Context, receiptNumber string) (*sales.ReceiptGroup, error) {
	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Receipt number is required")
	}

	lines, err := s.lineRepo.FindByReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	taxRate, err := s.taxRate(ctx)
	if err != nil {
		return nil, err
	}

	group, ok := sales.FindReceipt(lines, receiptNumber, taxRate)
	if !ok {
		return nil, sales.ErrReceiptNotFound
	}
	return &group, nil
}

// Report summarizes sales over a day range. The range defaults to the last
// 30 days ending today.
func (s *LedgerService) Report(ctx context.Context, req ReportRequest) (*sales.Report, error) {
	to := sales.TruncateDay(s.generator.Now())
	if req.To != "" {
		parsed, err := s.parseDay(req.To)
		if err != nil {
			return nil, err
		}
		to = parsed
	}
	from := to.AddDate(0, 0, -(defaultReportDays - 1))
	if req.From != "" {
		parsed, err := s.parseDay(req.From)
		if err != nil {
			return nil, err
		}
		from = parsed
	}
	if from.After(to) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Report start date must not be after its end date")
	}

	lines, _, err := s.lineRepo.FindAll(ctx, sales.LineFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	report := sales.BuildReport(lines, from, to, s.config.TopProducts)
	return &report, nil
}

func (s *LedgerService) lineFilter(from, to string) (sales.LineFilter, error) {
	var filter sales.LineFilter
	if from != "" {
		day, err := s.parseDay(from)
		if err != nil {
			return filter, err
		}
		filter.From = &day
	}
	if to != "" {
		day, err := s.parseDay(to)
		if err != nil {
			return filter, err
		}
		filter.To = &day
	}
	return filter, nil
}

func (s *LedgerService) parseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, value, s.config.Location)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT", "Dates must be formatted as YYYY-MM-DD")
	}
	return day, nil
}

func (s *LedgerService) taxRate(ctx context.Context) (decimal.Decimal, error) {
	if s.taxRates == nil {
		return sales.DefaultTaxRate, nil
	}
	rate, err := s.taxRates.TaxRate(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load tax rate: %w", err)
	}
	return rate, nil
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish ledger events", zap.Error(err))
	}
}
