package event

import (
	"context"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per domain event on a
// dedicated "audit" logger
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// Handle logs the event with the fields that matter for its type
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *sales.SaleCommittedEvent:
		fields = append(fields,
			zap.String("receipt_number", e.ReceiptNumber),
			zap.String("customer", e.Customer),
			zap.Int("items", e.ItemCount),
			zap.String("grand_total", e.GrandTotal.StringFixed(2)),
		)
	case *sales.TransactionDeletedEvent:
		fields = append(fields,
			zap.String("receipt_number", e.ReceiptNumber),
			zap.Int("lines_deleted", e.LinesDeleted),
			zap.Bool("stock_restored", e.StockRestored),
		)
	case *sales.SaleLineDeletedEvent:
		fields = append(fields, zap.String("line_id", e.LineID))
	case *catalog.ProductStockChangedEvent:
		fields = append(fields,
			zap.Int("delta", e.Delta),
			zap.Int("stock", e.Stock),
			zap.String("reason", string(e.Reason)),
		)
	case *catalog.ProductDeletedEvent:
		fields = append(fields, zap.String("name", e.Name))
	case *identity.UserCreatedEvent:
		fields = append(fields, zap.String("username", e.Username), zap.String("role", string(e.Role)))
	case *identity.UserRoleChangedEvent:
		fields = append(fields, zap.String("username", e.Username), zap.String("role", string(e.Role)))
	case *identity.UserStatusChangedEvent:
		fields = append(fields, zap.String("username", e.Username), zap.Bool("is_active", e.IsActive))
	case *identity.UserDeletedEvent:
		fields = append(fields, zap.String("username", e.Username))
	case *identity.UserPasswordChangedEvent:
		fields = append(fields, zap.String("username", e.Username))
	}

	h.logger.Info("Domain event", fields...)
	return nil
}

// EventTypes returns nil so the handler sees every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// LowStockHandler warns when a stock movement leaves a product at or below
// the low stock threshold
type LowStockHandler struct {
	threshold int
	logger    *zap.Logger
	notify    func(ctx context.Context, productID string, stock int)
}

// NewLowStockHandler creates a new LowStockHandler. notify may be nil.
func NewLowStockHandler(threshold int, logger *zap.Logger, notify func(ctx context.Context, productID string, stock int)) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{threshold: threshold, logger: logger, notify: notify}
}

// Handle reacts to stock decreases that cross into low stock
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.ProductStockChangedEvent)
	if !ok || e.Delta >= 0 || e.Stock > h.threshold {
		return nil
	}

	h.logger.Warn("Product stock is low",
		zap.String("product_id", e.ProductID),
		zap.Int("stock", e.Stock),
		zap.Int("threshold", h.threshold),
		zap.String("reason", string(e.Reason)),
	)
	if h.notify != nil {
		h.notify(ctx, e.ProductID, e.Stock)
	}
	return nil
}

// EventTypes returns the stock change event only
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductStockChanged}
}

var (
	_ shared.EventHandler = (*AuditLogHandler)(nil)
	_ shared.EventHandler = (*LowStockHandler)(nil)
)
