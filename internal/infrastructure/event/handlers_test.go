package event

import (
	"context"
	"testing"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Mouse Logitech", "Accessories", "PT. Logitech",
		decimal.NewFromInt(250000), decimal.NewFromInt(180000), stock)
	require.NoError(t, err)
	return p
}

func TestAuditLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := NewAuditLogHandler(zap.New(core))
	assert.Nil(t, handler.EventTypes())

	t.Run("sale committed", func(t *testing.T) {
		event := sales.NewSaleCommittedEvent(sales.ReceiptGroup{
			ReceiptNumber: "0001/LS/22092025",
			Customer:      "Budi",
			ItemCount:     3,
			GrandTotal:    decimal.NewFromInt(12210000),
		})
		require.NoError(t, handler.Handle(context.Background(), event))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "audit", entries[0].LoggerName)
		fields := entries[0].ContextMap()
		assert.Equal(t, "SaleCommitted", fields["event_type"])
		assert.Equal(t, "0001/LS/22092025", fields["receipt_number"])
		assert.Equal(t, "12210000.00", fields["grand_total"])
	})

	t.Run("user created", func(t *testing.T) {
		user, err := identity.NewUserWithHash("kasir", "$2a$10$hash", "Kasir", "", identity.RoleKasir)
		require.NoError(t, err)
		require.NoError(t, handler.Handle(context.Background(), identity.NewUserCreatedEvent(user)))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "kasir", entries[0].ContextMap()["role"])
	})
}

func TestLowStockHandler(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var notified []string
	handler := NewLowStockHandler(5, zap.New(core), func(_ context.Context, productID string, _ int) {
		notified = append(notified, productID)
	})
	assert.Equal(t, []string{catalog.EventTypeProductStockChanged}, handler.EventTypes())

	tests := []struct {
		name   string
		stock  int
		delta  int
		alerts bool
	}{
		{"drop into low stock", 4, -2, true},
		{"drop to exactly the threshold", 5, -1, true},
		{"still above threshold", 6, -1, false},
		{"restock never alerts", 3, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notified = nil
			p := mustProduct(t, tt.stock)
			event := catalog.NewProductStockChangedEvent(p, tt.delta, catalog.StockChangeReserved)

			require.NoError(t, handler.Handle(context.Background(), event))
			if tt.alerts {
				assert.Equal(t, []string{p.ID}, notified)
				assert.Equal(t, 1, logs.Len())
			} else {
				assert.Empty(t, notified)
				assert.Zero(t, logs.Len())
			}
			logs.TakeAll()
		})
	}
}

func TestHandlersOnTheBus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewAuditLogHandler(logger))
	bus.Subscribe(NewLowStockHandler(5, logger, nil))

	p := mustProduct(t, 10)
	require.NoError(t, p.Reserve(8))
	require.NoError(t, bus.Publish(context.Background(), p.GetDomainEvents()...))

	// created + stock changed on the audit log, plus one low stock warning
	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("Product stock is low").Len())
}
