package telemetry

import (
	"context"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// SalesMetrics turns ledger and stock events into counters. It is
// subscribed on the event bus like any other handler.
type SalesMetrics struct {
	salesCommitted      *Counter
	revenue             *FloatCounter
	itemsSold           *Counter
	receiptValue        *Histogram
	transactionsDeleted *Counter
	linesDeleted        *Counter
	stockMovements      *Counter
	stockLevel          *Gauge
	lowStock            *Counter
}

// NewSalesMetrics creates the instruments on meter.
func NewSalesMetrics(meter metric.Meter) (*SalesMetrics, error) {
	var (
		m   SalesMetrics
		err error
	)
	if m.salesCommitted, err = NewCounter(meter, "pos.sales.committed", "Receipts committed", "{receipt}"); err != nil {
		return nil, err
	}
	if m.revenue, err = NewFloatCounter(meter, "pos.sales.revenue", "Grand total of committed receipts", "IDR"); err != nil {
		return nil, err
	}
	if m.itemsSold, err = NewCounter(meter, "pos.sales.items", "Units sold", "{item}"); err != nil {
		return nil, err
	}
	if m.receiptValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "pos.sales.receipt_value",
		Description: "Grand total per receipt",
		Unit:        "IDR",
		Boundaries:  ReceiptValueBuckets,
	}); err != nil {
		return nil, err
	}
	if m.transactionsDeleted, err = NewCounter(meter, "pos.sales.transactions_deleted", "Receipts deleted", "{receipt}"); err != nil {
		return nil, err
	}
	if m.linesDeleted, err = NewCounter(meter, "pos.sales.lines_deleted", "Ledger lines deleted", "{line}"); err != nil {
		return nil, err
	}
	if m.stockMovements, err = NewCounter(meter, "pos.stock.movements", "Units moved in or out of stock", "{item}"); err != nil {
		return nil, err
	}
	if m.stockLevel, err = NewGauge(meter, "pos.stock.level", "Stock after the last movement", "{item}"); err != nil {
		return nil, err
	}
	if m.lowStock, err = NewCounter(meter, "pos.stock.low", "Movements that left a product at or below the low stock threshold", "{event}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// Handle records the event.
func (m *SalesMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCommittedEvent:
		payment := AttrPaymentMethod.String(e.PaymentMethod)
		total := e.GrandTotal.InexactFloat64()
		m.salesCommitted.Inc(ctx, payment)
		m.revenue.Add(ctx, total, payment)
		m.itemsSold.Add(ctx, int64(e.ItemCount), payment)
		m.receiptValue.Record(ctx, total, payment)
	case *sales.TransactionDeletedEvent:
		m.transactionsDeleted.Inc(ctx, AttrStockRestored.Bool(e.StockRestored))
		m.linesDeleted.Add(ctx, int64(e.LinesDeleted))
	case *sales.SaleLineDeletedEvent:
		m.linesDeleted.Inc(ctx)
	case *catalog.ProductStockChangedEvent:
		delta := int64(e.Delta)
		if delta < 0 {
			delta = -delta
		}
		m.stockMovements.Add(ctx, delta, AttrStockReason.String(string(e.Reason)))
		m.stockLevel.Record(ctx, int64(e.Stock), AttrProductID.String(e.ProductID))
	}
	return nil
}

// RecordLowStock counts a low stock warning. It matches the notify hook of
// the low stock handler.
func (m *SalesMetrics) RecordLowStock(ctx context.Context, productID string, _ int) {
	m.lowStock.Inc(ctx, AttrProductID.String(productID))
}

// EventTypes returns the events that feed the metrics.
func (m *SalesMetrics) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCommitted,
		sales.EventTypeTransactionDeleted,
		sales.EventTypeSaleLineDeleted,
		catalog.EventTypeProductStockChanged,
	}
}

var _ shared.EventHandler = (*SalesMetrics)(nil)
