package persistence

import (
	"context"
	"fmt"

	"github.com/lababil/pos/internal/domain/sales"
	"gorm.io/gorm"
)

// nextCounterSQL increments a counter in one statement so concurrent
// callers never observe the same value. Valid on postgres and sqlite 3.35+.
const nextCounterSQL = `INSERT INTO receipt_counters (counter_key, value) VALUES (?, 1)
ON CONFLICT (counter_key) DO UPDATE SET value = receipt_counters.value + 1
RETURNING value`

// GormReceiptSequence keeps daily receipt counters in the receipt_counters table
type GormReceiptSequence struct {
	db *gorm.DB
}

// NewGormReceiptSequence creates a new GormReceiptSequence
func NewGormReceiptSequence(db *gorm.DB) *GormReceiptSequence {
	return &GormReceiptSequence{db: db}
}

// Next increments and returns the counter stored under key
func (s *GormReceiptSequence) Next(ctx context.Context, key string) (int64, error) {
	var value int64
	if err := s.db.WithContext(ctx).Raw(nextCounterSQL, key).Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("failed to increment receipt counter %s: %w", key, err)
	}
	return value, nil
}

// Ensure GormReceiptSequence implements ReceiptSequence
var _ sales.ReceiptSequence = (*GormReceiptSequence)(nil)
