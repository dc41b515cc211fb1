package memory

import (
	"context"

	"github.com/lababil/pos/internal/domain/sales"
)

// ReceiptSequence keeps daily receipt counters in the Store, next to the
// sales they number
type ReceiptSequence struct {
	store   *Store
	journal *journal
}

// NewReceiptSequence creates a new ReceiptSequence
func NewReceiptSequence(store *Store) *ReceiptSequence {
	return &ReceiptSequence{store: store}
}

// Next increments and returns the counter stored under key
func (s *ReceiptSequence) Next(_ context.Context, key string) (int64, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	previous, existed := s.store.counters[key]
	value := previous + 1
	s.store.counters[key] = value

	// A number handed out after ours keeps the counter where it is.
	return value, s.store.afterWriteLocked(s.journal, func() {
		if s.store.counters[key] != value {
			return
		}
		if existed {
			s.store.counters[key] = previous
		} else {
			delete(s.store.counters, key)
		}
	})
}

// Ensure ReceiptSequence implements sales.ReceiptSequence
var _ sales.ReceiptSequence = (*ReceiptSequence)(nil)
