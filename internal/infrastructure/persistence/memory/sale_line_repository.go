package memory

import (
	"context"
	"strings"

	"github.com/lababil/pos/internal/domain/sales"
)

// SaleLineRepository implements sales.SaleLineRepository on a Store
type SaleLineRepository struct {
	store   *Store
	journal *journal
}

// NewSaleLineRepository creates a new SaleLineRepository
func NewSaleLineRepository(store *Store) *SaleLineRepository {
	return &SaleLineRepository{store: store}
}

// SaveAll prepends lines to the ledger as one batch
func (r *SaleLineRepository) SaveAll(_ context.Context, lines []sales.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	batch := r.store.nextBatch
	r.store.nextBatch++

	entries := make([]lineEntry, len(lines))
	ids := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		entries[i] = lineEntry{line: l, batch: batch, pos: i}
		ids[l.ID] = struct{}{}
	}
	r.store.lines = append(entries, r.store.lines...)
	r.store.sortLinesLocked()

	return r.store.afterWriteLocked(r.journal, func() {
		r.store.removeLinesLocked(func(e *lineEntry) bool {
			_, ok := ids[e.line.ID]
			return ok && e.batch == batch
		})
	})
}

// FindAll returns ledger lines matching the filter, newest receipt first
func (r *SaleLineRepository) FindAll(_ context.Context, filter sales.LineFilter) ([]sales.SaleLine, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	customer := strings.ToLower(strings.TrimSpace(filter.Customer))
	matched := make([]sales.SaleLine, 0, len(r.store.lines))
	for i := range r.store.lines {
		l := &r.store.lines[i].line
		if filter.From != nil && l.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.Date.After(*filter.To) {
			continue
		}
		if customer != "" && !strings.Contains(strings.ToLower(l.Customer), customer) {
			continue
		}
		matched = append(matched, *l)
	}

	total := int64(len(matched))
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		matched = page(matched, offset, filter.PageSize)
	}
	return matched, total, nil
}

// FindByID finds one line
func (r *SaleLineRepository) FindByID(_ context.Context, id string) (*sales.SaleLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.lineIndexLocked(id)
	if i < 0 {
		return nil, sales.ErrLineNotFound
	}
	l := r.store.lines[i].line
	return &l, nil
}

// FindByReceipt returns every line whose receipt key equals receiptNumber
func (r *SaleLineRepository) FindByReceipt(_ context.Context, receiptNumber string) ([]sales.SaleLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []sales.SaleLine
	for i := range r.store.lines {
		if r.store.lines[i].line.ReceiptKey() == receiptNumber {
			out = append(out, r.store.lines[i].line)
		}
	}
	return out, nil
}

// DeleteByReceipt removes every line of a receipt and returns the count
func (r *SaleLineRepository) DeleteByReceipt(_ context.Context, receiptNumber string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := r.store.removeLinesLocked(func(e *lineEntry) bool {
		return e.line.ReceiptKey() == receiptNumber
	})
	if len(removed) == 0 {
		return 0, nil
	}
	return int64(len(removed)), r.store.afterWriteLocked(r.journal, func() { r.store.reinsertLinesLocked(removed) })
}

// Delete removes one line
func (r *SaleLineRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := r.store.removeLinesLocked(func(e *lineEntry) bool { return e.line.ID == id })
	if len(removed) == 0 {
		return sales.ErrLineNotFound
	}
	return r.store.afterWriteLocked(r.journal, func() { r.store.reinsertLinesLocked(removed) })
}

// removeLinesLocked drops the matching entries and returns them
func (s *Store) removeLinesLocked(match func(*lineEntry) bool) []lineEntry {
	var removed []lineEntry
	kept := s.lines[:0]
	for _, e := range s.lines {
		if match(&e) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	s.lines = kept
	return removed
}

func (s *Store) reinsertLinesLocked(entries []lineEntry) {
	s.lines = append(s.lines, entries...)
	s.sortLinesLocked()
}

// Ensure SaleLineRepository implements sales.SaleLineRepository
var _ sales.SaleLineRepository = (*SaleLineRepository)(nil)
