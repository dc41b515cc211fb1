package memory

import (
	"context"
	"sync"

	salesapp "github.com/lababil/pos/internal/application/sales"
	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/sales"
	"go.uber.org/zap"
)

// TransactionScope implements salesapp.TransactionScope on a Store.
// Writes made inside Execute are journaled and undone when fn fails;
// scopes run one at a time.
type TransactionScope struct {
	store *Store
	mu    sync.Mutex
}

// NewTransactionScope creates a new TransactionScope
func NewTransactionScope(store *Store) *TransactionScope {
	return &TransactionScope{store: store}
}

// Execute runs fn against repositories bound to a fresh journal
func (s *TransactionScope) Execute(ctx context.Context, fn func(repos salesapp.TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j := &journal{}
	if err := fn(&transactionalRepositories{store: s.store, journal: j}); err != nil {
		s.rollback(j)
		return err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if !s.store.autoFlush {
		return nil
	}
	return s.store.flushLocked()
}

func (s *TransactionScope) rollback(j *journal) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	if len(j.undo) > 0 {
		s.store.logger.Debug("Transaction rolled back", zap.Int("undone_writes", len(j.undo)))
	}
}

type transactionalRepositories struct {
	store   *Store
	journal *journal
}

// ProductRepo returns the product repository bound to the scope
func (r *transactionalRepositories) ProductRepo() catalog.ProductRepository {
	return &ProductRepository{store: r.store, journal: r.journal}
}

// SaleLineRepo returns the ledger repository bound to the scope
func (r *transactionalRepositories) SaleLineRepo() sales.SaleLineRepository {
	return &SaleLineRepository{store: r.store, journal: r.journal}
}

// ReceiptSequence returns the counters bound to the scope so a failed
// sale gives its number back
func (r *transactionalRepositories) ReceiptSequence() sales.ReceiptSequence {
	return &ReceiptSequence{store: r.store, journal: r.journal}
}

var (
	_ salesapp.TransactionScope          = (*TransactionScope)(nil)
	_ salesapp.TransactionalRepositories = (*transactionalRepositories)(nil)
	_ salesapp.SequencedRepositories     = (*transactionalRepositories)(nil)
)
