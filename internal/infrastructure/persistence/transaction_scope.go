package persistence

import (
	"context"
	"time"

	salesapp "github.com/lababil/pos/internal/application/sales"
	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Stock reservations and ledger appends made inside Execute commit together.
type GormTransactionScope struct {
	db             *gorm.DB
	location       *time.Location
	scopedSequence bool
}

// NewGormTransactionScope creates a new GormTransactionScope. Receipt
// numbers are drawn from receipt_counters inside the transaction.
func NewGormTransactionScope(db *gorm.DB, location *time.Location) *GormTransactionScope {
	return &GormTransactionScope{db: db, location: location, scopedSequence: true}
}

// WithExternalSequence leaves receipt numbering to the generator's own
// sequence, e.g. a Redis counter
func (s *GormTransactionScope) WithExternalSequence() *GormTransactionScope {
	s.scopedSequence = false
	return s
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos salesapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, location: s.location, scopedSequence: s.scopedSequence})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx             *gorm.DB
	location       *time.Location
	scopedSequence bool
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// SaleLineRepo returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) SaleLineRepo() sales.SaleLineRepository {
	return NewGormSaleLineRepository(r.tx, r.location)
}

// ReceiptSequence returns the receipt counters scoped to the current
// transaction so a rolled back sale does not consume a number. It is nil
// when the scope uses an external sequence.
func (r *gormTransactionalRepositories) ReceiptSequence() sales.ReceiptSequence {
	if !r.scopedSequence {
		return nil
	}
	return NewGormReceiptSequence(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ salesapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var (
	_ salesapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ salesapp.SequencedRepositories     = (*gormTransactionalRepositories)(nil)
)
