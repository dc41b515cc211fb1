package sales

import (
	"context"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/sales"
)

// TransactionScope provides transactional access to the ledger and the
// products whose stock a sale reserves. If fn returns an error every write
// made through the scoped repositories is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// SaleLineRepo returns the ledger repository scoped to the current transaction
	SaleLineRepo() sales.SaleLineRepository
}

// SequencedRepositories is implemented by transactional repositories that
// can issue receipt numbers inside the transaction. A rolled back sale then
// returns its number too.
type SequencedRepositories interface {
	ReceiptSequence() sales.ReceiptSequence
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests and stores without transaction support.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	saleLineRepo sales.SaleLineRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(productRepo catalog.ProductRepository, saleLineRepo sales.SaleLineRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		saleLineRepo: saleLineRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// SaleLineRepo returns the ledger repository
func (s *NoOpTransactionScope) SaleLineRepo() sales.SaleLineRepository {
	return s.saleLineRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
