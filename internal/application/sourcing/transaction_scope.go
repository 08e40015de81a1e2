package sourcing

import (
	"context"

	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
)

// TransactionScope runs a conversion atomically: the purchase orders, the updated
// quotation and their outbox events are committed or rolled back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories bound to one transaction
type TransactionalRepositories interface {
	QuotationRepo() sourcing.QuotationRepository
	PurchaseOrderRepo() trade.PurchaseOrderRepository
}

// NoOpTransactionScope hands out the plain repositories without a transaction.
// Used in tests.
type NoOpTransactionScope struct {
	quotationRepo sourcing.QuotationRepository
	orderRepo     trade.PurchaseOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(quotationRepo sourcing.QuotationRepository, orderRepo trade.PurchaseOrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{quotationRepo: quotationRepo, orderRepo: orderRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// QuotationRepo returns the quotation repository
func (s *NoOpTransactionScope) QuotationRepo() sourcing.QuotationRepository {
	return s.quotationRepo
}

// PurchaseOrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.orderRepo
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
