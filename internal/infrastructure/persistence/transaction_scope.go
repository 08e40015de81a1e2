package persistence

import (
	"context"

	appsourcing "github.com/erp/procurement/internal/application/sourcing"
	apptrade "github.com/erp/procurement/internal/application/trade"
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements the quotation conversion TransactionScope.
// Repositories handed to fn share one transaction, so their own saves nest
// as savepoints and their outbox events commit or roll back together.
type GormTransactionScope struct {
	db            *gorm.DB
	quotationRepo *GormQuotationRepository
	orderRepo     *GormPurchaseOrderRepository
}

// NewGormTransactionScope creates a new GormTransactionScope from the
// configured repositories
func NewGormTransactionScope(db *gorm.DB, quotationRepo *GormQuotationRepository, orderRepo *GormPurchaseOrderRepository) *GormTransactionScope {
	return &GormTransactionScope{db: db, quotationRepo: quotationRepo, orderRepo: orderRepo}
}

// Execute runs fn within a database transaction.
// If fn returns an error the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsourcing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{
			quotationRepo: s.quotationRepo.WithTx(tx),
			orderRepo:     s.orderRepo.WithTx(tx),
		})
	})
}

type gormTransactionalRepositories struct {
	quotationRepo *GormQuotationRepository
	orderRepo     *GormPurchaseOrderRepository
}

func (r *gormTransactionalRepositories) QuotationRepo() sourcing.QuotationRepository {
	return r.quotationRepo
}

func (r *gormTransactionalRepositories) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return r.orderRepo
}

var (
	_ appsourcing.TransactionScope          = (*GormTransactionScope)(nil)
	_ appsourcing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)

// GormInventoryScope implements the goods receipt InventoryScope
type GormInventoryScope struct {
	db           *gorm.DB
	materialRepo *GormMaterialRepository
}

// NewGormInventoryScope creates a new GormInventoryScope
func NewGormInventoryScope(db *gorm.DB, materialRepo *GormMaterialRepository) *GormInventoryScope {
	return &GormInventoryScope{db: db, materialRepo: materialRepo}
}

// Execute runs fn within a database transaction.
// If fn returns an error no material of the receipt is updated.
func (s *GormInventoryScope) Execute(ctx context.Context, fn func(repos apptrade.InventoryRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{materialRepo: s.materialRepo.WithTx(tx)})
	})
}

type gormInventoryRepositories struct {
	materialRepo *GormMaterialRepository
}

func (r *gormInventoryRepositories) MaterialRepo() catalog.MaterialRepository {
	return r.materialRepo
}

var (
	_ apptrade.InventoryScope        = (*GormInventoryScope)(nil)
	_ apptrade.InventoryRepositories = (*gormInventoryRepositories)(nil)
)
