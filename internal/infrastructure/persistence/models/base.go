package models

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateModel provides common persistence fields for aggregate roots.
// Version backs optimistic locking.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a *shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to a domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// DocumentModel adds audit stamps and the soft-delete lifecycle to AggregateModel
type DocumentModel struct {
	AggregateModel
	CreatedBy      string                `gorm:"type:varchar(100)"`
	UpdatedBy      string                `gorm:"type:varchar(100)"`
	LifecycleState shared.LifecycleState `gorm:"type:varchar(10);not null;default:'active';index"`
	RemovedAt      *time.Time
	RemovedBy      string `gorm:"type:varchar(100)"`
}

// FromDomainDocumentRoot populates DocumentModel from a domain DocumentRoot
func (m *DocumentModel) FromDomainDocumentRoot(d *shared.DocumentRoot) {
	m.FromDomainAggregateRoot(&d.BaseAggregateRoot)
	m.CreatedBy = d.CreatedBy
	m.UpdatedBy = d.UpdatedBy
	m.LifecycleState = d.Lifecycle.State
	if m.LifecycleState == "" {
		m.LifecycleState = shared.LifecycleActive
	}
	m.RemovedAt = d.Lifecycle.RemovedAt
	m.RemovedBy = d.Lifecycle.RemovedBy
}

// ToDomainDocumentRoot converts DocumentModel to a domain DocumentRoot
func (m *DocumentModel) ToDomainDocumentRoot() shared.DocumentRoot {
	return shared.DocumentRoot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CreatedBy:         m.CreatedBy,
		UpdatedBy:         m.UpdatedBy,
		Lifecycle: shared.Lifecycle{
			State:     m.LifecycleState,
			RemovedAt: m.RemovedAt,
			RemovedBy: m.RemovedBy,
		},
	}
}

// All returns every model managed by AutoMigrate
func All() []any {
	return []any{
		&SupplierModel{},
		&CategoryModel{},
		&MaterialModel{},
		&QuotationModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&GoodsReceiptModel{},
		&GoodsReceiptItemModel{},
		&WorkflowModel{},
		&DocumentSequenceModel{},
		&OutboxEntryModel{},
	}
}
