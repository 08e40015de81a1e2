package models

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/sourcing"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuotationModel is the persistence model for the MaterialQuotation aggregate.
// Items carry their quotes inside the same JSON column.
type QuotationModel struct {
	DocumentModel
	QuotationNumber string                    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Title           string                    `gorm:"type:varchar(200)"`
	Currency        valueobject.Currency      `gorm:"type:varchar(3)"`
	Status          sourcing.QuotationStatus  `gorm:"type:varchar(20);not null;index"`
	Items           datatypes.JSONSlice[sourcing.QuotationItem]
	TargetSuppliers datatypes.JSONSlice[uuid.UUID]
	ValidUntil      *time.Time
	Notes           string `gorm:"type:text"`
	SentBy          string `gorm:"type:varchar(100)"`
	SentAt          *time.Time
	CompletedBy     string `gorm:"type:varchar(100)"`
	CompletedAt     *time.Time
	Route           datatypes.JSONType[workflow.Route]
	SelectedTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Selected        datatypes.JSONType[sourcing.SelectedQuotesSummary]
	PurchaseOrders  datatypes.JSONSlice[sourcing.PurchaseOrderLink]
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "material_quotations"
}

// ToDomain converts the persistence model to a domain MaterialQuotation
func (m *QuotationModel) ToDomain() *sourcing.MaterialQuotation {
	return &sourcing.MaterialQuotation{
		DocumentRoot:    m.ToDomainDocumentRoot(),
		QuotationNumber: m.QuotationNumber,
		Title:           m.Title,
		Currency:        m.Currency,
		Items:           m.Items,
		TargetSuppliers: m.TargetSuppliers,
		ValidUntil:      m.ValidUntil,
		Notes:           m.Notes,
		Status:          m.Status,
		SentBy:          m.SentBy,
		SentAt:          m.SentAt,
		CompletedBy:     m.CompletedBy,
		CompletedAt:     m.CompletedAt,
		Route:           m.Route.Data(),
		Selected:        m.Selected.Data(),
		PurchaseOrders:  m.PurchaseOrders,
	}
}

// QuotationModelFromDomain creates a persistence model from a domain MaterialQuotation
func QuotationModelFromDomain(q *sourcing.MaterialQuotation) *QuotationModel {
	m := &QuotationModel{
		QuotationNumber: q.QuotationNumber,
		Title:           q.Title,
		Currency:        q.Currency,
		Status:          q.Status,
		Items:           datatypes.NewJSONSlice(q.Items),
		TargetSuppliers: datatypes.NewJSONSlice(q.TargetSuppliers),
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		SentBy:          q.SentBy,
		SentAt:          q.SentAt,
		CompletedBy:     q.CompletedBy,
		CompletedAt:     q.CompletedAt,
		Route:           datatypes.NewJSONType(q.Route),
		SelectedTotal:   q.Selected.TotalValue,
		Selected:        datatypes.NewJSONType(q.Selected),
		PurchaseOrders:  datatypes.NewJSONSlice(q.PurchaseOrders),
	}
	m.FromDomainDocumentRoot(&q.DocumentRoot)
	return m
}
