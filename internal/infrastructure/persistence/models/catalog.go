package models

import (
	"time"

	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CategoryModel is the persistence model for MaterialCategory
type CategoryModel struct {
	DocumentModel
	Code        string                                      `gorm:"type:varchar(50);not null;index"`
	Name        datatypes.JSONType[valueobject.BilingualText] `gorm:"not null"`
	Description string                                      `gorm:"type:text"`
	ParentID    *uuid.UUID                                  `gorm:"type:uuid;index"`
	Level       int                                         `gorm:"not null;default:0"`
	Path        string                                      `gorm:"type:varchar(500);index"`
	SortOrder   int                                         `gorm:"not null;default:0"`
	IsActive    bool                                        `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "material_categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		DocumentRoot: m.ToDomainDocumentRoot(),
		Code:         m.Code,
		Name:         m.Name.Data(),
		Description:  m.Description,
		ParentID:     m.ParentID,
		Level:        m.Level,
		Path:         m.Path,
		SortOrder:    m.SortOrder,
		IsActive:     m.IsActive,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Code:        c.Code,
		Name:        datatypes.NewJSONType(c.Name),
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
	m.FromDomainDocumentRoot(&c.DocumentRoot)
	return m
}

// MaterialModel is the persistence model for the Material aggregate.
// Inventory counters are columns so they can be inspected without decoding JSON.
type MaterialModel struct {
	DocumentModel
	MaterialNumber     string                                      `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name               datatypes.JSONType[valueobject.BilingualText] `gorm:"not null"`
	Description        string                                      `gorm:"type:text"`
	Type               catalog.MaterialType                        `gorm:"type:varchar(30);not null;index"`
	CategoryID         *uuid.UUID                                  `gorm:"type:uuid;index"`
	Status             catalog.MaterialStatus                      `gorm:"type:varchar(20);not null;index"`
	IsActive           bool                                        `gorm:"not null;default:false"`
	BaseUOM            string                                      `gorm:"type:varchar(20);not null"`
	AlternativeUOMs    datatypes.JSONSlice[valueobject.UOM]
	PreferredSuppliers datatypes.JSONSlice[catalog.PreferredSupplier]
	Specifications     datatypes.JSONType[map[string]string]
	StandardCost       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Currency           valueobject.Currency `gorm:"type:varchar(3)"`
	OnHand             decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	OnOrder            decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Available          decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved           decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	LastReceiptDate    *datatypes.Date
}

// TableName returns the table name for GORM
func (MaterialModel) TableName() string {
	return "materials"
}

// ToDomain converts the persistence model to a domain Material
func (m *MaterialModel) ToDomain() *catalog.Material {
	material := &catalog.Material{
		DocumentRoot:       m.ToDomainDocumentRoot(),
		MaterialNumber:     m.MaterialNumber,
		Name:               m.Name.Data(),
		Description:        m.Description,
		Type:               m.Type,
		CategoryID:         m.CategoryID,
		Status:             m.Status,
		IsActive:           m.IsActive,
		BaseUOM:            m.BaseUOM,
		AlternativeUOMs:    m.AlternativeUOMs,
		PreferredSuppliers: m.PreferredSuppliers,
		Specifications:     m.Specifications.Data(),
		StandardCost:       m.StandardCost,
		Currency:           m.Currency,
		Inventory: catalog.Inventory{
			OnHand:    m.OnHand,
			OnOrder:   m.OnOrder,
			Available: m.Available,
			Reserved:  m.Reserved,
		},
	}
	if m.LastReceiptDate != nil {
		t := time.Time(*m.LastReceiptDate)
		material.Inventory.LastReceiptDate = &t
	}
	return material
}

// MaterialModelFromDomain creates a persistence model from a domain Material
func MaterialModelFromDomain(mat *catalog.Material) *MaterialModel {
	m := &MaterialModel{
		MaterialNumber:     mat.MaterialNumber,
		Name:               datatypes.NewJSONType(mat.Name),
		Description:        mat.Description,
		Type:               mat.Type,
		CategoryID:         mat.CategoryID,
		Status:             mat.Status,
		IsActive:           mat.IsActive,
		BaseUOM:            mat.BaseUOM,
		AlternativeUOMs:    datatypes.NewJSONSlice(mat.AlternativeUOMs),
		PreferredSuppliers: datatypes.NewJSONSlice(mat.PreferredSuppliers),
		Specifications:     datatypes.NewJSONType(mat.Specifications),
		StandardCost:       mat.StandardCost,
		Currency:           mat.Currency,
		OnHand:             mat.Inventory.OnHand,
		OnOrder:            mat.Inventory.OnOrder,
		Available:          mat.Inventory.Available,
		Reserved:           mat.Inventory.Reserved,
	}
	if mat.Inventory.LastReceiptDate != nil {
		d := datatypes.Date(*mat.Inventory.LastReceiptDate)
		m.LastReceiptDate = &d
	}
	m.FromDomainDocumentRoot(&mat.DocumentRoot)
	return m
}
