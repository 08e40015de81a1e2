package catalog

import (
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string     `json:"code" validate:"required,min=1,max=32,alphanum"`
	NameZH      string     `json:"name_zh" validate:"required_without=NameEN,max=100"`
	NameEN      string     `json:"name_en" validate:"required_without=NameZH,max=100"`
	Description string     `json:"description" validate:"max=500"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   int        `json:"sort_order" validate:"gte=0"`
}

// UpdateCategoryRequest represents a request to update a category's descriptive fields
type UpdateCategoryRequest struct {
	NameZH      string `json:"name_zh" validate:"required_without=NameEN,max=100"`
	NameEN      string `json:"name_en" validate:"required_without=NameZH,max=100"`
	Description string `json:"description" validate:"max=500"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

// MoveCategoryRequest moves a category under a new parent, or to the root when ParentID is nil
type MoveCategoryRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryNode is a category with its subcategories, used for tree responses
type CategoryNode struct {
	catalog.CategoryView
	Children []CategoryNode `json:"children"`
}

// CreateMaterialRequest represents a request to create a material
type CreateMaterialRequest struct {
	NameZH         string            `json:"name_zh" validate:"required_without=NameEN,max=200"`
	NameEN         string            `json:"name_en" validate:"required_without=NameZH,max=200"`
	Description    string            `json:"description" validate:"max=2000"`
	Type           string            `json:"type" validate:"required,oneof=raw_material component semi_finished consumable packaging service"`
	CategoryID     *uuid.UUID        `json:"category_id"`
	BaseUOM        string            `json:"base_uom" validate:"required,max=20"`
	Specifications map[string]string `json:"specifications" validate:"max=50"`
	StandardCost   decimal.Decimal   `json:"standard_cost" validate:"gte=0"`
	Currency       string            `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
}

// UpdateMaterialRequest represents a request to update a material's master data
type UpdateMaterialRequest struct {
	NameZH         string            `json:"name_zh" validate:"required_without=NameEN,max=200"`
	NameEN         string            `json:"name_en" validate:"required_without=NameZH,max=200"`
	Description    string            `json:"description" validate:"max=2000"`
	Type           string            `json:"type" validate:"required,oneof=raw_material component semi_finished consumable packaging service"`
	CategoryID     *uuid.UUID        `json:"category_id"`
	Specifications map[string]string `json:"specifications" validate:"max=50"`
	StandardCost   decimal.Decimal   `json:"standard_cost" validate:"gte=0"`
	Currency       string            `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
}

// AlternativeUOMRequest registers an alternative unit of measure
type AlternativeUOMRequest struct {
	UOM              string          `json:"uom" validate:"required,max=20"`
	ConversionFactor decimal.Decimal `json:"conversion_factor" validate:"gt=0"`
}

// PreferredSupplierRequest links a supplier to a material
type PreferredSupplierRequest struct {
	SupplierID       uuid.UUID       `json:"supplier_id" validate:"required"`
	IsPrimary        bool            `json:"is_primary"`
	LeadTimeDays     int             `json:"lead_time_days" validate:"gte=0,lte=365"`
	MinOrderQuantity decimal.Decimal `json:"min_order_quantity" validate:"gte=0"`
	LastPrice        decimal.Decimal `json:"last_price" validate:"gte=0"`
	Currency         string          `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
}

// StockRequest reserves or releases a quantity in base units
type StockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// MaterialListFilter represents filter options for the material list
type MaterialListFilter struct {
	Search     string     `json:"search"`
	Status     string     `json:"status" validate:"omitempty,oneof=draft active obsolete discontinued"`
	Type       string     `json:"type" validate:"omitempty,oneof=raw_material component semi_finished consumable packaging service"`
	CategoryID *uuid.UUID `json:"category_id"`
	Page       int        `json:"page" validate:"gte=0"`
	PageSize   int        `json:"page_size" validate:"gte=0,lte=100"`
	OrderBy    string     `json:"order_by" validate:"omitempty,oneof=material_number created_at updated_at status"`
	OrderDir   string     `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}
