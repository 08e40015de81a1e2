package catalog

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCategory = "Category"
	AggregateTypeMaterial = "Material"
)

// Event type constants for Category
const (
	EventTypeCategoryCreated     = "CategoryCreated"
	EventTypeCategoryUpdated     = "CategoryUpdated"
	EventTypeCategoryMoved       = "CategoryMoved"
	EventTypeCategoryActivated   = "CategoryActivated"
	EventTypeCategoryDeactivated = "CategoryDeactivated"
	EventTypeCategoryRemoved     = "CategoryRemoved"
)

// Event type constants for Material
const (
	EventTypeMaterialCreated       = "MaterialCreated"
	EventTypeMaterialUpdated       = "MaterialUpdated"
	EventTypeMaterialStatusChanged = "MaterialStatusChanged"
	EventTypeMaterialRemoved       = "MaterialRemoved"
)

// CategoryEvent is raised on category lifecycle changes
type CategoryEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Code       string     `json:"code"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Level      int        `json:"level"`
	Path       string     `json:"path"`
}

// NewCategoryEvent creates a category event of the given type
func NewCategoryEvent(eventType string, c *Category, actorID string) *CategoryEvent {
	return &CategoryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID, actorID),
		CategoryID:      c.ID,
		Code:            c.Code,
		ParentID:        c.ParentID,
		Level:           c.Level,
		Path:            c.Path,
	}
}

// MaterialEvent is raised on material master-data and status changes.
// Inventory postings do not raise events; they are themselves driven by events.
type MaterialEvent struct {
	shared.BaseDomainEvent
	MaterialID     uuid.UUID      `json:"material_id"`
	MaterialNumber string         `json:"material_number"`
	FromStatus     MaterialStatus `json:"from_status,omitempty"`
	ToStatus       MaterialStatus `json:"to_status"`
	IsActive       bool           `json:"is_active"`
}

// NewMaterialEvent creates a material event of the given type
func NewMaterialEvent(eventType string, m *Material, from MaterialStatus, actorID string) *MaterialEvent {
	return &MaterialEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMaterial, m.ID, actorID),
		MaterialID:      m.ID,
		MaterialNumber:  m.MaterialNumber,
		FromStatus:      from,
		ToStatus:        m.Status,
		IsActive:        m.IsActive,
	}
}
