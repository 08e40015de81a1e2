package catalog

import (
	"fmt"
	"strings"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// RootPath is the materialized path of every root category
const RootPath = "/"

var upper = cases.Upper(language.Und)

// Category is a node in the material category hierarchy.
// Path lists the codes of all ancestors, e.g. "/RAW/METAL/" for a child of METAL.
type Category struct {
	shared.DocumentRoot
	Code        string
	Name        valueobject.BilingualText
	Description string
	ParentID    *uuid.UUID
	Level       int
	Path        string
	SortOrder   int
	IsActive    bool
}

// NewCategory creates a category under parent, or a root category when parent is nil
func NewCategory(code string, name valueobject.BilingualText, parent *Category, createdBy string) (*Category, error) {
	code = NormalizeCode(code)
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}
	if name.IsEmpty() {
		return nil, shared.NewValidationError("INVALID_NAME", "Category name is required in at least one language")
	}

	c := &Category{
		DocumentRoot: shared.NewDocumentRoot(createdBy),
		Code:         code,
		Name:         name,
		IsActive:     true,
	}
	if err := c.placeUnder(parent); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryCreated, c, createdBy))
	return c, nil
}

// NormalizeCode trims and upper-cases a category code
func NormalizeCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}

// Update changes the descriptive fields of the category
func (c *Category) Update(name valueobject.BilingualText, description string, sortOrder int, userID string) error {
	if name.IsEmpty() {
		return shared.NewValidationError("INVALID_NAME", "Category name is required in at least one language")
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.SortOrder = sortOrder
	c.Touch(userID)
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryUpdated, c, userID))
	return nil
}

// ChildPath is the path every direct child of c carries
func (c *Category) ChildPath() string {
	return c.Path + c.Code + "/"
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsAncestorOf returns true if this category is an ancestor of other
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.ID == c.ID {
		return false
	}
	return strings.HasPrefix(other.Path, c.ChildPath())
}

// CanBeParentOf reports whether c may become the parent of child without creating a cycle
func (c *Category) CanBeParentOf(child *Category) bool {
	return c.ID != child.ID && !child.IsAncestorOf(c)
}

// SetParent moves the category under parent (nil makes it a root).
// Only the category itself is recomputed; CategoryTree.Reparent carries the subtree along.
func (c *Category) SetParent(parent *Category, userID string) error {
	if parent != nil && !parent.CanBeParentOf(c) {
		return shared.NewConsistencyError("CIRCULAR_REFERENCE", "Cannot set parent: would create circular reference")
	}
	if err := c.placeUnder(parent); err != nil {
		return err
	}
	c.Touch(userID)
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryMoved, c, userID))
	return nil
}

func (c *Category) placeUnder(parent *Category) error {
	if parent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = RootPath
		return nil
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return shared.NewValidationError("MAX_DEPTH_EXCEEDED", fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}
	id := parent.ID
	c.ParentID = &id
	c.Level = parent.Level + 1
	c.Path = parent.ChildPath()
	return nil
}

// Activate marks the category active. Activating an active category is a no-op.
func (c *Category) Activate(userID string) {
	if c.IsActive {
		return
	}
	c.IsActive = true
	c.Touch(userID)
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryActivated, c, userID))
}

// Deactivate marks the category inactive. Deactivating an inactive category is a no-op.
func (c *Category) Deactivate(userID string) {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.Touch(userID)
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryDeactivated, c, userID))
}

// SoftDelete removes the category. It must have no subcategories and no assigned materials.
func (c *Category) SoftDelete(userID string, childCount, materialCount int64) error {
	if childCount > 0 {
		return shared.NewConsistencyError("HAS_CHILDREN", "Cannot delete category with subcategories")
	}
	if materialCount > 0 {
		return shared.NewConsistencyError("HAS_MATERIALS", "Cannot delete category with assigned materials")
	}
	if err := c.MarkRemoved(userID); err != nil {
		return err
	}
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryRemoved, c, userID))
	return nil
}

// CategoryView is the client-facing projection of a Category
type CategoryView struct {
	ID          uuid.UUID                 `json:"id"`
	Code        string                    `json:"code"`
	Name        valueobject.BilingualText `json:"name"`
	DisplayName string                    `json:"display_name"`
	Description string                    `json:"description,omitempty"`
	ParentID    *uuid.UUID                `json:"parent_id,omitempty"`
	Level       int                       `json:"level"`
	Path        string                    `json:"path"`
	SortOrder   int                       `json:"sort_order"`
	IsActive    bool                      `json:"is_active"`
	shared.AuditStamps
}

// Format projects the category into its client-facing view
func (c *Category) Format() CategoryView {
	return CategoryView{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		DisplayName: c.Name.Display(),
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       c.Level,
		Path:        c.Path,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		AuditStamps: c.AuditStamps(),
	}
}

// validateCategoryCode validates an already normalised category code
func validateCategoryCode(code string) error {
	if code == "" {
		return shared.NewValidationError("INVALID_CODE", "Category code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewValidationError("INVALID_CODE", "Category code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewValidationError("INVALID_CODE", "Category code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
