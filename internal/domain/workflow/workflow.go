package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType is the kind of document a workflow routes
type DocumentType string

const (
	DocumentTypePurchaseOrder     DocumentType = "purchase_order"
	DocumentTypeMaterialQuotation DocumentType = "material_quotation"
	DocumentTypeSupplier          DocumentType = "supplier"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePurchaseOrder, DocumentTypeMaterialQuotation, DocumentTypeSupplier:
		return true
	}
	return false
}

// ApprovalMode decides how many approvers a level needs
type ApprovalMode string

const (
	// ApprovalModeAny needs one approval from a holder of any listed role
	ApprovalModeAny ApprovalMode = "any"
	// ApprovalModeAll needs one approval per distinct listed role
	ApprovalModeAll ApprovalMode = "all"
)

// IsValid checks if the approval mode is known
func (m ApprovalMode) IsValid() bool {
	return m == ApprovalModeAny || m == ApprovalModeAll
}

// Level is one approval stage
type Level struct {
	LevelNumber   int          `json:"level_number"`
	Name          string       `json:"name,omitempty"`
	ApproverRoles []string     `json:"approver_roles"`
	ApprovalMode  ApprovalMode `json:"approval_mode"`
	IsMandatory   bool         `json:"is_mandatory"`
}

// Workflow is a routing definition scoped to one document type
type Workflow struct {
	shared.BaseAggregateRoot
	Name         string
	DocumentType DocumentType
	Levels       []Level
	RoutingRules []RoutingRule
	IsActive     bool
}

// NewWorkflow creates a validated, active workflow
func NewWorkflow(name string, docType DocumentType, levels []Level, rules []RoutingRule) (*Workflow, error) {
	w := &Workflow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		DocumentType:      docType,
		Levels:            levels,
		RoutingRules:      rules,
		IsActive:          true,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(w.Levels, func(i, j int) bool { return w.Levels[i].LevelNumber < w.Levels[j].LevelNumber })
	return w, nil
}

// Validate checks levels and rules reference each other consistently
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return shared.NewValidationError("INVALID_NAME", "Workflow name cannot be empty")
	}
	if !w.DocumentType.IsValid() {
		return shared.NewValidationError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Invalid workflow document type: %s", w.DocumentType))
	}
	if len(w.Levels) == 0 {
		return shared.NewValidationError("NO_LEVELS", "Workflow must define at least one level")
	}
	seen := make(map[int]bool, len(w.Levels))
	for _, l := range w.Levels {
		if l.LevelNumber < 1 {
			return shared.NewValidationError("INVALID_LEVEL", "Level number must be positive")
		}
		if seen[l.LevelNumber] {
			return shared.NewConsistencyError("DUPLICATE_LEVEL", fmt.Sprintf("Level %d is defined twice", l.LevelNumber))
		}
		seen[l.LevelNumber] = true
		if len(l.ApproverRoles) == 0 {
			return shared.NewValidationError("NO_APPROVER_ROLES", fmt.Sprintf("Level %d has no approver roles", l.LevelNumber))
		}
		if !l.ApprovalMode.IsValid() {
			return shared.NewValidationError("INVALID_APPROVAL_MODE", fmt.Sprintf("Invalid approval mode: %s", l.ApprovalMode))
		}
	}
	for i, r := range w.RoutingRules {
		if err := r.Validate(); err != nil {
			return err
		}
		for _, target := range r.TargetLevels {
			if !seen[target] {
				return shared.NewConsistencyError("UNKNOWN_TARGET_LEVEL",
					fmt.Sprintf("Routing rule %d targets undefined level %d", i+1, target))
			}
		}
	}
	return nil
}

// Level returns the level with the given number
func (w *Workflow) Level(number int) (Level, bool) {
	for _, l := range w.Levels {
		if l.LevelNumber == number {
			return l, true
		}
	}
	return Level{}, false
}

// Deactivate retires the workflow
func (w *Workflow) Deactivate() {
	w.IsActive = false
	w.UpdatedAt = shared.Now()
}

// Route evaluates the routing rules against facts and returns the required levels
func (w *Workflow) Route(facts Facts) Route {
	return Route{
		WorkflowID:     w.ID,
		RequiredLevels: Evaluate(w.RoutingRules, facts),
	}
}

// Route is the routing outcome recorded on a submitted document
type Route struct {
	WorkflowID     uuid.UUID `json:"workflow_id"`
	RequiredLevels []int     `json:"required_levels"`
}

// IsEmpty reports whether no level was selected
func (r Route) IsEmpty() bool {
	return len(r.RequiredLevels) == 0
}
