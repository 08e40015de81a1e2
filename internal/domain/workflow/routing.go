package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConditionType selects which document fact a rule inspects
type ConditionType string

const (
	ConditionAmount           ConditionType = "amount"
	ConditionSupplierLevel    ConditionType = "supplier_level"
	ConditionMaterialCategory ConditionType = "material_category"
	ConditionCustom           ConditionType = "custom"
)

// IsValid checks if the condition type is known
func (c ConditionType) IsValid() bool {
	switch c {
	case ConditionAmount, ConditionSupplierLevel, ConditionMaterialCategory, ConditionCustom:
		return true
	}
	return false
}

// Operator compares a fact against a rule value
type Operator string

const (
	OpGT    Operator = "gt"
	OpGTE   Operator = "gte"
	OpLT    Operator = "lt"
	OpLTE   Operator = "lte"
	OpEQ    Operator = "eq"
	OpNE    Operator = "ne"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// IsValid checks if the operator is known
func (o Operator) IsValid() bool {
	switch o {
	case OpGT, OpGTE, OpLT, OpLTE, OpEQ, OpNE, OpIn, OpNotIn:
		return true
	}
	return false
}

// RoutingRule maps a condition to the approval levels it requires.
// Value is used by scalar operators, Values by in/not_in.
type RoutingRule struct {
	ConditionType ConditionType `json:"condition_type"`
	Operator      Operator      `json:"operator"`
	Value         string        `json:"value,omitempty"`
	Values        []string      `json:"values,omitempty"`
	// Field names the custom attribute inspected by ConditionCustom rules
	Field        string `json:"field,omitempty"`
	TargetLevels []int  `json:"target_levels"`
}

// Validate checks the rule is well formed
func (r RoutingRule) Validate() error {
	if !r.ConditionType.IsValid() {
		return shared.NewValidationError("INVALID_CONDITION_TYPE", fmt.Sprintf("Invalid condition type: %s", r.ConditionType))
	}
	if !r.Operator.IsValid() {
		return shared.NewValidationError("INVALID_OPERATOR", fmt.Sprintf("Invalid operator: %s", r.Operator))
	}
	if len(r.TargetLevels) == 0 {
		return shared.NewValidationError("NO_TARGET_LEVELS", "Routing rule must target at least one level")
	}
	if r.ConditionType == ConditionCustom && r.Field == "" {
		return shared.NewValidationError("NO_FIELD", "Custom routing rule must name a field")
	}
	switch r.Operator {
	case OpIn, OpNotIn:
		if len(r.Values) == 0 {
			return shared.NewValidationError("NO_VALUES", "in/not_in routing rule requires values")
		}
	case OpGT, OpGTE, OpLT, OpLTE:
		if _, err := decimal.NewFromString(r.Value); err != nil {
			return shared.NewValidationError("INVALID_VALUE", fmt.Sprintf("Routing rule value %q is not numeric", r.Value))
		}
	}
	return nil
}

// Facts are the document values routing rules are evaluated against
type Facts struct {
	Amount           decimal.Decimal
	SupplierLevel    string
	MaterialCategory string
	Custom           map[string]string
}

func (f Facts) lookup(r RoutingRule) (string, bool) {
	switch r.ConditionType {
	case ConditionAmount:
		return f.Amount.String(), true
	case ConditionSupplierLevel:
		return f.SupplierLevel, f.SupplierLevel != ""
	case ConditionMaterialCategory:
		return f.MaterialCategory, f.MaterialCategory != ""
	case ConditionCustom:
		v, ok := f.Custom[r.Field]
		return v, ok
	}
	return "", false
}

// Matches reports whether the rule's predicate holds for the facts.
// A fact the document does not carry never matches.
func (r RoutingRule) Matches(f Facts) bool {
	actual, ok := f.lookup(r)
	if !ok {
		return false
	}
	switch r.Operator {
	case OpIn:
		return containsFold(r.Values, actual)
	case OpNotIn:
		return !containsFold(r.Values, actual)
	case OpEQ:
		if c, ok := compareNumeric(actual, r.Value); ok {
			return c == 0
		}
		return strings.EqualFold(actual, r.Value)
	case OpNE:
		if c, ok := compareNumeric(actual, r.Value); ok {
			return c != 0
		}
		return !strings.EqualFold(actual, r.Value)
	}

	c, ok := compareNumeric(actual, r.Value)
	if !ok {
		return false
	}
	switch r.Operator {
	case OpGT:
		return c > 0
	case OpGTE:
		return c >= 0
	case OpLT:
		return c < 0
	case OpLTE:
		return c <= 0
	}
	return false
}

// Evaluate applies every rule and returns the sorted union of matched target levels.
// The same (facts, rules) pair always yields the same result.
func Evaluate(rules []RoutingRule, f Facts) []int {
	set := make(map[int]struct{})
	for _, r := range rules {
		if !r.Matches(f) {
			continue
		}
		for _, lvl := range r.TargetLevels {
			set[lvl] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	levels := make([]int, 0, len(set))
	for lvl := range set {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	return levels
}

func compareNumeric(a, b string) (int, bool) {
	x, err := decimal.NewFromString(strings.TrimSpace(a))
	if err != nil {
		return 0, false
	}
	y, err := decimal.NewFromString(strings.TrimSpace(b))
	if err != nil {
		return 0, false
	}
	return x.Cmp(y), true
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(strings.TrimSpace(candidate), v) {
			return true
		}
	}
	return false
}
