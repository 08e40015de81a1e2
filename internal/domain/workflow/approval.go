package workflow

import (
	"context"
	"time"
)

// ActionType is what an approver did
type ActionType string

const (
	ActionApproved ActionType = "approved"
	ActionRejected ActionType = "rejected"
)

// Action is one recorded approver decision on a document
type Action struct {
	ApproverID string     `json:"approver_id"`
	Roles      []string   `json:"roles,omitempty"`
	Level      int        `json:"level,omitempty"`
	Action     ActionType `json:"action"`
	Comments   string     `json:"comments,omitempty"`
	ActedAt    time.Time  `json:"acted_at"`
}

// RoleResolver resolves a user's roles from the external permission store
type RoleResolver interface {
	RolesOf(ctx context.Context, userID string) ([]string, error)
}

// LevelSatisfied reports whether the approved actions recorded for a level meet
// its approval mode
func LevelSatisfied(level Level, actions []Action) bool {
	approvedRoles := make(map[string]bool)
	for _, a := range actions {
		if a.Action != ActionApproved || a.Level != level.LevelNumber {
			continue
		}
		for _, r := range a.Roles {
			approvedRoles[r] = true
		}
	}

	switch level.ApprovalMode {
	case ApprovalModeAll:
		for _, r := range level.ApproverRoles {
			if !approvedRoles[r] {
				return false
			}
		}
		return true
	default:
		for _, r := range level.ApproverRoles {
			if approvedRoles[r] {
				return true
			}
		}
		return false
	}
}

// RouteSatisfied reports whether every mandatory required level is satisfied.
// Optional levels never block.
func RouteSatisfied(w *Workflow, route Route, actions []Action) bool {
	for _, number := range route.RequiredLevels {
		level, ok := w.Level(number)
		if !ok || !level.IsMandatory {
			continue
		}
		if !LevelSatisfied(level, actions) {
			return false
		}
	}
	return true
}

// PendingLevelFor returns the lowest required, unsatisfied level the approver
// can act on with the given roles
func PendingLevelFor(w *Workflow, route Route, actions []Action, roles []string) (Level, bool) {
	for _, number := range route.RequiredLevels {
		level, ok := w.Level(number)
		if !ok || LevelSatisfied(level, actions) {
			continue
		}
		if intersects(level.ApproverRoles, roles) {
			return level, true
		}
	}
	return Level{}, false
}

// RolesForLevel keeps only the roles that count for the level
func RolesForLevel(level Level, roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if contains(level.ApproverRoles, r) {
			out = append(out, r)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
