package shared

import "time"

// LifecycleState tags a Lifecycle variant
type LifecycleState string

const (
	LifecycleActive  LifecycleState = "active"
	LifecycleRemoved LifecycleState = "removed"
)

// Lifecycle is the soft-delete state of a document: Active, or Removed{At, By}.
// Repositories hide Removed documents from every normal read.
type Lifecycle struct {
	State     LifecycleState `json:"state"`
	RemovedAt *time.Time     `json:"removed_at,omitempty"`
	RemovedBy string         `json:"removed_by,omitempty"`
}

// ActiveLifecycle returns the Active variant
func ActiveLifecycle() Lifecycle {
	return Lifecycle{State: LifecycleActive}
}

// RemovedLifecycle returns the Removed variant
func RemovedLifecycle(at time.Time, by string) Lifecycle {
	return Lifecycle{State: LifecycleRemoved, RemovedAt: &at, RemovedBy: by}
}

// IsRemoved returns true for the Removed variant
func (l Lifecycle) IsRemoved() bool {
	return l.State == LifecycleRemoved
}
