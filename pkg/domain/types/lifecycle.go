package types

import "fmt"

// Lifecycle represents the lifecycle state of a document
type Lifecycle string

const (
	LifecycleDraft      Lifecycle = "draft"
	LifecycleInProgress Lifecycle = "in_progress"
	LifecycleCompleted  Lifecycle = "completed"
)

// AllLifecycles returns all valid lifecycle states
func AllLifecycles() []Lifecycle {
	return []Lifecycle{
		LifecycleDraft,
		LifecycleInProgress,
		LifecycleCompleted,
	}
}

// IsValid checks if the lifecycle state is valid
func (l Lifecycle) IsValid() bool {
	switch l {
	case LifecycleDraft,
		LifecycleInProgress,
		LifecycleCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the lifecycle, treating empty as LifecycleDraft.
func (l Lifecycle) Normalize() Lifecycle {
	if l == "" {
		return LifecycleDraft
	}
	return l
}

// String returns the string representation of the lifecycle state
func (l Lifecycle) String() string {
	return string(l)
}

// ParseLifecycle parses a string into a Lifecycle
func ParseLifecycle(s string) (Lifecycle, error) {
	lc := Lifecycle(s)
	if !lc.IsValid() {
		return "", fmt.Errorf("invalid lifecycle: %s", s)
	}
	return lc, nil
}
