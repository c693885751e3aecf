package types

import "fmt"

// TargetType represents how a signature target participates in the
// document workflow: approvals form an ordered chain, signatures are
// unordered and may complete concurrently.
type TargetType string

const (
	TargetTypeApproval  TargetType = "approval"
	TargetTypeSignature TargetType = "signature"
)

// IsValid checks if the target type is valid
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeApproval, TargetTypeSignature:
		return true
	default:
		return false
	}
}

// String returns the string representation of the target type
func (t TargetType) String() string {
	return string(t)
}

// ParseTargetType parses a string into a TargetType
func ParseTargetType(s string) (TargetType, error) {
	tt := TargetType(s)
	if !tt.IsValid() {
		return "", fmt.Errorf("invalid target type: %s", s)
	}
	return tt, nil
}

// TargetStatus represents the completion state of a signature target
type TargetStatus string

const (
	TargetStatusIncomplete TargetStatus = "incomplete"
	TargetStatusCompleted  TargetStatus = "completed"
)

// IsValid checks if the target status is valid
func (s TargetStatus) IsValid() bool {
	switch s {
	case TargetStatusIncomplete, TargetStatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as TargetStatusIncomplete.
func (s TargetStatus) Normalize() TargetStatus {
	if s == "" {
		return TargetStatusIncomplete
	}
	return s
}

// String returns the string representation of the target status
func (s TargetStatus) String() string {
	return string(s)
}
