package types

import "fmt"

// ItemStatus represents the renewal urgency of a catalog item.
// It is always derived from the item's cycle and last written date;
// stored values are a cache, never ground truth.
type ItemStatus string

const (
	ItemStatusNormal      ItemStatus = "normal"
	ItemStatusAlways      ItemStatus = "always"
	ItemStatusApproaching ItemStatus = "approaching"
	ItemStatusOverdue     ItemStatus = "overdue"
)

// AllItemStatuses returns all valid item statuses
func AllItemStatuses() []ItemStatus {
	return []ItemStatus{
		ItemStatusNormal,
		ItemStatusAlways,
		ItemStatusApproaching,
		ItemStatusOverdue,
	}
}

// IsValid checks if the item status is valid
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusNormal,
		ItemStatusAlways,
		ItemStatusApproaching,
		ItemStatusOverdue:
		return true
	default:
		return false
	}
}

// String returns the string representation of the item status
func (s ItemStatus) String() string {
	return string(s)
}

// ParseItemStatus parses a string into an ItemStatus
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item status: %s", s)
	}
	return status, nil
}
