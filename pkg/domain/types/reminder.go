package types

import "time"

// ReminderKind identifies one of the fixed approval-deadline reminders.
type ReminderKind string

const (
	Reminder15Days ReminderKind = "15d"
	Reminder7Days  ReminderKind = "7d"
	Reminder1Day   ReminderKind = "1d"
)

// AllReminderKinds returns all reminder kinds, farthest lead first
func AllReminderKinds() []ReminderKind {
	return []ReminderKind{
		Reminder15Days,
		Reminder7Days,
		Reminder1Day,
	}
}

// Lead returns how far ahead of the deadline this reminder fires
func (k ReminderKind) Lead() time.Duration {
	switch k {
	case Reminder15Days:
		return 15 * 24 * time.Hour
	case Reminder7Days:
		return 7 * 24 * time.Hour
	case Reminder1Day:
		return 24 * time.Hour
	default:
		return 0
	}
}

// IsValid checks if the reminder kind is valid
func (k ReminderKind) IsValid() bool {
	switch k {
	case Reminder15Days, Reminder7Days, Reminder1Day:
		return true
	default:
		return false
	}
}

// String returns the string representation of the reminder kind
func (k ReminderKind) String() string {
	return string(k)
}
