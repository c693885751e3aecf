package model

import (
	"time"

	"github.com/safework-lab/talos/pkg/domain/model/config"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// RenewalDeadline returns when an obligation with the given cycle must
// next be written, based on its last written date. The second return
// value is false for immediate obligations, which have no deadline.
func RenewalDeadline(cycle uint, unit types.CycleUnit, lastWrittenAt time.Time) (time.Time, bool) {
	switch unit {
	case types.CycleUnitYear:
		return lastWrittenAt.AddDate(int(cycle), 0, 0), true
	case types.CycleUnitHalf:
		return lastWrittenAt.AddDate(0, int(cycle)*6, 0), true
	case types.CycleUnitDay:
		return lastWrittenAt.AddDate(0, 0, int(cycle)), true
	default:
		return time.Time{}, false
	}
}

// ClassifyStatus derives an item's renewal urgency at the given time.
// Immediate obligations are always "always": they must be satisfied
// continuously and can never be overdue. For periodic obligations the
// status moves only forward through normal, approaching, overdue as
// now increases.
func ClassifyStatus(cycle uint, unit types.CycleUnit, lastWrittenAt, now time.Time, policy *config.StatusPolicy) types.ItemStatus {
	if unit == types.CycleUnitImmediate {
		return types.ItemStatusAlways
	}
	if policy == nil {
		policy = config.DefaultStatusPolicy()
	}

	deadline, _ := RenewalDeadline(cycle, unit, lastWrittenAt)
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return types.ItemStatusOverdue
	}

	period := deadline.Sub(lastWrittenAt)
	if remaining <= policy.ApproachingWindow(period) {
		return types.ItemStatusApproaching
	}
	return types.ItemStatusNormal
}

// Classify derives the item's current status
func (i *Item) Classify(now time.Time, policy *config.StatusPolicy) types.ItemStatus {
	return ClassifyStatus(i.Cycle, i.CycleUnit, i.LastWrittenAt, now, policy)
}
