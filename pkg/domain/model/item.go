package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// Item is a single periodic obligation inside a group.
// (GroupID, ItemNumber) is a unique composite key.
type Item struct {
	GroupID       types.GroupID
	ItemNumber    int
	DocumentName  string
	DocumentCount int
	Cycle         uint
	CycleUnit     types.CycleUnit
	LastWrittenAt time.Time

	// Status is derived from the cycle and LastWrittenAt. Stored
	// values are a cache; readers recompute via ClassifyStatus.
	Status types.ItemStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Item is valid
func (i *Item) Validate() error {
	if err := i.GroupID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid group ID")
	}
	if i.ItemNumber < 1 {
		return goerr.New("item number must be positive", goerr.V(ItemNumberKey, i.ItemNumber))
	}
	if i.DocumentName == "" {
		return goerr.New("document name is required",
			goerr.V(GroupIDKey, i.GroupID), goerr.V(ItemNumberKey, i.ItemNumber))
	}
	if i.DocumentCount < 1 {
		return goerr.New("document count must be at least 1",
			goerr.V(GroupIDKey, i.GroupID), goerr.V(ItemNumberKey, i.ItemNumber))
	}
	if !i.CycleUnit.IsValid() {
		return goerr.New("invalid cycle unit", goerr.V("cycle_unit", i.CycleUnit))
	}
	if i.CycleUnit != types.CycleUnitImmediate && i.Cycle == 0 {
		return goerr.New("cycle must be positive for periodic obligations",
			goerr.V(GroupIDKey, i.GroupID), goerr.V(ItemNumberKey, i.ItemNumber))
	}
	return nil
}
