package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// Group is a top-level classification of a safety-management
// obligation category. Immutable once referenced by items.
type Group struct {
	ID        types.GroupID
	Name      string
	CreatedAt time.Time
}

// Validate checks if the Group is valid
func (g *Group) Validate() error {
	if err := g.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid group ID")
	}
	if g.Name == "" {
		return goerr.New("group name is required", goerr.V(GroupIDKey, g.ID))
	}
	return nil
}
