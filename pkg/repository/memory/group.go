package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
)

type groupRepository struct {
	mu     sync.RWMutex
	groups map[types.GroupID]*model.Group
}

func newGroupRepository() *groupRepository {
	return &groupRepository{
		groups: make(map[types.GroupID]*model.Group),
	}
}

func copyGroup(g *model.Group) *model.Group {
	copied := *g
	return &copied
}

func (r *groupRepository) Put(ctx context.Context, group *model.Group) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyGroup(group)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.groups[stored.ID] = stored
	return copyGroup(stored), nil
}

func (r *groupRepository) Get(ctx context.Context, id types.GroupID) (*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, exists := r.groups[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrUnknownGroup, "group not found", goerr.V(model.GroupIDKey, id))
	}
	return copyGroup(g), nil
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]*model.Group, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, copyGroup(g))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}
