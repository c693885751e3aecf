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

type itemKey struct {
	groupID    types.GroupID
	itemNumber int
}

type itemRepository struct {
	mu    sync.RWMutex
	items map[itemKey]*model.Item
}

func newItemRepository() *itemRepository {
	return &itemRepository{
		items: make(map[itemKey]*model.Item),
	}
}

func copyItem(i *model.Item) *model.Item {
	copied := *i
	return &copied
}

func sortItems(items []*model.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].GroupID != items[j].GroupID {
			return items[i].GroupID < items[j].GroupID
		}
		return items[i].ItemNumber < items[j].ItemNumber
	})
}

func (r *itemRepository) Put(ctx context.Context, item *model.Item) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyItem(item)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.items[itemKey{groupID: stored.GroupID, itemNumber: stored.ItemNumber}] = stored
	return copyItem(stored), nil
}

func (r *itemRepository) Get(ctx context.Context, groupID types.GroupID, itemNumber int) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[itemKey{groupID: groupID, itemNumber: itemNumber}]
	if !exists {
		return nil, goerr.Wrap(model.ErrItemNotFound, "item not found",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	return copyItem(item), nil
}

func (r *itemRepository) List(ctx context.Context) ([]*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, copyItem(item))
	}
	sortItems(items)
	return items, nil
}

func (r *itemRepository) ListByGroup(ctx context.Context, groupID types.GroupID) ([]*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.Item, 0)
	for key, item := range r.items {
		if key.groupID == groupID {
			items = append(items, copyItem(item))
		}
	}
	sortItems(items)
	return items, nil
}

func (r *itemRepository) UpdateStatus(ctx context.Context, groupID types.GroupID, itemNumber int, status types.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[itemKey{groupID: groupID, itemNumber: itemNumber}]
	if !exists {
		return goerr.Wrap(model.ErrItemNotFound, "item not found",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	item.Status = status
	item.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, groupID types.GroupID, itemNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := itemKey{groupID: groupID, itemNumber: itemNumber}
	if _, exists := r.items[key]; !exists {
		return goerr.Wrap(model.ErrItemNotFound, "item not found",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	delete(r.items, key)
	return nil
}
