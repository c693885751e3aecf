package interfaces

import (
	"context"

	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// Repository provides access to all aggregate stores
type Repository interface {
	Group() GroupRepository
	Item() ItemRepository
	Document() DocumentRepository
	Close() error
}

// GroupRepository manages obligation groups
type GroupRepository interface {
	Put(ctx context.Context, group *model.Group) (*model.Group, error)
	Get(ctx context.Context, id types.GroupID) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}

// ItemRepository manages periodic obligation items
type ItemRepository interface {
	Put(ctx context.Context, item *model.Item) (*model.Item, error)
	Get(ctx context.Context, groupID types.GroupID, itemNumber int) (*model.Item, error)
	List(ctx context.Context) ([]*model.Item, error)
	ListByGroup(ctx context.Context, groupID types.GroupID) ([]*model.Item, error)
	// UpdateStatus rewrites the cached derived status only
	UpdateStatus(ctx context.Context, groupID types.GroupID, itemNumber int, status types.ItemStatus) error
	Delete(ctx context.Context, groupID types.GroupID, itemNumber int) error
}

// DocumentRepository manages document aggregates. Create assigns the
// per-item sequence number; sequences are never reused, even after
// deletion. Update enforces optimistic concurrency on Revision and
// fails with ErrConcurrentModification on conflict.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) (*model.Document, error)
	ListByItem(ctx context.Context, groupID types.GroupID, itemNumber int) ([]*model.Document, error)
	List(ctx context.Context) ([]*model.Document, error)
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)
	Delete(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) error
}
