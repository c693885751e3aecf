package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type itemDoc struct {
	GroupID       string    `firestore:"group_id"`
	ItemNumber    int       `firestore:"item_number"`
	DocumentName  string    `firestore:"document_name"`
	DocumentCount int       `firestore:"document_count"`
	Cycle         int64     `firestore:"cycle"`
	CycleUnit     string    `firestore:"cycle_unit"`
	LastWrittenAt time.Time `firestore:"last_written_at"`
	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"created_at"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

func newItemDoc(item *model.Item) *itemDoc {
	return &itemDoc{
		GroupID:       item.GroupID.String(),
		ItemNumber:    item.ItemNumber,
		DocumentName:  item.DocumentName,
		DocumentCount: item.DocumentCount,
		Cycle:         int64(item.Cycle),
		CycleUnit:     item.CycleUnit.String(),
		LastWrittenAt: item.LastWrittenAt,
		Status:        item.Status.String(),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func (d *itemDoc) toModel() *model.Item {
	return &model.Item{
		GroupID:       types.GroupID(d.GroupID),
		ItemNumber:    d.ItemNumber,
		DocumentName:  d.DocumentName,
		DocumentCount: d.DocumentCount,
		Cycle:         uint(d.Cycle),
		CycleUnit:     types.CycleUnit(d.CycleUnit),
		LastWrittenAt: d.LastWrittenAt,
		Status:        types.ItemStatus(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type itemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newItemRepository(client *firestore.Client) *itemRepository {
	return &itemRepository{client: client}
}

func (r *itemRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_items"
	}
	return "items"
}

func itemDocID(groupID types.GroupID, itemNumber int) string {
	return fmt.Sprintf("%s:%d", groupID, itemNumber)
}

func (r *itemRepository) Put(ctx context.Context, item *model.Item) (*model.Item, error) {
	now := time.Now().UTC()
	doc := newItemDoc(item)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	docRef := r.client.Collection(r.collection()).Doc(itemDocID(item.GroupID, item.ItemNumber))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put item",
			goerr.V(model.GroupIDKey, item.GroupID), goerr.V(model.ItemNumberKey, item.ItemNumber))
	}
	return doc.toModel(), nil
}

func (r *itemRepository) Get(ctx context.Context, groupID types.GroupID, itemNumber int) (*model.Item, error) {
	snap, err := r.client.Collection(r.collection()).Doc(itemDocID(groupID, itemNumber)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrItemNotFound, "item not found",
				goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
		}
		return nil, goerr.Wrap(err, "failed to get item",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}

	var doc itemDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode item")
	}
	return doc.toModel(), nil
}

func (r *itemRepository) list(ctx context.Context, query firestore.Query) ([]*model.Item, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var items []*model.Item
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate items")
		}

		var doc itemDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode item")
		}
		items = append(items, doc.toModel())
	}
	return items, nil
}

func (r *itemRepository) List(ctx context.Context) ([]*model.Item, error) {
	query := r.client.Collection(r.collection()).
		OrderBy("group_id", firestore.Asc).
		OrderBy("item_number", firestore.Asc)
	return r.list(ctx, query)
}

func (r *itemRepository) ListByGroup(ctx context.Context, groupID types.GroupID) ([]*model.Item, error) {
	query := r.client.Collection(r.collection()).
		Where("group_id", "==", groupID.String()).
		OrderBy("item_number", firestore.Asc)
	return r.list(ctx, query)
}

func (r *itemRepository) UpdateStatus(ctx context.Context, groupID types.GroupID, itemNumber int, itemStatus types.ItemStatus) error {
	docRef := r.client.Collection(r.collection()).Doc(itemDocID(groupID, itemNumber))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: itemStatus.String()},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrItemNotFound, "item not found",
				goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
		}
		return goerr.Wrap(err, "failed to update item status",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, groupID types.GroupID, itemNumber int) error {
	docRef := r.client.Collection(r.collection()).Doc(itemDocID(groupID, itemNumber))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrItemNotFound, "item not found",
				goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
		}
		return goerr.Wrap(err, "failed to get item for delete")
	}
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete item",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	return nil
}
