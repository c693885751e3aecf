package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type groupDoc struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *groupDoc) toModel() *model.Group {
	return &model.Group{
		ID:        types.GroupID(d.ID),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
}

type groupRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newGroupRepository(client *firestore.Client) *groupRepository {
	return &groupRepository{client: client}
}

func (r *groupRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_groups"
	}
	return "groups"
}

func (r *groupRepository) Put(ctx context.Context, group *model.Group) (*model.Group, error) {
	doc := &groupDoc{
		ID:        group.ID.String(),
		Name:      group.Name,
		CreatedAt: group.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.collection()).Doc(doc.ID)
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put group", goerr.V(model.GroupIDKey, group.ID))
	}
	return doc.toModel(), nil
}

func (r *groupRepository) Get(ctx context.Context, id types.GroupID) (*model.Group, error) {
	snap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrUnknownGroup, "group not found", goerr.V(model.GroupIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get group", goerr.V(model.GroupIDKey, id))
	}

	var doc groupDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode group", goerr.V(model.GroupIDKey, id))
	}
	return doc.toModel(), nil
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	iter := r.client.Collection(r.collection()).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var groups []*model.Group
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate groups")
		}

		var doc groupDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode group")
		}
		groups = append(groups, doc.toModel())
	}
	return groups, nil
}
