package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/repository/firestore"
	"github.com/safework-lab/talos/pkg/repository/memory"
)

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func runGroupRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Group().Put(ctx, &model.Group{
			ID:   "safety-management",
			Name: "Safety management",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Group().Get(ctx, "safety-management")
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Name).Equal("Safety management")
	})

	t.Run("Put is an upsert", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Group().Put(ctx, &model.Group{ID: "hygiene", Name: "Hygiene"})
		gt.NoError(t, err).Required()

		_, err = repo.Group().Put(ctx, &model.Group{ID: "hygiene", Name: "Industrial hygiene"})
		gt.NoError(t, err).Required()

		retrieved, err := repo.Group().Get(ctx, "hygiene")
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Name).Equal("Industrial hygiene")

		groups, err := repo.Group().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, groups).Length(1)
	})

	t.Run("Get returns ErrUnknownGroup for missing group", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Group().Get(ctx, "nonexistent")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrUnknownGroup)).True()
	})

	t.Run("List returns all groups", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{"alpha", "beta", "gamma"} {
			_, err := repo.Group().Put(ctx, &model.Group{ID: types.GroupID(id), Name: id})
			gt.NoError(t, err).Required()
		}

		groups, err := repo.Group().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, groups).Length(3)
	})
}

func TestMemoryGroupRepository(t *testing.T) {
	runGroupRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreGroupRepository(t *testing.T) {
	runGroupRepositoryTest(t, newFirestoreRepository)
}
