package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/repository/memory"
)

func testItem(groupID types.GroupID, number int) *model.Item {
	return &model.Item{
		GroupID:       groupID,
		ItemNumber:    number,
		DocumentName:  "Safety committee minutes",
		DocumentCount: 1,
		Cycle:         1,
		CycleUnit:     types.CycleUnitYear,
		LastWrittenAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        types.ItemStatusNormal,
	}
}

func runItemRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Item().Put(ctx, testItem("safety", 3))
		gt.NoError(t, err).Required()
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Item().Get(ctx, "safety", 3)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.GroupID).Equal(types.GroupID("safety"))
		gt.Value(t, retrieved.ItemNumber).Equal(3)
		gt.Value(t, retrieved.DocumentName).Equal("Safety committee minutes")
		gt.Value(t, retrieved.CycleUnit).Equal(types.CycleUnitYear)
		gt.Bool(t, retrieved.LastWrittenAt.Equal(created.LastWrittenAt)).True()
	})

	t.Run("Get returns ErrItemNotFound for missing item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Item().Get(ctx, "safety", 99)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrItemNotFound)).True()
	})

	t.Run("ListByGroup filters by group", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, it := range []*model.Item{
			testItem("safety", 1),
			testItem("safety", 2),
			testItem("hygiene", 1),
		} {
			_, err := repo.Item().Put(ctx, it)
			gt.NoError(t, err).Required()
		}

		items, err := repo.Item().ListByGroup(ctx, "safety")
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2)

		all, err := repo.Item().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(3)
	})

	t.Run("UpdateStatus rewrites only the cached status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Item().Put(ctx, testItem("safety", 1))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Item().UpdateStatus(ctx, "safety", 1, types.ItemStatusOverdue)).Required()

		retrieved, err := repo.Item().Get(ctx, "safety", 1)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Status).Equal(types.ItemStatusOverdue)
		gt.Value(t, retrieved.DocumentName).Equal("Safety committee minutes")
	})

	t.Run("Delete removes the item", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Item().Put(ctx, testItem("safety", 1))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Item().Delete(ctx, "safety", 1)).Required()

		_, err = repo.Item().Get(ctx, "safety", 1)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrItemNotFound)).True()

		err = repo.Item().Delete(ctx, "safety", 1)
		gt.Error(t, err)
	})
}

func TestMemoryItemRepository(t *testing.T) {
	runItemRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreItemRepository(t *testing.T) {
	runItemRepositoryTest(t, newFirestoreRepository)
}
