package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/repository/memory"
	"github.com/safework-lab/talos/pkg/usecase"
)

// captureNotifier records events on a channel; delivery is
// asynchronous, so tests drain the channel with a timeout.
type captureNotifier struct {
	events chan model.Event
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{events: make(chan model.Event, 32)}
}

func (n *captureNotifier) Notify(ctx context.Context, event model.Event) error {
	n.events <- event
	return nil
}

func (n *captureNotifier) wait(t *testing.T, count int) []model.Event {
	t.Helper()
	var got []model.Event
	timeout := time.After(3 * time.Second)
	for len(got) < count {
		select {
		case ev := <-n.events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events: got %d, want %d", len(got), count)
		}
	}
	return got
}

func setupWorkflow(t *testing.T) (*usecase.UseCases, *captureNotifier, context.Context) {
	t.Helper()

	notifier := newCaptureNotifier()
	uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))
	ctx := context.Background()

	_, err := uc.Catalog.AddGroup(ctx, &model.Group{ID: "safety", Name: "Safety management"})
	gt.NoError(t, err).Required()

	_, err = uc.Catalog.AddItem(ctx, &model.Item{
		GroupID:       "safety",
		ItemNumber:    1,
		DocumentName:  "Inspection record",
		DocumentCount: 1,
		Cycle:         1,
		CycleUnit:     types.CycleUnitYear,
		LastWrittenAt: time.Now().UTC(),
	})
	gt.NoError(t, err).Required()

	writtenAt := time.Now().UTC()
	_, err = uc.Catalog.GenerateDocuments(ctx, "safety", 1, "North plant",
		writtenAt, writtenAt.AddDate(0, 1, 0))
	gt.NoError(t, err).Required()

	return uc, notifier, ctx
}

func TestWorkflowEndToEnd(t *testing.T) {
	uc, notifier, ctx := setupWorkflow(t)

	targets := []model.SignatureTarget{
		usecase.NewTarget("site lead", "manager", types.TargetTypeApproval, 1),
		usecase.NewTarget("plant chief", "director", types.TargetTypeApproval, 2),
		usecase.NewTarget("operator A", "worker", types.TargetTypeSignature, 0),
		usecase.NewTarget("operator B", "worker", types.TargetTypeSignature, 0),
	}

	doc, err := uc.Workflow.AttachTargets(ctx, "safety", 1, 1, targets)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Lifecycle).Equal(types.LifecycleInProgress)
	gt.Array(t, doc.Targets).Length(4)

	t.Run("second approval is blocked until the first", func(t *testing.T) {
		_, err := uc.Workflow.CompleteTarget(ctx, "safety", 1, 1, targets[1].ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrOutOfSequenceApproval)).True()
	})

	t.Run("full chain completes the document", func(t *testing.T) {
		for _, target := range []model.SignatureTarget{targets[0], targets[1], targets[2]} {
			_, err := uc.Workflow.CompleteTarget(ctx, "safety", 1, 1, target.ID)
			gt.NoError(t, err).Required()
		}

		doc, err := uc.Workflow.CompleteTarget(ctx, "safety", 1, 1, targets[3].ID)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Lifecycle).Equal(types.LifecycleCompleted)

		// 2 approval advances, all-signatures, document completed
		events := notifier.wait(t, 4)
		kinds := map[model.EventKind]int{}
		for _, ev := range events {
			kinds[ev.Kind]++
		}
		gt.Value(t, kinds[model.EventApprovalAdvanced]).Equal(2)
		gt.Value(t, kinds[model.EventAllSignaturesComplete]).Equal(1)
		gt.Value(t, kinds[model.EventDocumentCompleted]).Equal(1)
	})

	t.Run("completed document rejects further work", func(t *testing.T) {
		_, err := uc.Workflow.CompleteTarget(ctx, "safety", 1, 1, targets[0].ID)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrDocumentImmutable)).True()

		err = uc.Catalog.DeleteDocument(ctx, "safety", 1, 1)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrDocumentImmutable)).True()
	})
}

func TestPublishIdempotent(t *testing.T) {
	uc, _, ctx := setupWorkflow(t)

	doc, err := uc.Workflow.Publish(ctx, "safety", 1, 1)
	gt.NoError(t, err).Required()
	gt.Bool(t, doc.Published).True()

	again, err := uc.Workflow.Publish(ctx, "safety", 1, 1)
	gt.NoError(t, err).Required()
	gt.Bool(t, again.Published).True()
}

func TestConcurrentModification(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	_, err := uc.Catalog.AddGroup(ctx, &model.Group{ID: "safety", Name: "Safety management"})
	gt.NoError(t, err).Required()
	_, err = uc.Catalog.AddItem(ctx, &model.Item{
		GroupID:       "safety",
		ItemNumber:    1,
		DocumentName:  "Inspection record",
		DocumentCount: 1,
		Cycle:         1,
		CycleUnit:     types.CycleUnitYear,
		LastWrittenAt: time.Now().UTC(),
	})
	gt.NoError(t, err).Required()
	_, err = uc.Catalog.GenerateDocuments(ctx, "safety", 1, "North plant", time.Now().UTC(), time.Time{})
	gt.NoError(t, err).Required()

	doc, err := uc.Catalog.GetDocument(ctx, "safety", 1, 1)
	gt.NoError(t, err).Required()

	// A competing writer bumps the revision underneath us
	fresh, err := repo.Document().Get(ctx, "safety", 1, 1)
	gt.NoError(t, err).Required()
	fresh.OrganizationName = "South plant"
	_, err = repo.Document().Update(ctx, fresh)
	gt.NoError(t, err).Required()

	doc.OrganizationName = "East plant"
	_, err = repo.Document().Update(ctx, doc)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrConcurrentModification)).True()
}

func TestDueRemindersQuery(t *testing.T) {
	notifier := newCaptureNotifier()
	uc := usecase.New(memory.New(), usecase.WithNotifier(notifier))
	ctx := context.Background()

	_, err := uc.Catalog.AddGroup(ctx, &model.Group{ID: "safety", Name: "Safety management"})
	gt.NoError(t, err).Required()
	_, err = uc.Catalog.AddItem(ctx, &model.Item{
		GroupID:       "safety",
		ItemNumber:    1,
		DocumentName:  "Inspection record",
		DocumentCount: 1,
		Cycle:         1,
		CycleUnit:     types.CycleUnitYear,
		LastWrittenAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	gt.NoError(t, err).Required()

	writtenAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = uc.Catalog.GenerateDocuments(ctx, "safety", 1, "North plant", writtenAt, deadline)
	gt.NoError(t, err).Required()

	due, err := uc.Workflow.DueReminders(ctx, "safety", 1, 1, time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.Array(t, due).Length(1)
	gt.Value(t, due[0]).Equal(types.Reminder7Days)

	due, err = uc.Workflow.DueReminders(ctx, "safety", 1, 1, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.Array(t, due).Length(0)
}
