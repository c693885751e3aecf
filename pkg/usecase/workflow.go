package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/utils/async"
	"github.com/safework-lab/talos/pkg/utils/errutil"
)

// WorkflowUseCase drives a document through its lifecycle: attach
// targets, complete approvals/signatures, publish. Each command loads
// the aggregate, applies one transition, and persists it; the
// repository's revision check surfaces conflicting writers.
type WorkflowUseCase struct {
	repo     interfaces.Repository
	notifier interfaces.Notifier
}

func NewWorkflowUseCase(repo interfaces.Repository, notifier interfaces.Notifier) *WorkflowUseCase {
	return &WorkflowUseCase{
		repo:     repo,
		notifier: notifier,
	}
}

// NewTarget builds a signature target with a fresh ID
func NewTarget(name, role string, targetType types.TargetType, order int) model.SignatureTarget {
	return model.SignatureTarget{
		ID:     uuid.NewString(),
		Name:   name,
		Role:   role,
		Type:   targetType,
		Order:  order,
		Status: types.TargetStatusIncomplete,
	}
}

func (uc *WorkflowUseCase) dispatchEvents(ctx context.Context, events []model.Event) {
	if uc.notifier == nil || len(events) == 0 {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		for _, event := range events {
			if err := uc.notifier.Notify(ctx, event); err != nil {
				errutil.Handle(ctx, err, "failed to deliver workflow event")
			}
		}
		return nil
	})
}

// AttachTargets sets the document's protocol and notifies the first
// participants; a draft moves to in_progress.
func (uc *WorkflowUseCase) AttachTargets(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, targets []model.SignatureTarget) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, err
	}
	if err := doc.AttachTargets(targets, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist attached targets",
			goerr.V(GroupIDKey, groupID),
			goerr.V(ItemNumberKey, itemNumber),
			goerr.V(DocumentNumberKey, documentNumber))
	}
	return updated, nil
}

// CompleteTarget completes one approval or signature target and
// dispatches the resulting workflow events.
func (uc *WorkflowUseCase) CompleteTarget(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, targetID string) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, err
	}

	events, err := doc.CompleteTarget(targetID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist target completion",
			goerr.V(TargetIDKey, targetID))
	}

	uc.dispatchEvents(ctx, events)
	return updated, nil
}

// Publish marks the document published; idempotent for documents that
// are already published.
func (uc *WorkflowUseCase) Publish(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, err
	}
	if err := doc.Publish(time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist publish",
			goerr.V(GroupIDKey, groupID),
			goerr.V(ItemNumberKey, itemNumber),
			goerr.V(DocumentNumberKey, documentNumber))
	}
	return updated, nil
}

// DueReminders reports which deadline reminders for the document fall
// within the next 24 hours. Pure query; callers poll it daily.
func (uc *WorkflowUseCase) DueReminders(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, now time.Time) ([]types.ReminderKind, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, err
	}
	return doc.DueReminders(now), nil
}
