package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/model/config"
	"github.com/safework-lab/talos/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds the per-item fan-out of a status sweep
const sweepConcurrency = 8

// StatusUseCase runs the periodic derivations: the daily status sweep
// over all items and the deadline-reminder poll over open documents.
type StatusUseCase struct {
	repo         interfaces.Repository
	statusPolicy *config.StatusPolicy
	notifier     interfaces.Notifier
}

func NewStatusUseCase(repo interfaces.Repository, policy *config.StatusPolicy, notifier interfaces.Notifier) *StatusUseCase {
	if policy == nil {
		policy = config.DefaultStatusPolicy()
	}
	return &StatusUseCase{
		repo:         repo,
		statusPolicy: policy,
		notifier:     notifier,
	}
}

// SweepResult summarizes one status sweep
type SweepResult struct {
	Total   int
	Updated int
}

// Sweep reclassifies every item and rewrites stale cached statuses.
// Items are independent, so classification fans out across a bounded
// worker group; cancelling mid-sweep is safe because each item's
// update is idempotent.
func (uc *StatusUseCase) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	items, err := uc.repo.Item().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list items for sweep")
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, item := range items {
		g.Go(func() error {
			status := item.Classify(now, uc.statusPolicy)
			if status == item.Status {
				return nil
			}
			if err := uc.repo.Item().UpdateStatus(gctx, item.GroupID, item.ItemNumber, status); err != nil {
				return goerr.Wrap(err, "failed to rewrite item status",
					goerr.V(GroupIDKey, item.GroupID),
					goerr.V(ItemNumberKey, item.ItemNumber))
			}
			updated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SweepResult{Total: len(items), Updated: int(updated.Load())}
	logging.From(ctx).Info("status sweep finished",
		"total", result.Total, "updated", result.Updated)
	return result, nil
}

// PollReminders queries every open document for reminders due in the
// next 24 hours and emits a DeadlineReminderDue event for each.
func (uc *StatusUseCase) PollReminders(ctx context.Context, now time.Time) (int, error) {
	docs, err := uc.repo.Document().List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list documents for reminder poll")
	}

	var sent int
	for _, doc := range docs {
		for _, kind := range doc.DueReminders(now) {
			sent++
			if uc.notifier == nil {
				continue
			}
			event := model.Event{
				Kind:       model.EventDeadlineReminderDue,
				Document:   doc.Ref(),
				Reminder:   kind,
				OccurredAt: now,
			}
			if err := uc.notifier.Notify(ctx, event); err != nil {
				// Delivery failure must not stop the poll; the next
				// daily run retries naturally.
				logging.From(ctx).Error("failed to deliver reminder",
					"error", err.Error(),
					"kind", kind.String(),
					"document", doc.Name)
			}
		}
	}
	return sent, nil
}
