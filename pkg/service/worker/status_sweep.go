package worker

import (
	"context"
	"time"

	"github.com/safework-lab/talos/pkg/usecase"
	"github.com/safework-lab/talos/pkg/utils/logging"
)

// StatusSweepWorker periodically reclassifies item statuses and polls
// open documents for due deadline reminders.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type StatusSweepWorker struct {
	status   *usecase.StatusUseCase
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewStatusSweepWorker creates a new worker for the periodic sweep
func NewStatusSweepWorker(status *usecase.StatusUseCase, interval time.Duration) *StatusSweepWorker {
	return &StatusSweepWorker{
		status:   status,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop without blocking startup
func (w *StatusSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("status sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *StatusSweepWorker) Stop() {
	logging.Default().Info("status sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("status sweep worker stopped")
}

func (w *StatusSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial sweep; failures are retried on the next tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StatusSweepWorker) sweep(ctx context.Context) {
	now := time.Now()

	if _, err := w.status.Sweep(ctx, now); err != nil {
		logging.Default().Error("status sweep failed (will retry next interval)",
			"error", err.Error())
	}

	sent, err := w.status.PollReminders(ctx, now)
	if err != nil {
		logging.Default().Error("reminder poll failed (will retry next interval)",
			"error", err.Error())
		return
	}
	if sent > 0 {
		logging.Default().Info("deadline reminders emitted", "count", sent)
	}
}
