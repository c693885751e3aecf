package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// Document is one instance of a periodic obligation being fulfilled.
// (GroupID, ItemNumber, DocumentNumber) is a unique composite key.
// Once Lifecycle reaches completed the document is immutable: no edit,
// no delete, no re-publish.
type Document struct {
	GroupID          types.GroupID
	ItemNumber       int
	DocumentNumber   int
	Sequence         int64
	RegisteredAt     time.Time
	OrganizationName string
	Name             string
	WrittenAt        time.Time
	ApprovalDeadline time.Time
	Lifecycle        types.Lifecycle
	Published        bool

	Rows    []RemediationRow
	Targets []SignatureTarget

	// Revision supports the storage layer's optimistic concurrency
	// check; conflicting writes fail with ErrConcurrentModification.
	Revision  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the document's creator-enforced invariants
func (d *Document) Validate() error {
	if err := d.GroupID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid group ID")
	}
	if d.ItemNumber < 1 {
		return goerr.New("item number must be positive", goerr.V(ItemNumberKey, d.ItemNumber))
	}
	if d.DocumentNumber < 1 {
		return goerr.New("document number must be positive", goerr.V(DocumentNumberKey, d.DocumentNumber))
	}
	if d.Name == "" {
		return goerr.New("document name is required", goerr.V(DocumentNumberKey, d.DocumentNumber))
	}
	if !d.ApprovalDeadline.IsZero() && d.ApprovalDeadline.Before(d.WrittenAt) {
		return goerr.New("approval deadline must not precede written date",
			goerr.V("written_at", d.WrittenAt), goerr.V("approval_deadline", d.ApprovalDeadline))
	}
	return nil
}

// IsCompleted reports whether the document reached its terminal state
func (d *Document) IsCompleted() bool {
	return d.Lifecycle.Normalize() == types.LifecycleCompleted
}

func (d *Document) guardMutable() error {
	if d.IsCompleted() {
		return goerr.Wrap(ErrDocumentImmutable, "document lifecycle is completed",
			goerr.V(GroupIDKey, d.GroupID),
			goerr.V(ItemNumberKey, d.ItemNumber),
			goerr.V(DocumentNumberKey, d.DocumentNumber))
	}
	return nil
}

// AttachTargets sets the document's approval/signature protocol and
// moves a draft into in_progress. Approval orders must form a
// contiguous chain starting at 1.
func (d *Document) AttachTargets(targets []SignatureTarget, now time.Time) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	if len(targets) == 0 {
		return goerr.New("at least one target is required")
	}
	if err := validateTargetSet(targets); err != nil {
		return err
	}

	d.Targets = make([]SignatureTarget, len(targets))
	copy(d.Targets, targets)
	for i := range d.Targets {
		d.Targets[i].Status = d.Targets[i].Status.Normalize()
	}

	if d.Lifecycle.Normalize() == types.LifecycleDraft {
		d.Lifecycle = types.LifecycleInProgress
	}
	d.UpdatedAt = now
	return nil
}

// CompleteTarget marks one target as completed and returns the events
// the transition produced. Approval targets complete strictly in order;
// signature targets complete in any order and do not block each other.
// The document completes once every target, each under its own track's
// rule, is completed.
func (d *Document) CompleteTarget(targetID string, now time.Time) ([]Event, error) {
	if err := d.guardMutable(); err != nil {
		return nil, err
	}

	idx := -1
	for i := range d.Targets {
		if d.Targets[i].ID == targetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, goerr.Wrap(ErrTargetNotFound, "no such target on document",
			goerr.V(TargetIDKey, targetID))
	}

	target := &d.Targets[idx]
	if target.Status == types.TargetStatusCompleted {
		return nil, goerr.Wrap(ErrAlreadyDone, "target is already completed",
			goerr.V(TargetIDKey, targetID))
	}

	if target.Type == types.TargetTypeApproval {
		for i := range d.Targets {
			prev := &d.Targets[i]
			if prev.Type != types.TargetTypeApproval || prev.Order >= target.Order {
				continue
			}
			if prev.Status != types.TargetStatusCompleted {
				return nil, goerr.Wrap(ErrOutOfSequenceApproval, "earlier approval is still pending",
					goerr.V(TargetIDKey, targetID),
					goerr.V("order", target.Order),
					goerr.V("pending_order", prev.Order))
			}
		}
	}

	completedAt := now
	target.Status = types.TargetStatusCompleted
	target.CompletedAt = &completedAt
	d.UpdatedAt = now

	var events []Event
	if target.Type == types.TargetTypeApproval {
		events = append(events, Event{
			Kind:       EventApprovalAdvanced,
			Document:   d.Ref(),
			TargetID:   target.ID,
			TargetName: target.Name,
			OccurredAt: now,
		})
	}
	if target.Type == types.TargetTypeSignature && d.allCompleted(types.TargetTypeSignature) {
		events = append(events, Event{
			Kind:       EventAllSignaturesComplete,
			Document:   d.Ref(),
			OccurredAt: now,
		})
	}

	if d.allTargetsCompleted() {
		d.Lifecycle = types.LifecycleCompleted
		events = append(events, Event{
			Kind:       EventDocumentCompleted,
			Document:   d.Ref(),
			OccurredAt: now,
		})
	}

	return events, nil
}

func (d *Document) allCompleted(tt types.TargetType) bool {
	for i := range d.Targets {
		if d.Targets[i].Type == tt && d.Targets[i].Status != types.TargetStatusCompleted {
			return false
		}
	}
	return true
}

func (d *Document) allTargetsCompleted() bool {
	if len(d.Targets) == 0 {
		return false
	}
	for i := range d.Targets {
		if d.Targets[i].Status != types.TargetStatusCompleted {
			return false
		}
	}
	return true
}

// Publish marks the document published. Idempotent: publishing twice
// has the same observable effect as once.
func (d *Document) Publish(now time.Time) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	if d.Published {
		return nil
	}
	d.Published = true
	d.UpdatedAt = now
	return nil
}

// AddRow appends a remediation row. A post-measure risk above the
// current risk is surfaced as a RiskIncreaseWarning alongside success.
func (d *Document) AddRow(row RemediationRow, now time.Time) (*RiskIncreaseWarning, error) {
	if err := d.guardMutable(); err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, goerr.New("row ID is required")
	}
	if row.Hazard == "" {
		return nil, goerr.New("hazard description is required", goerr.V(RowIDKey, row.ID))
	}
	if !row.ControlTier.IsValid() {
		return nil, goerr.New("invalid control tier",
			goerr.V(RowIDKey, row.ID), goerr.V("tier", row.ControlTier))
	}
	for i := range d.Rows {
		if d.Rows[i].ID == row.ID {
			return nil, goerr.New("duplicate row ID", goerr.V(RowIDKey, row.ID))
		}
	}

	d.Rows = append(d.Rows, row)
	d.UpdatedAt = now
	return row.CheckRiskIncrease(), nil
}

// MarkRowDone completes a remediation row. Marking an already-done row
// fails rather than silently succeeding twice.
func (d *Document) MarkRowDone(rowID string, completedAt time.Time) error {
	if err := d.guardMutable(); err != nil {
		return err
	}
	for i := range d.Rows {
		if d.Rows[i].ID != rowID {
			continue
		}
		if d.Rows[i].Done {
			return goerr.Wrap(ErrAlreadyDone, "row is already done", goerr.V(RowIDKey, rowID))
		}
		done := completedAt
		d.Rows[i].Done = true
		d.Rows[i].CompletedAt = &done
		d.UpdatedAt = completedAt
		return nil
	}
	return goerr.Wrap(ErrRowNotFound, "no such row on document", goerr.V(RowIDKey, rowID))
}

// CompletionRate returns the done percentage for one control tier
func (d *Document) CompletionRate(tier types.ControlTier) int {
	return CompletionRate(d.Rows, tier)
}

// CompletionRates reports the two tracked progress values: the
// elimination/substitution tier and the engineering-control tier.
// Administrative and PPE rows are recorded but not aggregated here.
func (d *Document) CompletionRates() (removal, engineering int) {
	return d.CompletionRate(types.ControlTierElimination), d.CompletionRate(types.ControlTierEngineering)
}

// DueReminders returns which deadline reminders fall within
// [now, now+24h). A pure query: the caller polls it (e.g. a daily
// cron) to decide what to send; the core schedules no timers.
func (d *Document) DueReminders(now time.Time) []types.ReminderKind {
	if d.ApprovalDeadline.IsZero() || d.IsCompleted() {
		return nil
	}

	var due []types.ReminderKind
	for _, kind := range types.AllReminderKinds() {
		remindAt := d.ApprovalDeadline.Add(-kind.Lead())
		if !remindAt.Before(now) && remindAt.Before(now.Add(24*time.Hour)) {
			due = append(due, kind)
		}
	}
	return due
}
