package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
)

func newDocument() *model.Document {
	return &model.Document{
		GroupID:          "safety",
		ItemNumber:       1,
		DocumentNumber:   1,
		Name:             "Inspection record (1/1)",
		WrittenAt:        date(2025, 3, 1),
		ApprovalDeadline: date(2025, 4, 1),
		Lifecycle:        types.LifecycleDraft,
	}
}

func approval(id string, order int) model.SignatureTarget {
	return model.SignatureTarget{
		ID:    id,
		Name:  "approver " + id,
		Role:  "manager",
		Type:  types.TargetTypeApproval,
		Order: order,
	}
}

func signature(id string) model.SignatureTarget {
	return model.SignatureTarget{
		ID:   id,
		Name: "signer " + id,
		Role: "worker",
		Type: types.TargetTypeSignature,
	}
}

func TestAttachTargets(t *testing.T) {
	now := date(2025, 3, 2)

	t.Run("draft moves to in_progress", func(t *testing.T) {
		doc := newDocument()
		err := doc.AttachTargets([]model.SignatureTarget{approval("a1", 1)}, now)
		gt.NoError(t, err).Required()
		gt.Value(t, doc.Lifecycle).Equal(types.LifecycleInProgress)
		gt.Value(t, doc.Targets[0].Status).Equal(types.TargetStatusIncomplete)
	})

	t.Run("empty target set is rejected", func(t *testing.T) {
		doc := newDocument()
		gt.Error(t, doc.AttachTargets(nil, now))
	})

	t.Run("duplicate target IDs are rejected", func(t *testing.T) {
		doc := newDocument()
		err := doc.AttachTargets([]model.SignatureTarget{approval("a1", 1), approval("a1", 2)}, now)
		gt.Error(t, err)
	})

	t.Run("approval orders must be contiguous from 1", func(t *testing.T) {
		doc := newDocument()
		err := doc.AttachTargets([]model.SignatureTarget{approval("a1", 1), approval("a2", 3)}, now)
		gt.Error(t, err)
	})

	t.Run("duplicate approval orders are rejected", func(t *testing.T) {
		doc := newDocument()
		err := doc.AttachTargets([]model.SignatureTarget{approval("a1", 1), approval("a2", 1)}, now)
		gt.Error(t, err)
	})
}

func TestCompleteTarget(t *testing.T) {
	now := date(2025, 3, 2)

	setup := func(t *testing.T) *model.Document {
		t.Helper()
		doc := newDocument()
		targets := []model.SignatureTarget{
			approval("a1", 1),
			approval("a2", 2),
			signature("s1"),
			signature("s2"),
			signature("s3"),
		}
		gt.NoError(t, doc.AttachTargets(targets, now)).Required()
		return doc
	}

	t.Run("second approval before first is out of sequence", func(t *testing.T) {
		doc := setup(t)
		_, err := doc.CompleteTarget("a2", now)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrOutOfSequenceApproval)).True()
	})

	t.Run("approvals in order emit advancement events", func(t *testing.T) {
		doc := setup(t)

		events, err := doc.CompleteTarget("a1", now)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1)
		gt.Value(t, events[0].Kind).Equal(model.EventApprovalAdvanced)
		gt.Value(t, events[0].TargetID).Equal("a1")

		events, err = doc.CompleteTarget("a2", now)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1)
		gt.Value(t, events[0].Kind).Equal(model.EventApprovalAdvanced)
	})

	t.Run("signatures complete in any order without blocking", func(t *testing.T) {
		doc := setup(t)

		_, err := doc.CompleteTarget("s3", now)
		gt.NoError(t, err).Required()
		_, err = doc.CompleteTarget("s1", now)
		gt.NoError(t, err).Required()

		events, err := doc.CompleteTarget("s2", now)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1)
		gt.Value(t, events[0].Kind).Equal(model.EventAllSignaturesComplete)
	})

	t.Run("last target completes the document", func(t *testing.T) {
		doc := setup(t)

		for _, id := range []string{"s1", "s2", "s3", "a1"} {
			_, err := doc.CompleteTarget(id, now)
			gt.NoError(t, err).Required()
		}

		events, err := doc.CompleteTarget("a2", now)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2)
		gt.Value(t, events[0].Kind).Equal(model.EventApprovalAdvanced)
		gt.Value(t, events[1].Kind).Equal(model.EventDocumentCompleted)
		gt.Value(t, doc.Lifecycle).Equal(types.LifecycleCompleted)
		gt.Bool(t, doc.IsCompleted()).True()
	})

	t.Run("completing twice is already done", func(t *testing.T) {
		doc := setup(t)
		_, err := doc.CompleteTarget("s1", now)
		gt.NoError(t, err).Required()
		_, err = doc.CompleteTarget("s1", now)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrAlreadyDone)).True()
	})

	t.Run("unknown target", func(t *testing.T) {
		doc := setup(t)
		_, err := doc.CompleteTarget("nobody", now)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrTargetNotFound)).True()
	})

	t.Run("completed document is immutable", func(t *testing.T) {
		doc := setup(t)
		for _, id := range []string{"a1", "a2", "s1", "s2", "s3"} {
			_, err := doc.CompleteTarget(id, now)
			gt.NoError(t, err).Required()
		}

		_, err := doc.CompleteTarget("a1", now)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrDocumentImmutable)).True()

		gt.Error(t, doc.AttachTargets([]model.SignatureTarget{approval("a9", 1)}, now))
		gt.Error(t, doc.Publish(now))
		_, err = doc.AddRow(model.RemediationRow{ID: "r1", Hazard: "x", ControlTier: types.ControlTierPPE}, now)
		gt.Error(t, err)
		gt.Error(t, doc.MarkRowDone("r1", now))
	})
}

func TestPublish(t *testing.T) {
	now := date(2025, 3, 2)
	doc := newDocument()

	gt.NoError(t, doc.Publish(now)).Required()
	gt.Bool(t, doc.Published).True()

	// Idempotent
	gt.NoError(t, doc.Publish(now.Add(time.Hour)))
	gt.Bool(t, doc.Published).True()
	gt.Value(t, doc.UpdatedAt).Equal(now)
}

func TestAddRow(t *testing.T) {
	now := date(2025, 3, 2)

	t.Run("append and duplicate check", func(t *testing.T) {
		doc := newDocument()
		r := model.RemediationRow{
			ID:          "r1",
			Hazard:      "unguarded blade",
			ControlTier: types.ControlTierEngineering,
			CurrentRisk: model.RiskScore{Value: 12},
			PostRisk:    model.RiskScore{Value: 4},
		}
		warning, err := doc.AddRow(r, now)
		gt.NoError(t, err).Required()
		gt.Value(t, warning).Nil()
		gt.Array(t, doc.Rows).Length(1)

		_, err = doc.AddRow(r, now)
		gt.Error(t, err)
	})

	t.Run("risk increase is a warning, not an error", func(t *testing.T) {
		doc := newDocument()
		r := model.RemediationRow{
			ID:          "r1",
			Hazard:      "solvent fumes",
			ControlTier: types.ControlTierAdministrative,
			CurrentRisk: model.RiskScore{Value: 4},
			PostRisk:    model.RiskScore{Value: 9},
		}
		warning, err := doc.AddRow(r, now)
		gt.NoError(t, err).Required()
		gt.Value(t, warning).NotNil()
		gt.Value(t, warning.PostValue).Equal(9)
		gt.Array(t, doc.Rows).Length(1)
	})

	t.Run("invalid rows are rejected", func(t *testing.T) {
		doc := newDocument()
		_, err := doc.AddRow(model.RemediationRow{Hazard: "x", ControlTier: types.ControlTierPPE}, now)
		gt.Error(t, err)
		_, err = doc.AddRow(model.RemediationRow{ID: "r1", ControlTier: types.ControlTierPPE}, now)
		gt.Error(t, err)
		_, err = doc.AddRow(model.RemediationRow{ID: "r1", Hazard: "x", ControlTier: "guesswork"}, now)
		gt.Error(t, err)
	})
}

func TestMarkRowDone(t *testing.T) {
	now := date(2025, 3, 2)
	doc := newDocument()
	_, err := doc.AddRow(model.RemediationRow{
		ID:          "r1",
		Hazard:      "hot surface",
		ControlTier: types.ControlTierPPE,
	}, now)
	gt.NoError(t, err).Required()

	gt.NoError(t, doc.MarkRowDone("r1", now)).Required()
	gt.Bool(t, doc.Rows[0].Done).True()
	gt.Value(t, doc.Rows[0].CompletedAt).NotNil()

	err = doc.MarkRowDone("r1", now)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrAlreadyDone)).True()

	err = doc.MarkRowDone("r9", now)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrRowNotFound)).True()
}

func TestDueReminders(t *testing.T) {
	doc := newDocument()
	doc.ApprovalDeadline = date(2025, 4, 1)

	t.Run("15 day reminder inside the window", func(t *testing.T) {
		due := doc.DueReminders(date(2025, 3, 17))
		gt.Array(t, due).Length(1)
		gt.Value(t, due[0]).Equal(types.Reminder15Days)
	})

	t.Run("no reminders between leads", func(t *testing.T) {
		gt.Array(t, doc.DueReminders(date(2025, 3, 20))).Length(0)
	})

	t.Run("7 day reminder", func(t *testing.T) {
		due := doc.DueReminders(date(2025, 3, 25))
		gt.Array(t, due).Length(1)
		gt.Value(t, due[0]).Equal(types.Reminder7Days)
	})

	t.Run("1 day reminder", func(t *testing.T) {
		due := doc.DueReminders(date(2025, 3, 31))
		gt.Array(t, due).Length(1)
		gt.Value(t, due[0]).Equal(types.Reminder1Day)
	})

	t.Run("nothing after the deadline", func(t *testing.T) {
		gt.Array(t, doc.DueReminders(date(2025, 4, 2))).Length(0)
	})

	t.Run("no deadline means no reminders", func(t *testing.T) {
		d := newDocument()
		d.ApprovalDeadline = time.Time{}
		gt.Array(t, d.DueReminders(date(2025, 3, 17))).Length(0)
	})

	t.Run("completed documents are silent", func(t *testing.T) {
		d := newDocument()
		d.Lifecycle = types.LifecycleCompleted
		gt.Array(t, d.DueReminders(date(2025, 3, 17))).Length(0)
	})
}

func TestDocumentValidate(t *testing.T) {
	doc := newDocument()
	gt.NoError(t, doc.Validate())

	bad := newDocument()
	bad.ApprovalDeadline = bad.WrittenAt.AddDate(0, 0, -1)
	gt.Error(t, bad.Validate())

	bad = newDocument()
	bad.Name = ""
	gt.Error(t, bad.Validate())

	bad = newDocument()
	bad.DocumentNumber = 0
	gt.Error(t, bad.Validate())
}
