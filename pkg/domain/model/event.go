package model

import (
	"time"

	"github.com/safework-lab/talos/pkg/domain/types"
)

// EventKind identifies a logical workflow event. The core emits
// events; an external dispatcher performs delivery.
type EventKind string

const (
	EventApprovalAdvanced      EventKind = "approval_advanced"
	EventAllSignaturesComplete EventKind = "all_signatures_complete"
	EventDeadlineReminderDue   EventKind = "deadline_reminder_due"
	EventDocumentCompleted     EventKind = "document_completed"
)

// DocumentRef identifies a document without carrying its state
type DocumentRef struct {
	GroupID        types.GroupID
	ItemNumber     int
	DocumentNumber int
	Name           string
}

// Event is a logical notification emitted by the workflow
type Event struct {
	Kind       EventKind
	Document   DocumentRef
	TargetID   string
	TargetName string
	Reminder   types.ReminderKind
	OccurredAt time.Time
}

// Ref returns a reference to the document for event payloads
func (d *Document) Ref() DocumentRef {
	return DocumentRef{
		GroupID:        d.GroupID,
		ItemNumber:     d.ItemNumber,
		DocumentNumber: d.DocumentNumber,
		Name:           d.Name,
	}
}
