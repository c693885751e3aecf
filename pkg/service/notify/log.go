package notify

import (
	"context"

	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/utils/logging"
)

// logNotifier writes events to the structured log. Used when no
// delivery channel is configured, so events are still observable.
type logNotifier struct{}

var _ interfaces.Notifier = &logNotifier{}

// NewLog creates a logging-only notifier
func NewLog() interfaces.Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(ctx context.Context, event model.Event) error {
	logging.From(ctx).Info("workflow event",
		"kind", event.Kind,
		"group_id", event.Document.GroupID,
		"item_number", event.Document.ItemNumber,
		"document_number", event.Document.DocumentNumber,
		"document", event.Document.Name,
		"target", event.TargetName,
		"reminder", event.Reminder,
	)
	return nil
}
