package interfaces

import (
	"context"

	"github.com/safework-lab/talos/pkg/domain/model"
)

// Notifier receives logical workflow events. Delivery (Slack, email,
// push) is the implementation's concern; the core never blocks on it.
type Notifier interface {
	Notify(ctx context.Context, event model.Event) error
}
