package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/utils/logging"
)

// Dispatch executes a handler asynchronously in a new goroutine with a
// detached context, so notification delivery never blocks or cancels a
// workflow command. Errors and panics are logged, not propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
