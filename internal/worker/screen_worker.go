package worker

import (
	"context"
	"time"

	"github.com/spec-kit/invoich-web/internal/service"
)

// StartScreenWorker registers the registry's event handlers.
func StartScreenWorker(registry *service.ScreenRegistry) {
	if registry == nil {
		return
	}
	registry.RegisterHandlers()
}

// RunScreenSweeper drops screens idle for longer than idle, checking every
// interval, until ctx is done. All remaining screens are closed on exit.
func RunScreenSweeper(ctx context.Context, registry *service.ScreenRegistry, interval, idle time.Duration) error {
	if registry == nil {
		return nil
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			registry.Close()
			return nil
		case <-ticker.C:
			registry.Sweep(idle)
		}
	}
}
