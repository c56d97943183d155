package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/timekeep/internal/action"
)

// maxBackoff caps the poll delay while the service keeps failing.
const maxBackoff = 30 * time.Second

// Loader is the slice of the action creators the poller needs.
type Loader interface {
	LoadEntries() <-chan error
}

// StartPoller launches a background goroutine that reloads the entry list at
// interval, backing off while loads fail. It returns immediately; a
// non-positive interval disables polling.
func StartPoller(ctx context.Context, loader Loader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		failures := 0
		for {
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			err := pollOnce(ctx, loader)
			switch {
			case ctx.Err() != nil:
				return
			case err == nil, errors.Is(err, action.ErrSuperseded):
				failures = 0
			default:
				failures++
				slog.Warn("entry poll failed",
					"failures", failures,
					"next", calculateBackoff(failures, interval),
					"error", err,
				)
			}
		}
	}()
}

func pollOnce(ctx context.Context, loader Loader) error {
	select {
	case err := <-loader.LoadEntries():
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// calculateBackoff doubles base for every consecutive failure up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
