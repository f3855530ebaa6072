package storage

// sweeper.go removes expired objects in the background for backends that
// keep files themselves. It is long-running and stops with its context;
// a failed sweep is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often expired objects are purged.
const DefaultSweepInterval = 15 * time.Minute

// RunSweeper purges once immediately, then every interval, until ctx is done.
func RunSweeper(ctx context.Context, p Purger, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("object sweeper started", "interval", interval.String())

	sweep(ctx, p)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("object sweeper stopped")
			return
		case <-ticker.C:
			sweep(ctx, p)
		}
	}
}

func sweep(ctx context.Context, p Purger) {
	start := time.Now()
	purged, err := p.PurgeExpired(ctx, start)
	if err != nil {
		slog.Error("object purge failed", "error", err)
		return
	}
	slog.Debug("purged expired objects",
		"objects_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
