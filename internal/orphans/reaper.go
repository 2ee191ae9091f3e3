package orphans

import (
	"context"
	"log/slog"
	"time"
)

// MaxAttempts bounds how often one orphan is retried before it is dropped.
const MaxAttempts = 5

// Destroyer deletes a remote object.
type Destroyer interface {
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// Stats summarises one drain pass.
type Stats struct {
	Destroyed int
	Requeued  int
	Dropped   int
}

type Reaper struct {
	ledger    *Ledger
	destroyer Destroyer
	interval  time.Duration
	batch     int
	logger    *slog.Logger
}

func NewReaper(ledger *Ledger, destroyer Destroyer, interval time.Duration, batch int, logger *slog.Logger) *Reaper {
	if logger == nil {
		logger = slog.Default()
	}
	if batch <= 0 {
		batch = 100
	}
	return &Reaper{
		ledger:    ledger,
		destroyer: destroyer,
		interval:  interval,
		batch:     batch,
		logger:    logger,
	}
}

// Start drains once immediately and then on every tick until ctx is done.
func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Orphan reaper started", "interval", r.interval.String())

	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Orphan reaper shutting down")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

func (r *Reaper) run(ctx context.Context) {
	startTime := time.Now()

	stats, err := r.Drain(ctx)
	if err != nil {
		r.logger.Error("Orphan drain failed",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	r.logger.Info("Completed orphan drain",
		"destroyed", stats.Destroyed,
		"requeued", stats.Requeued,
		"dropped", stats.Dropped,
		"duration_ms", time.Since(startTime).Milliseconds())
}

// Drain processes at most one batch, never more than the ledger held when
// the pass started. A failed destroy is pushed back right away with an
// incremented attempt count, so a pass cut short by cancellation never
// loses an orphan it already popped.
func (r *Reaper) Drain(ctx context.Context) (Stats, error) {
	var stats Stats

	pending, err := r.ledger.Len(ctx)
	if err != nil {
		return stats, err
	}
	n := r.batch
	if pending < int64(n) {
		n = int(pending)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		orphan, err := r.ledger.Pop(ctx)
		if err != nil {
			return stats, err
		}
		if orphan == nil {
			break
		}

		err = r.destroyer.Destroy(ctx, orphan.PublicID, orphan.ResourceType)
		if err == nil {
			stats.Destroyed++
			continue
		}

		orphan.Attempts++
		if orphan.Attempts >= MaxAttempts {
			r.logger.Error("Dropping orphan after repeated failures",
				"public_id", orphan.PublicID,
				"attempts", orphan.Attempts,
				"error", err.Error())
			stats.Dropped++
			continue
		}

		if err := r.ledger.Push(context.WithoutCancel(ctx), *orphan); err != nil {
			r.logger.Error("Failed to requeue orphan",
				"public_id", orphan.PublicID,
				"error", err.Error())
			return stats, err
		}
		stats.Requeued++
	}

	return stats, nil
}
