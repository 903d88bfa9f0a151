// Package maintenance runs periodic background tasks as Go tickers.
// The API process is long-running, so the scheduled sync and history
// pruning are driven from here rather than an external cron.
package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pokevault/catalog-api/internal/seed"
)

// SyncRunner starts a sync through the single-flight guard.
type SyncRunner interface {
	Run(ctx context.Context, trigger string, phase seed.Phase) (seed.RunRecord, error)
}

// Pruner deletes history rows older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	SyncInterval  time.Duration // Full catalog sync
	PruneInterval time.Duration // Sync history cleanup
	Retention     time.Duration // Age after which history rows are pruned
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		SyncInterval:  24 * time.Hour,
		PruneInterval: 24 * time.Hour,
		Retention:     90 * 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, syncer SyncRunner, pruner Pruner, cfg Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Maintenance tickers started",
		"sync", cfg.SyncInterval,
		"prune", cfg.PruneInterval,
		"retention", cfg.Retention)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Scheduled sync: pull the whole catalog from upstream
	if cfg.SyncInterval > 0 && syncer != nil {
		t := time.NewTicker(cfg.SyncInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "sync", func() { scheduledSync(ctx, syncer, logger) })
	}

	// Prune: drop sync history past the retention window
	if cfg.PruneInterval > 0 && cfg.Retention > 0 && pruner != nil {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "prune", func() {
			_, _ = PruneHistory(ctx, pruner, cfg.Retention, logger)
		})
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// scheduledSync runs a full sync. A sync already running (manual or from
// the CLI in this process) is skipped rather than queued.
func scheduledSync(ctx context.Context, syncer SyncRunner, logger *slog.Logger) {
	run, err := syncer.Run(ctx, "schedule", seed.PhaseAll)
	switch {
	case errors.Is(err, seed.ErrSyncInProgress):
		logger.Info("Scheduled sync skipped: sync already in progress")
	case err != nil:
		logger.Warn("Scheduled sync failed", "error", err, "duration_ms", run.DurationMS)
	default:
		logger.Info("Scheduled sync finished", "duration_ms", run.DurationMS)
	}
}
