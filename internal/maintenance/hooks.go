package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// PruneHistory deletes sync runs older than retention. Called by the
// ticker and usable directly after a manual sync.
func PruneHistory(ctx context.Context, pruner Pruner, retention time.Duration, logger *slog.Logger) (int64, error) {
	start := time.Now()
	n, err := pruner.Prune(ctx, start.Add(-retention))
	dur := time.Since(start).Round(time.Millisecond)

	if err != nil {
		logger.Warn("Failed to prune sync history", "duration", dur, "error", err)
		return 0, fmt.Errorf("prune history: %w", err)
	}
	if n > 0 {
		logger.Info("Pruned sync history", "count", n, "duration", dur)
	}
	return n, nil
}
