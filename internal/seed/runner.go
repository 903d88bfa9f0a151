package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/config"
)

// Source is the upstream catalog.
type Source interface {
	ListSeries(ctx context.Context) ([]catalog.Resume, error)
	GetSerie(ctx context.Context, id string) (*catalog.Serie, error)
	ListSets(ctx context.Context) ([]catalog.Resume, error)
	GetSet(ctx context.Context, id string) (*catalog.Set, error)
	ListCards(ctx context.Context) ([]catalog.Resume, error)
	GetCard(ctx context.Context, id string) (*catalog.Card, error)
}

// Store receives the mirrored documents. Upserts report whether an existing
// document was replaced.
type Store interface {
	UpsertSerie(ctx context.Context, s *catalog.Serie) (bool, error)
	DeleteSerie(ctx context.Context, id string) (bool, error)
	UpsertSet(ctx context.Context, s *catalog.Set) (bool, error)
	DeleteSet(ctx context.Context, id string) (bool, error)
	UpsertCard(ctx context.Context, c *catalog.Card) (bool, error)
	DeleteCard(ctx context.Context, id string) (bool, error)
}

// Phase selects which entity kinds a sync covers.
type Phase string

const (
	PhaseAll    Phase = "all"
	PhaseSeries Phase = "series"
	PhaseSets   Phase = "sets"
	PhaseCards  Phase = "cards"
)

// ParsePhase validates a phase name; empty means all.
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PhaseAll, nil
	case PhaseAll, PhaseSeries, PhaseSets, PhaseCards:
		return p, nil
	}
	return "", fmt.Errorf("unknown sync phase %q (want all, series, sets or cards)", s)
}

// Options tunes a Runner.
type Options struct {
	Policy Policy
	// BatchSize is the number of card fetches in flight at once.
	BatchSize int
	// ItemTimeout bounds the fetch and write of one record.
	ItemTimeout time.Duration
}

// OptionsFromConfig maps the SYNC_* settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Policy:      DefaultPolicy().WithRarities(cfg.SyncExcludedRarities),
		BatchSize:   cfg.SyncCardBatchSize,
		ItemTimeout: cfg.SyncItemTimeout,
	}
}

// Runner executes sync phases.
type Runner struct {
	source      Source
	store       Store
	policy      Policy
	batchSize   int
	itemTimeout time.Duration
	logger      *slog.Logger
}

// NewRunner creates a Runner. Zero options fall back to the defaults.
func NewRunner(source Source, store Store, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 50
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = 60 * time.Second
	}
	if opts.Policy.Rarities == nil && opts.Policy.SerieIDs == nil {
		opts.Policy = DefaultPolicy()
	}
	return &Runner{
		source:      source,
		store:       store,
		policy:      opts.Policy,
		batchSize:   opts.BatchSize,
		itemTimeout: opts.ItemTimeout,
		logger:      logger,
	}
}

// outcome is what happened to one record.
type outcome int

const (
	outcomeInserted outcome = iota
	outcomeReplaced
	outcomeExcluded
)

func (s *PhaseStats) record(o outcome, err error) {
	switch {
	case err != nil:
		s.Errors++
	case o == outcomeExcluded:
		s.Excluded++
	case o == outcomeReplaced:
		s.Imported++
		s.Updated++
	default:
		s.Imported++
	}
}

// Sync runs the selected phases in dependency order. A list failure aborts
// the run and returns the stats gathered so far.
func (r *Runner) Sync(ctx context.Context, phase Phase) (Stats, error) {
	var stats Stats
	var err error

	if phase == PhaseAll || phase == PhaseSeries {
		if stats.Series, err = r.SyncSeries(ctx); err != nil {
			return stats, err
		}
	}
	if phase == PhaseAll || phase == PhaseSets {
		if stats.Sets, err = r.SyncSets(ctx); err != nil {
			return stats, err
		}
	}
	if phase == PhaseAll || phase == PhaseCards {
		if stats.Cards, err = r.SyncCards(ctx); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// SyncAll runs series, then sets, then cards.
func (r *Runner) SyncAll(ctx context.Context) (Stats, error) {
	return r.Sync(ctx, PhaseAll)
}

// SyncSeries mirrors every serie, one at a time.
func (r *Runner) SyncSeries(ctx context.Context) (PhaseStats, error) {
	return r.sequential(ctx, "series", r.source.ListSeries, r.syncSerie)
}

// SyncSets mirrors every set, one at a time.
func (r *Runner) SyncSets(ctx context.Context) (PhaseStats, error) {
	return r.sequential(ctx, "sets", r.source.ListSets, r.syncSet)
}

// SyncCards mirrors every card in fixed-size concurrent batches. Each batch
// finishes before the next one starts.
func (r *Runner) SyncCards(ctx context.Context) (PhaseStats, error) {
	var stats PhaseStats
	start := time.Now()
	r.logger.Info("Syncing cards...")

	list, err := r.source.ListCards(ctx)
	if err != nil {
		return stats, fmt.Errorf("list cards: %w", err)
	}

	var mu sync.Mutex
	for lo := 0; lo < len(list); lo += r.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("sync cards: %w", err)
		}
		hi := min(lo+r.batchSize, len(list))

		var g errgroup.Group
		for _, item := range list[lo:hi] {
			g.Go(func() error {
				o, err := r.item(ctx, "cards", item.ID, r.syncCard)
				mu.Lock()
				stats.record(o, err)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		r.logger.Info("Cards progress", "processed", hi, "total", len(list),
			"imported", stats.Imported, "errors", stats.Errors)
	}

	r.logger.Info("Cards done", "stats", stats.String(), "duration", time.Since(start).Round(time.Millisecond))
	return stats, nil
}

// sequential runs one phase item by item.
func (r *Runner) sequential(
	ctx context.Context,
	kind string,
	list func(context.Context) ([]catalog.Resume, error),
	fetch func(context.Context, string) (outcome, error),
) (PhaseStats, error) {
	var stats PhaseStats
	start := time.Now()
	r.logger.Info("Syncing " + kind + "...")

	items, err := list(ctx)
	if err != nil {
		return stats, fmt.Errorf("list %s: %w", kind, err)
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("sync %s: %w", kind, err)
		}
		stats.record(r.item(ctx, kind, item.ID, fetch))
	}

	r.logger.Info(strings.ToUpper(kind[:1])+kind[1:]+" done", "stats", stats.String(), "duration", time.Since(start).Round(time.Millisecond))
	return stats, nil
}

// item runs one record under the per-item timeout. Failures are logged and
// returned for counting; they never abort the phase.
func (r *Runner) item(ctx context.Context, kind, id string, fn func(context.Context, string) (outcome, error)) (outcome, error) {
	itemCtx, cancel := context.WithTimeout(ctx, r.itemTimeout)
	defer cancel()

	o, err := fn(itemCtx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", r.itemTimeout, err)
		}
		r.logger.Error("Sync item failed", "kind", kind, "id", id, "error", err)
	}
	return o, err
}

func (r *Runner) syncSerie(ctx context.Context, id string) (outcome, error) {
	serie, err := r.source.GetSerie(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("fetch serie: %w", err)
	}
	if r.policy.ExcludeSerie(serie) {
		if _, err := r.store.DeleteSerie(ctx, serie.ID); err != nil {
			return 0, fmt.Errorf("delete excluded serie: %w", err)
		}
		return outcomeExcluded, nil
	}
	return upsertOutcome(r.store.UpsertSerie(ctx, serie))
}

func (r *Runner) syncSet(ctx context.Context, id string) (outcome, error) {
	set, err := r.source.GetSet(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("fetch set: %w", err)
	}
	if r.policy.ExcludeSet(set) {
		if _, err := r.store.DeleteSet(ctx, set.ID); err != nil {
			return 0, fmt.Errorf("delete excluded set: %w", err)
		}
		return outcomeExcluded, nil
	}
	return upsertOutcome(r.store.UpsertSet(ctx, set))
}

func (r *Runner) syncCard(ctx context.Context, id string) (outcome, error) {
	card, err := r.source.GetCard(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("fetch card: %w", err)
	}
	if r.policy.ExcludeCard(card) {
		if _, err := r.store.DeleteCard(ctx, card.ID); err != nil {
			return 0, fmt.Errorf("delete excluded card: %w", err)
		}
		return outcomeExcluded, nil
	}
	return upsertOutcome(r.store.UpsertCard(ctx, card))
}

func upsertOutcome(replaced bool, err error) (outcome, error) {
	if err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	if replaced {
		return outcomeReplaced, nil
	}
	return outcomeInserted, nil
}
