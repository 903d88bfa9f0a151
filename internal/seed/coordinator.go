package seed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSyncInProgress is returned when a sync is requested while one runs.
var ErrSyncInProgress = errors.New("sync already in progress")

// Syncer runs sync phases. *Runner satisfies it.
type Syncer interface {
	Sync(ctx context.Context, phase Phase) (Stats, error)
}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run RunRecord) error
}

// Purger drops cached responses derived from the catalog.
type Purger interface {
	Purge()
}

// RunRecord describes one finished sync.
type RunRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Trigger    string    `json:"trigger"`
	Phase      Phase     `json:"phase"`
	Success    bool      `json:"success"`
	Stats      *Stats    `json:"stats,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"durationMs"`
}

// Status is the sync state reported to clients.
type Status struct {
	InProgress bool       `json:"inProgress"`
	LastSync   *RunRecord `json:"lastSync"`
}

// Coordinator guarantees at most one sync runs at a time in this process
// and remembers the outcome of the last one.
type Coordinator struct {
	syncer   Syncer
	recorder Recorder
	purger   Purger
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	last    *RunRecord
}

// CoordinatorOption configures optional collaborators.
type CoordinatorOption func(*Coordinator)

// WithRecorder stores every finished run.
func WithRecorder(r Recorder) CoordinatorOption {
	return func(c *Coordinator) { c.recorder = r }
}

// WithPurger clears cached responses after each successful run.
func WithPurger(p Purger) CoordinatorOption {
	return func(c *Coordinator) { c.purger = p }
}

// NewCoordinator wraps a Syncer with the single-flight guard.
func NewCoordinator(s Syncer, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{syncer: s, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a sync unless one is already running, in which case it
// returns ErrSyncInProgress immediately.
func (c *Coordinator) Run(ctx context.Context, trigger string, phase Phase) (RunRecord, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return RunRecord{}, ErrSyncInProgress
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	start := time.Now()
	c.logger.Info("Sync started", "trigger", trigger, "phase", phase)

	stats, err := c.syncer.Sync(ctx, phase)

	run := RunRecord{
		Timestamp:  time.Now().UTC(),
		Trigger:    trigger,
		Phase:      phase,
		Success:    err == nil,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		run.Error = err.Error()
		c.logger.Error("Sync failed", "trigger", trigger, "error", err, "duration_ms", run.DurationMS)
	} else {
		run.Stats = &stats
		c.logger.Info("Sync complete", "trigger", trigger, "summary", stats.Summary(), "duration_ms", run.DurationMS)
		if c.purger != nil {
			c.purger.Purge()
		}
	}

	c.mu.Lock()
	c.last = &run
	c.mu.Unlock()

	if c.recorder != nil {
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		if rerr := c.recorder.Record(recCtx, run); rerr != nil {
			c.logger.Warn("Recording sync run failed", "error", rerr)
		}
		cancel()
	}

	return run, err
}

// Status reports whether a sync is running and the last result.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{InProgress: c.running}
	if c.last != nil {
		last := *c.last
		st.LastSync = &last
	}
	return st
}
