package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pokevault/catalog-api/internal/catalog"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncAllCountsAndExclusions(t *testing.T) {
	st := newMemStore()
	r := NewRunner(sampleSource(), st, Options{}, quietLogger())

	stats, err := r.SyncAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{
		Series: PhaseStats{Imported: 2, Excluded: 2},
		Sets:   PhaseStats{Imported: 2, Excluded: 2},
		Cards:  PhaseStats{Imported: 3, Excluded: 2},
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	if s, sets, c := st.counts(); s != 2 || sets != 2 || c != 3 {
		t.Errorf("stored = %d/%d/%d", s, sets, c)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	st := newMemStore()
	r := NewRunner(sampleSource(), st, Options{}, quietLogger())
	ctx := context.Background()

	first, err := r.SyncAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s1, sets1, c1 := st.counts()

	second, err := r.SyncAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s2, sets2, c2 := st.counts()

	if s1 != s2 || sets1 != sets2 || c1 != c2 {
		t.Errorf("counts changed: %d/%d/%d -> %d/%d/%d", s1, sets1, c1, s2, sets2, c2)
	}
	if first.Cards.Imported != second.Cards.Imported || first.Series.Imported != second.Series.Imported {
		t.Errorf("imported differs between runs: %+v vs %+v", first, second)
	}
	if first.Cards.Updated != 0 || second.Cards.Updated != second.Cards.Imported {
		t.Errorf("updated = %d then %d", first.Cards.Updated, second.Cards.Updated)
	}
}

func TestExcludedCardIsRemovedFromStore(t *testing.T) {
	st := newMemStore()
	// Imported by an earlier run, before its rarity was excluded.
	st.cards["A1-094"] = catalog.Card{ID: "A1-094", Name: "Pikachu"}

	r := NewRunner(sampleSource(), st, Options{}, quietLogger())
	if _, err := r.SyncCards(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.cards["A1-094"]; ok {
		t.Fatal("excluded card still stored")
	}
}

func TestPerItemErrorsDoNotAbort(t *testing.T) {
	src := sampleSource()
	src.cardHook = func(_ context.Context, id string) error {
		if id == "base1-14" {
			return errors.New("upstream 500")
		}
		return nil
	}
	r := NewRunner(src, newMemStore(), Options{}, quietLogger())

	stats, err := r.SyncCards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Errors != 1 || stats.Imported != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestListFailureAbortsPhase(t *testing.T) {
	src := sampleSource()
	src.listErr = errors.New("connection refused")
	r := NewRunner(src, newMemStore(), Options{}, quietLogger())

	stats, err := r.SyncAll(context.Background())
	if err == nil {
		t.Fatal("expected list error")
	}
	if !errors.Is(err, src.listErr) {
		t.Errorf("err = %v", err)
	}
	if stats.Series.Imported != 2 || stats.Cards.Imported != 0 {
		t.Errorf("earlier phases should be reported: %+v", stats)
	}
}

func TestCardBatchesAreBounded(t *testing.T) {
	const total, batch = 23, 5

	src := &fakeSource{}
	for i := 0; i < total; i++ {
		src.cards = append(src.cards, catalog.Card{ID: fmt.Sprintf("c-%02d", i), Set: catalog.CardSetSummary{ID: "base1"}})
	}

	var (
		inFlight, peak atomic.Int32
		mu             sync.Mutex
		started        = map[string]int{}
		finished       = map[string]int{}
		seq            int
	)
	src.cardHook = func(_ context.Context, id string) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		mu.Lock()
		seq++
		started[id] = seq
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		seq++
		finished[id] = seq
		mu.Unlock()
		inFlight.Add(-1)
		return nil
	}

	r := NewRunner(src, newMemStore(), Options{BatchSize: batch}, quietLogger())
	stats, err := r.SyncCards(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Imported != total {
		t.Fatalf("imported = %d", stats.Imported)
	}
	if p := peak.Load(); p > batch {
		t.Errorf("peak concurrency = %d, want <= %d", p, batch)
	}

	// Every item of batch N finishes before any item of batch N+1 starts.
	for i := batch; i < total; i++ {
		next := started[fmt.Sprintf("c-%02d", i)]
		prevBatch := (i/batch - 1) * batch
		for j := prevBatch; j < prevBatch+batch; j++ {
			if finished[fmt.Sprintf("c-%02d", j)] > next {
				t.Fatalf("c-%02d started before c-%02d finished", i, j)
			}
		}
	}
}

func TestItemTimeoutIsPerItemError(t *testing.T) {
	src := sampleSource()
	src.cardHook = func(ctx context.Context, id string) error {
		if id != "sv01-063" {
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	}
	r := NewRunner(src, newMemStore(), Options{ItemTimeout: 20 * time.Millisecond}, quietLogger())

	stats, err := r.SyncCards(context.Background())
	if err != nil {
		t.Fatalf("timeout must not abort the phase: %v", err)
	}
	if stats.Errors != 1 || stats.Imported != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCancelledRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(sampleSource(), newMemStore(), Options{}, quietLogger())
	if _, err := r.SyncSeries(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParsePhase(t *testing.T) {
	for in, want := range map[string]Phase{"": PhaseAll, "Cards": PhaseCards, " sets ": PhaseSets} {
		got, err := ParsePhase(in)
		if err != nil || got != want {
			t.Errorf("ParsePhase(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePhase("decks"); err == nil {
		t.Error("expected error")
	}
}
