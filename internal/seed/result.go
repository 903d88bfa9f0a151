// Package seed mirrors the upstream catalog into the document store.
package seed

import "fmt"

// PhaseStats tracks counts from one sync phase.
//
// Imported counts every successful upsert, so two runs over unchanged
// upstream data report the same number. Updated is the subset of those that
// replaced an existing document.
type PhaseStats struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Errors   int `json:"errors"`
	Excluded int `json:"excluded"`
}

// Add merges another PhaseStats into this one.
func (s *PhaseStats) Add(other PhaseStats) {
	s.Imported += other.Imported
	s.Updated += other.Updated
	s.Errors += other.Errors
	s.Excluded += other.Excluded
}

func (s PhaseStats) String() string {
	return fmt.Sprintf("imported=%d updated=%d errors=%d excluded=%d",
		s.Imported, s.Updated, s.Errors, s.Excluded)
}

// Stats aggregates the three phases of a sync.
type Stats struct {
	Series PhaseStats `json:"series"`
	Sets   PhaseStats `json:"sets"`
	Cards  PhaseStats `json:"cards"`
}

// Errors returns the total per-item error count.
func (s Stats) Errors() int {
	return s.Series.Errors + s.Sets.Errors + s.Cards.Errors
}

// Summary returns a human-readable summary of the sync.
func (s Stats) Summary() string {
	return fmt.Sprintf("series[%s] sets[%s] cards[%s]", s.Series, s.Sets, s.Cards)
}
