// Package query turns raw HTTP query parameters into document-store
// pipelines for the card, set and serie listings.
//
// Parsing is lenient: missing or malformed filters are dropped, never
// rejected. Everything the pipelines need is resolved once into typed
// filter structs at the boundary.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	MaxLimit          = 500
	DefaultCardLimit  = 20
	DefaultSetLimit   = 50
	DefaultSerieLimit = 50

	// maxPage keeps the computed skip inside int64.
	maxPage = math.MaxInt32

	defaultLegalStatus = "legal"
)

// Range is an optional numeric interval. Nil bounds are open.
type Range struct {
	Min *float64
	Max *float64
}

// IsSet reports whether either bound is present.
func (r Range) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// Sort is a parsed sort parameter ("name", "-hp", ...).
type Sort struct {
	Field string
	Desc  bool
}

func (s Sort) direction() int {
	if s.Desc {
		return -1
	}
	return 1
}

// CardFilter is the normalized form of the card listing parameters.
type CardFilter struct {
	Page  int
	Limit int

	Name        string
	Types       []string
	Rarity      string
	SetID       string
	SerieID     string
	HP          Range
	Retreat     Range
	Weaknesses  []string
	Resistances []string
	Illustrator string
	DexID       string
	Legalities  []string
	LegalStatus string

	Sort Sort
}

// SetFilter is the normalized form of the set listing parameters.
type SetFilter struct {
	Page    int
	Limit   int
	Name    string
	SerieID string
	Sort    Sort
}

// SerieFilter is the normalized form of the serie listing parameters.
type SerieFilter struct {
	Page  int
	Limit int
	Name  string
	Sort  Sort
}

// ParseCardFilter normalizes the card listing query string.
func ParseCardFilter(q url.Values) CardFilter {
	f := CardFilter{
		Page:  ClampPage(q.Get("page")),
		Limit: ClampLimit(q.Get("limit"), DefaultCardLimit),

		Name:        strings.TrimSpace(q.Get("name")),
		Types:       Tokens(q, "type", "types"),
		Rarity:      strings.TrimSpace(q.Get("rarity")),
		SetID:       strings.TrimSpace(q.Get("setId")),
		SerieID:     strings.TrimSpace(q.Get("serieId")),
		HP:          Range{Min: numberParam(q, "hpMin"), Max: numberParam(q, "hpMax")},
		Retreat:     Range{Min: numberParam(q, "retreatMin"), Max: numberParam(q, "retreatMax")},
		Weaknesses:  Tokens(q, "weakness", "weaknesses"),
		Resistances: Tokens(q, "resistance", "resistances"),
		Illustrator: firstParam(q, "illustrator", "artist"),
		DexID:       firstParam(q, "dexId", "pokedex"),
		Legalities:  Tokens(q, "legality", "legalities"),
		LegalStatus: firstParam(q, "legalStatus"),

		Sort: ParseSort(q.Get("sort"), "name"),
	}
	if f.LegalStatus == "" {
		f.LegalStatus = defaultLegalStatus
	}
	// An exact hp collapses any range to that single value.
	if hp := numberParam(q, "hp"); hp != nil {
		f.HP = Range{Min: hp, Max: hp}
	}
	return f
}

// ParseSetFilter normalizes the set listing query string.
func ParseSetFilter(q url.Values) SetFilter {
	return SetFilter{
		Page:    ClampPage(q.Get("page")),
		Limit:   ClampLimit(q.Get("limit"), DefaultSetLimit),
		Name:    strings.TrimSpace(q.Get("name")),
		SerieID: strings.TrimSpace(q.Get("serieId")),
		Sort:    ParseSort(q.Get("sort"), "releaseDate"),
	}
}

// ParseSerieFilter normalizes the serie listing query string.
func ParseSerieFilter(q url.Values) SerieFilter {
	return SerieFilter{
		Page:  ClampPage(q.Get("page")),
		Limit: ClampLimit(q.Get("limit"), DefaultSerieLimit),
		Name:  strings.TrimSpace(q.Get("name")),
		Sort:  ParseSort(q.Get("sort"), "name"),
	}
}

// Tokens merges every value of the given parameter aliases, splitting
// comma-joined values. The result is trimmed, non-empty and deduplicated,
// in first-seen order.
func Tokens(q url.Values, keys ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, key := range keys {
		for _, raw := range q[key] {
			for _, part := range strings.Split(raw, ",") {
				tok := strings.TrimSpace(part)
				if tok == "" {
					continue
				}
				if _, dup := seen[tok]; dup {
					continue
				}
				seen[tok] = struct{}{}
				out = append(out, tok)
			}
		}
	}
	return out
}

// ParseNumber parses a float, reporting false for empty, malformed or
// non-finite input.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ClampPage returns the requested page, at least 1.
func ClampPage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxPage {
		return maxPage
	}
	return n
}

// ClampLimit returns the requested page size within [1, MaxLimit].
// Missing or malformed input yields def.
func ClampLimit(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		n = def
	}
	switch {
	case n < 1:
		return 1
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// ParseSort reads "field" or "-field"; empty input yields def ascending.
func ParseSort(raw, def string) Sort {
	raw = strings.TrimSpace(raw)
	s := Sort{Field: def}
	if strings.HasPrefix(raw, "-") {
		s.Desc = true
		raw = strings.TrimSpace(raw[1:])
	}
	if raw != "" {
		s.Field = raw
	}
	return s
}

func numberParam(q url.Values, key string) *float64 {
	f, ok := ParseNumber(q.Get(key))
	if !ok {
		return nil
	}
	return &f
}

func firstParam(q url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}
