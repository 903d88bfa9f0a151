package seed

import (
	"strings"

	"github.com/pokevault/catalog-api/internal/catalog"
)

// Policy decides which upstream records are kept out of the catalog. The
// excluded product lines are TCG Pocket, the Trainer Kits and the
// McDonald's promotional sets.
type Policy struct {
	// SerieIDs are excluded serie ids, matched exactly.
	SerieIDs []string
	// NameTerms are lowercase substrings that disqualify a serie or set name.
	NameTerms []string
	// AssetMarker disqualifies any record whose image, logo or symbol URL
	// contains it.
	AssetMarker string
	// Rarities are lowercase card rarities that are never stored.
	Rarities map[string]struct{}
}

// DefaultRarities are the rarity names only used by TCG Pocket cards.
var DefaultRarities = []string{
	"un diamant",
	"deux diamants",
	"trois diamants",
	"quatre diamants",
	"une étoile",
	"deux étoiles",
	"trois étoiles",
	"un chromatique",
	"deux chromatiques",
	"couronne",
}

// DefaultPolicy returns the standard exclusion rules.
func DefaultPolicy() Policy {
	return Policy{
		SerieIDs:    []string{"tcgp", "tk", "mc"},
		NameTerms:   []string{"pocket", "kit", "mcdonald"},
		AssetMarker: "/tcgp/",
		Rarities:    rarityIndex(DefaultRarities),
	}
}

// WithRarities replaces the excluded rarity list. An empty list keeps the
// current one.
func (p Policy) WithRarities(rarities []string) Policy {
	if len(rarities) > 0 {
		p.Rarities = rarityIndex(rarities)
	}
	return p
}

func rarityIndex(list []string) map[string]struct{} {
	idx := make(map[string]struct{}, len(list))
	for _, r := range list {
		idx[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return idx
}

// ExcludeSerie reports whether a serie is disqualified.
func (p Policy) ExcludeSerie(s *catalog.Serie) bool {
	id := strings.ToLower(s.ID)
	return p.excludedSerieID(s.ID) ||
		strings.Contains(id, "tcgp") ||
		p.nameExcluded(s.Name) ||
		p.hasMarker(s.Logo)
}

// ExcludeSet reports whether a set is disqualified.
func (p Policy) ExcludeSet(s *catalog.Set) bool {
	if p.setIDExcluded(s.ID) || p.nameExcluded(s.Name) || p.hasMarker(s.Logo) || p.hasMarker(s.Symbol) {
		return true
	}
	return s.Serie != nil && p.excludedSerieID(s.Serie.ID)
}

// ExcludeCard reports whether a card is disqualified, either through its
// set or its rarity.
func (p Policy) ExcludeCard(c *catalog.Card) bool {
	if p.hasMarker(c.Image) {
		return true
	}
	if p.setIDExcluded(c.Set.ID) || p.nameExcluded(c.Set.Name) {
		return true
	}
	if c.Set.Serie != nil && p.excludedSerieID(c.Set.Serie.ID) {
		return true
	}
	if c.Rarity != "" {
		if _, ok := p.Rarities[strings.ToLower(c.Rarity)]; ok {
			return true
		}
	}
	return false
}

func (p Policy) excludedSerieID(id string) bool {
	for _, ex := range p.SerieIDs {
		if id == ex {
			return true
		}
	}
	return false
}

// setIDExcluded matches set ids like "tcgp-a1", "tk-bw-e" or "mcdonalds2019".
func (p Policy) setIDExcluded(id string) bool {
	id = strings.ToLower(id)
	return strings.Contains(id, "tcgp") ||
		strings.HasPrefix(id, "tk") ||
		strings.Contains(id, "mcdonald")
}

func (p Policy) nameExcluded(name string) bool {
	name = strings.ToLower(name)
	for _, term := range p.NameTerms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func (p Policy) hasMarker(u string) bool {
	return p.AssetMarker != "" && strings.Contains(u, p.AssetMarker)
}
