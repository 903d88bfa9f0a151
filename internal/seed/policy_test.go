package seed

import (
	"testing"
	"time"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/config"
)

func TestExcludeSerie(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		serie catalog.Serie
		want  bool
	}{
		{catalog.Serie{ID: "sv", Name: "Écarlate et Violet"}, false},
		{catalog.Serie{ID: "tcgp", Name: "Pokémon TCG Pocket"}, true},
		{catalog.Serie{ID: "tk", Name: "Kits du Dresseur"}, true},
		{catalog.Serie{ID: "mc", Name: "Collection"}, true},
		{catalog.Serie{ID: "tcgp2", Name: "Future"}, true},
		{catalog.Serie{ID: "x", Name: "McDonald's"}, true},
		{catalog.Serie{ID: "y", Name: "Y", Logo: "https://assets.tcgdex.net/fr/tcgp/logo"}, true},
	}
	for _, tt := range tests {
		if got := p.ExcludeSerie(&tt.serie); got != tt.want {
			t.Errorf("ExcludeSerie(%+v) = %v, want %v", tt.serie, got, tt.want)
		}
	}
}

func TestExcludeSet(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		set  catalog.Set
		want bool
	}{
		{catalog.Set{ID: "base1", Name: "Set de Base", Serie: &catalog.SerieSummary{ID: "base"}}, false},
		{catalog.Set{ID: "base1", Name: "Set de Base"}, false},
		{catalog.Set{ID: "tk-bw-e", Name: "Trainer"}, true},
		{catalog.Set{ID: "2019mcdonalds", Name: "Promo"}, true},
		{catalog.Set{ID: "p1", Name: "Promo", Symbol: "https://assets/tcgp/P-A/symbol"}, true},
		{catalog.Set{ID: "p2", Name: "Promo", Serie: &catalog.SerieSummary{ID: "mc"}}, true},
		{catalog.Set{ID: "p3", Name: "Pocket Promos"}, true},
	}
	for _, tt := range tests {
		if got := p.ExcludeSet(&tt.set); got != tt.want {
			t.Errorf("ExcludeSet(%s) = %v, want %v", tt.set.ID, got, tt.want)
		}
	}
}

func TestExcludeCard(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name string
		card catalog.Card
		want bool
	}{
		{"regular", catalog.Card{Rarity: "Rare", Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}}, false},
		{"pocket rarity", catalog.Card{Rarity: "Une Étoile", Set: catalog.CardSetSummary{ID: "x"}}, true},
		{"crown", catalog.Card{Rarity: "couronne", Set: catalog.CardSetSummary{ID: "x"}}, true},
		{"pocket image", catalog.Card{Image: "https://assets.tcgdex.net/fr/tcgp/A1/001", Set: catalog.CardSetSummary{ID: "x"}}, true},
		{"trainer kit set", catalog.Card{Set: catalog.CardSetSummary{ID: "tk-xy-n"}}, true},
		{"excluded serie", catalog.Card{Set: catalog.CardSetSummary{ID: "x", Serie: &catalog.SerieSummary{ID: "tcgp"}}}, true},
	}
	for _, tt := range tests {
		if got := p.ExcludeCard(&tt.card); got != tt.want {
			t.Errorf("%s: ExcludeCard = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithRarities(t *testing.T) {
	p := DefaultPolicy().WithRarities([]string{" Secret "})
	if !p.ExcludeCard(&catalog.Card{Rarity: "SECRET"}) {
		t.Error("custom rarity should be excluded")
	}
	if p.ExcludeCard(&catalog.Card{Rarity: "Couronne"}) {
		t.Error("custom list replaces the default one")
	}
	if len(DefaultPolicy().WithRarities(nil).Rarities) != len(DefaultRarities) {
		t.Error("empty list should keep the defaults")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Config{
		SyncCardBatchSize:    7,
		SyncItemTimeout:      3 * time.Second,
		SyncExcludedRarities: []string{"Commune"},
	})
	if opts.BatchSize != 7 || opts.ItemTimeout != 3*time.Second {
		t.Errorf("opts = %+v", opts)
	}
	if _, ok := opts.Policy.Rarities["commune"]; !ok || len(opts.Policy.Rarities) != 1 {
		t.Errorf("rarities = %v", opts.Policy.Rarities)
	}
	if len(opts.Policy.SerieIDs) == 0 {
		t.Error("serie exclusions should keep their defaults")
	}
}
