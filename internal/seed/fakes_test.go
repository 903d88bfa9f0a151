package seed

import (
	"context"
	"fmt"
	"sync"

	"github.com/pokevault/catalog-api/internal/catalog"
)

// fakeSource serves fixed records. Hooks let tests inject failures and
// delays per card.
type fakeSource struct {
	series []catalog.Serie
	sets   []catalog.Set
	cards  []catalog.Card

	listErr  error
	cardHook func(ctx context.Context, id string) error
}

func resumes[T any](items []T, id func(T) string) []catalog.Resume {
	out := make([]catalog.Resume, len(items))
	for i, it := range items {
		out[i] = catalog.Resume{ID: id(it)}
	}
	return out
}

func (f *fakeSource) ListSeries(context.Context) ([]catalog.Resume, error) {
	return resumes(f.series, func(s catalog.Serie) string { return s.ID }), nil
}

func (f *fakeSource) GetSerie(_ context.Context, id string) (*catalog.Serie, error) {
	for _, s := range f.series {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("serie %s: 404", id)
}

func (f *fakeSource) ListSets(context.Context) ([]catalog.Resume, error) {
	return resumes(f.sets, func(s catalog.Set) string { return s.ID }), nil
}

func (f *fakeSource) GetSet(_ context.Context, id string) (*catalog.Set, error) {
	for _, s := range f.sets {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("set %s: 404", id)
}

func (f *fakeSource) ListCards(context.Context) ([]catalog.Resume, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return resumes(f.cards, func(c catalog.Card) string { return c.ID }), nil
}

func (f *fakeSource) GetCard(ctx context.Context, id string) (*catalog.Card, error) {
	if f.cardHook != nil {
		if err := f.cardHook(ctx, id); err != nil {
			return nil, err
		}
	}
	for _, c := range f.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("card %s: 404", id)
}

// memStore is an in-memory Store keyed by id.
type memStore struct {
	mu     sync.Mutex
	series map[string]catalog.Serie
	sets   map[string]catalog.Set
	cards  map[string]catalog.Card
}

func newMemStore() *memStore {
	return &memStore{
		series: map[string]catalog.Serie{},
		sets:   map[string]catalog.Set{},
		cards:  map[string]catalog.Card{},
	}
}

func put[T any](mu *sync.Mutex, m map[string]T, id string, v T) (bool, error) {
	mu.Lock()
	defer mu.Unlock()
	_, existed := m[id]
	m[id] = v
	return existed, nil
}

func del[T any](mu *sync.Mutex, m map[string]T, id string) (bool, error) {
	mu.Lock()
	defer mu.Unlock()
	_, existed := m[id]
	delete(m, id)
	return existed, nil
}

func (m *memStore) UpsertSerie(_ context.Context, s *catalog.Serie) (bool, error) {
	return put(&m.mu, m.series, s.ID, *s)
}

func (m *memStore) DeleteSerie(_ context.Context, id string) (bool, error) {
	return del(&m.mu, m.series, id)
}

func (m *memStore) UpsertSet(_ context.Context, s *catalog.Set) (bool, error) {
	return put(&m.mu, m.sets, s.ID, *s)
}

func (m *memStore) DeleteSet(_ context.Context, id string) (bool, error) {
	return del(&m.mu, m.sets, id)
}

func (m *memStore) UpsertCard(_ context.Context, c *catalog.Card) (bool, error) {
	return put(&m.mu, m.cards, c.ID, *c)
}

func (m *memStore) DeleteCard(_ context.Context, id string) (bool, error) {
	return del(&m.mu, m.cards, id)
}

func (m *memStore) counts() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.series), len(m.sets), len(m.cards)
}

func sampleSource() *fakeSource {
	return &fakeSource{
		series: []catalog.Serie{
			{ID: "base", Name: "Base"},
			{ID: "sv", Name: "Écarlate et Violet"},
			{ID: "tcgp", Name: "Pokémon TCG Pocket"},
			{ID: "mc", Name: "McDonald's Collection"},
		},
		sets: []catalog.Set{
			{ID: "base1", Name: "Set de Base", Serie: &catalog.SerieSummary{ID: "base", Name: "Base"}},
			{ID: "sv01", Name: "Écarlate et Violet", Serie: &catalog.SerieSummary{ID: "sv", Name: "Écarlate et Violet"}},
			{ID: "A1", Name: "Puissance Génétique", Logo: "https://assets.tcgdex.net/fr/tcgp/A1/logo", Serie: &catalog.SerieSummary{ID: "tcgp"}},
			{ID: "tk-xy-n", Name: "Kit du Dresseur XY Nymphali", Serie: &catalog.SerieSummary{ID: "tk"}},
		},
		cards: []catalog.Card{
			{ID: "base1-58", Name: "Pikachu", Rarity: "Commune", Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}},
			{ID: "base1-14", Name: "Raichu", Rarity: "Rare", Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}},
			{ID: "sv01-063", Name: "Pikachu ex", Rarity: "Double rare", Set: catalog.CardSetSummary{ID: "sv01", Name: "Écarlate et Violet"}},
			{ID: "A1-094", Name: "Pikachu", Rarity: "Un Diamant", Set: catalog.CardSetSummary{ID: "A1", Name: "Puissance Génétique"}},
			{ID: "tk-xy-n-1", Name: "Nymphali", Rarity: "Commune", Set: catalog.CardSetSummary{ID: "tk-xy-n", Name: "Kit du Dresseur"}},
		},
	}
}
