package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/query"
)

// DefaultSearchLimit is the quick-search result count when none is given.
const DefaultSearchLimit = 10

// searchProjection keeps the quick-search payload small.
var searchProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "id", Value: 1},
	{Key: "name", Value: 1},
	{Key: "image", Value: 1},
	{Key: "set", Value: 1},
	{Key: "types", Value: 1},
	{Key: "rarity", Value: 1},
	{Key: "hp", Value: 1},
}

// FindCards runs the filtered card listing. A serie filter that owns no
// sets yields an empty page without querying cards.
func (c *Catalog) FindCards(ctx context.Context, f query.CardFilter) (Page[catalog.Card], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	plan, ok, err := query.CompileCards(ctx, f, c)
	if err != nil {
		return Page[catalog.Card]{}, err
	}
	if !ok {
		return Page[catalog.Card]{
			Data:       []catalog.Card{},
			Pagination: query.NewPagination(f.Page, f.Limit, 0),
		}, nil
	}
	return runPlan[catalog.Card](ctx, c.cards, plan)
}

// CardByID returns one card or ErrNotFound.
func (c *Catalog) CardByID(ctx context.Context, id string) (*catalog.Card, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return findByID[catalog.Card](ctx, c.cards, id)
}

// SearchCards is the name quick search used by autocomplete.
func (c *Catalog) SearchCards(ctx context.Context, term string, limit int) ([]catalog.Card, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > query.MaxLimit {
		limit = query.MaxLimit
	}
	opts := options.Find().
		SetProjection(searchProjection).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := c.cards.Find(ctx, query.NameContains(term), opts)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	out := []catalog.Card{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode card search: %w", err)
	}
	return out, nil
}

// RandomCard returns one random card or ErrNotFound when there are none.
func (c *Catalog) RandomCard(ctx context.Context) (*catalog.Card, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return sample[catalog.Card](ctx, c.cards)
}

// CardMetadata lists the distinct rarities and legality formats present in
// the collection, both sorted.
func (c *Catalog) CardMetadata(ctx context.Context) (catalog.Metadata, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	meta := catalog.Metadata{Rarities: []string{}, LegalFormats: []string{}}

	raw, err := c.cards.Distinct(ctx, "rarity", bson.D{})
	if err != nil {
		return meta, fmt.Errorf("distinct rarities: %w", err)
	}
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			meta.Rarities = append(meta.Rarities, s)
		}
	}
	sort.Strings(meta.Rarities)

	pipe := mongo.Pipeline{
		{{Key: "$project", Value: bson.D{{Key: "formats", Value: bson.D{{Key: "$objectToArray", Value: "$legal"}}}}}},
		{{Key: "$unwind", Value: "$formats"}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$formats.k"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := c.cards.Aggregate(ctx, pipe)
	if err != nil {
		return meta, fmt.Errorf("aggregate legal formats: %w", err)
	}
	var formats []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &formats); err != nil {
		return meta, fmt.Errorf("decode legal formats: %w", err)
	}
	for _, f := range formats {
		if f.ID != "" {
			meta.LegalFormats = append(meta.LegalFormats, f.ID)
		}
	}
	return meta, nil
}

// UpsertCard replaces the stored card with the same id, inserting when
// absent. Reports whether an existing card was replaced.
func (c *Catalog) UpsertCard(ctx context.Context, card *catalog.Card) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	card.UpdatedAt = time.Now().UTC()
	return replace(ctx, c.cards, card.ID, card)
}

// DeleteCard removes a card by id.
func (c *Catalog) DeleteCard(ctx context.Context, id string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, c.cards, id)
}
