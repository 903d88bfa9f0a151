package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/query"
)

var byReleaseDate = bson.D{{Key: "releaseDate", Value: 1}, {Key: "name", Value: 1}, {Key: "id", Value: 1}}

// FindSets runs the filtered set listing.
func (c *Catalog) FindSets(ctx context.Context, f query.SetFilter) (Page[catalog.Set], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return runPlan[catalog.Set](ctx, c.sets, query.CompileSets(f))
}

// SetByID returns one set or ErrNotFound.
func (c *Catalog) SetByID(ctx context.Context, id string) (*catalog.Set, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return findByID[catalog.Set](ctx, c.sets, id)
}

// SetIDsForSerie resolves a serie to the ids of its sets.
func (c *Catalog) SetIDsForSerie(ctx context.Context, serieID string) ([]string, error) {
	raw, err := c.sets.Distinct(ctx, "id", bson.D{{Key: "serie.id", Value: serieID}})
	if err != nil {
		return nil, fmt.Errorf("distinct sets of serie %s: %w", serieID, err)
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

// SetsBySerie returns every set of a serie, oldest first.
func (c *Catalog) SetsBySerie(ctx context.Context, serieID string) ([]catalog.Set, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}}).
		SetSort(byReleaseDate)
	cur, err := c.sets.Find(ctx, bson.D{{Key: "serie.id", Value: serieID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sets of serie %s: %w", serieID, err)
	}
	out := []catalog.Set{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode sets of serie %s: %w", serieID, err)
	}
	return out, nil
}

// SetsGroupedBySeries groups every set under its serie. Groups are sorted
// by serie name and sets inside a group by release date. Serie details come
// from the series collection when present, otherwise from the summary
// embedded in the sets.
func (c *Catalog) SetsGroupedBySeries(ctx context.Context) ([]catalog.SeriesGroup, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}}).
		SetSort(byReleaseDate)
	cur, err := c.sets.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sets: %w", err)
	}
	var sets []catalog.Set
	if err := cur.All(ctx, &sets); err != nil {
		return nil, fmt.Errorf("decode sets: %w", err)
	}

	scur, err := c.series.Find(ctx, bson.D{}, options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}}))
	if err != nil {
		return nil, fmt.Errorf("find series: %w", err)
	}
	var series []catalog.Serie
	if err := scur.All(ctx, &series); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}

	return GroupSets(sets, series), nil
}

// GroupSets builds the by-series listing from already loaded documents.
// Sets keep their input order within a group.
func GroupSets(sets []catalog.Set, series []catalog.Serie) []catalog.SeriesGroup {
	known := make(map[string]catalog.SerieSummary, len(series))
	for _, s := range series {
		known[s.ID] = s.Summary()
	}

	index := make(map[string]int)
	groups := []catalog.SeriesGroup{}
	for _, set := range sets {
		var summary catalog.SerieSummary
		if set.Serie != nil {
			summary = *set.Serie
		}
		if full, ok := known[summary.ID]; ok {
			summary = full
		}
		i, ok := index[summary.ID]
		if !ok {
			i = len(groups)
			index[summary.ID] = i
			groups = append(groups, catalog.SeriesGroup{Serie: summary, Sets: []catalog.Set{}})
		}
		groups[i].Sets = append(groups[i].Sets, set)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Serie.Name < groups[b].Serie.Name
	})
	return groups
}

// RandomSet returns one random set or ErrNotFound when there are none.
func (c *Catalog) RandomSet(ctx context.Context) (*catalog.Set, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return sample[catalog.Set](ctx, c.sets)
}

// UpsertSet replaces the stored set with the same id, inserting when absent.
func (c *Catalog) UpsertSet(ctx context.Context, set *catalog.Set) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	set.UpdatedAt = time.Now().UTC()
	return replace(ctx, c.sets, set.ID, set)
}

// DeleteSet removes a set by id.
func (c *Catalog) DeleteSet(ctx context.Context, id string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, c.sets, id)
}
