package store

import (
	"context"
	"time"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/query"
)

// FindSeries runs the filtered serie listing.
func (c *Catalog) FindSeries(ctx context.Context, f query.SerieFilter) (Page[catalog.Serie], error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return runPlan[catalog.Serie](ctx, c.series, query.CompileSeries(f))
}

// SerieByID returns one serie or ErrNotFound.
func (c *Catalog) SerieByID(ctx context.Context, id string) (*catalog.Serie, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return findByID[catalog.Serie](ctx, c.series, id)
}

// RandomSerie returns one random serie or ErrNotFound when there are none.
func (c *Catalog) RandomSerie(ctx context.Context) (*catalog.Serie, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return sample[catalog.Serie](ctx, c.series)
}

// UpsertSerie replaces the stored serie with the same id, inserting when
// absent.
func (c *Catalog) UpsertSerie(ctx context.Context, serie *catalog.Serie) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	serie.UpdatedAt = time.Now().UTC()
	return replace(ctx, c.series, serie.ID, serie)
}

// DeleteSerie removes a serie by id.
func (c *Catalog) DeleteSerie(ctx context.Context, id string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, c.series, id)
}
