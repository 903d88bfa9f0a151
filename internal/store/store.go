// Package store runs catalog queries and writes against MongoDB.
//
// Listings execute a compiled query.Plan as a single aggregation whose
// $facet stage returns the page and the total count together. Writes are
// whole-document replacements keyed by the upstream id.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pokevault/catalog-api/internal/config"
	"github.com/pokevault/catalog-api/internal/db"
	"github.com/pokevault/catalog-api/internal/query"
)

// ErrNotFound is returned when a lookup by id or a random pick finds nothing.
var ErrNotFound = errors.New("not found")

// Page is one page of a listing.
type Page[T any] struct {
	Data       []T              `json:"data"`
	Pagination query.Pagination `json:"pagination"`
}

// Catalog is the repository over the cards, sets and series collections.
type Catalog struct {
	cards   *mongo.Collection
	sets    *mongo.Collection
	series  *mongo.Collection
	timeout time.Duration
}

// New builds a Catalog on an open client.
func New(client *db.Client) *Catalog {
	return NewFromDatabase(client.Database(), client.Timeout())
}

// NewFromDatabase builds a Catalog on a database handle directly.
func NewFromDatabase(database *mongo.Database, timeout time.Duration) *Catalog {
	return &Catalog{
		cards:   database.Collection(config.CardsCollection),
		sets:    database.Collection(config.SetsCollection),
		series:  database.Collection(config.SeriesCollection),
		timeout: timeout,
	}
}

// collection maps a manage kind to its collection.
func (c *Catalog) collection(kind Kind) (*mongo.Collection, error) {
	switch kind {
	case KindCards:
		return c.cards, nil
	case KindSets:
		return c.sets, nil
	case KindSeries:
		return c.series, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// withTimeout applies the default operation timeout unless the caller
// already set a deadline.
func (c *Catalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// --------------------------------------------------------------------------
// Shared executors
// --------------------------------------------------------------------------

type facetResult[T any] struct {
	Data  []T `bson:"data"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// runPlan executes a compiled plan and decodes the single facet document.
func runPlan[T any](ctx context.Context, coll *mongo.Collection, p query.Plan) (Page[T], error) {
	page := Page[T]{Data: []T{}}

	cur, err := coll.Aggregate(ctx, p.Pipeline())
	if err != nil {
		return page, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	var out []facetResult[T]
	if err := cur.All(ctx, &out); err != nil {
		return page, fmt.Errorf("decode %s page: %w", coll.Name(), err)
	}

	var total int64
	if len(out) > 0 {
		if out[0].Data != nil {
			page.Data = out[0].Data
		}
		if len(out[0].Total) > 0 {
			total = out[0].Total[0].Count
		}
	}
	page.Pagination = query.NewPagination(p.Page, int(p.Limit), total)
	return page, nil
}

// findByID decodes the document with the given id, excluding _id.
func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	var out T
	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}})
	err := coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", coll.Name(), id, err)
	}
	return &out, nil
}

// sample picks one random document.
func sample[T any](ctx context.Context, coll *mongo.Collection) (*T, error) {
	pipe := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
	}
	cur, err := coll.Aggregate(ctx, pipe)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", coll.Name(), err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s sample: %w", coll.Name(), err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// replace upserts doc by id. Reports whether an existing document was
// replaced rather than inserted.
func replace(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("upsert %s: empty id", coll.Name())
	}
	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert %s %s: %w", coll.Name(), id, err)
	}
	return res.MatchedCount > 0, nil
}

// deleteByID removes the document with the given id. Reports whether one
// existed.
func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete %s %s: %w", coll.Name(), id, err)
	}
	return res.DeletedCount > 0, nil
}
