package store

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Kind names a catalog collection for maintenance commands.
type Kind string

const (
	KindCards  Kind = "cards"
	KindSets   Kind = "sets"
	KindSeries Kind = "series"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCards, KindSets, KindSeries:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q (want cards, sets or series)", s)
}

// tcgpMarker identifies TCG Pocket assets in image and logo URLs.
var tcgpMarker = primitive.Regex{Pattern: "/tcgp/", Options: ""}

// ManageFilter builds the selection for a maintenance command. Supported
// filters are "tcgp", "set:<id>" and "serie:<id>". Cards do not carry their
// serie, so a serie filter on cards is resolved through the serie's sets.
func (c *Catalog) ManageFilter(ctx context.Context, kind Kind, arg string) (bson.D, error) {
	arg = strings.TrimSpace(arg)
	if id, ok := strings.CutPrefix(arg, "serie:"); ok && id != "" && kind == KindCards {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()
		ids, err := c.SetIDsForSerie(ctx, id)
		if err != nil {
			return nil, err
		}
		return bson.D{{Key: "set.id", Value: bson.D{{Key: "$in", Value: ids}}}}, nil
	}
	return manageFilter(kind, arg)
}

func manageFilter(kind Kind, arg string) (bson.D, error) {
	if arg == "tcgp" {
		switch kind {
		case KindCards:
			return bson.D{{Key: "image", Value: tcgpMarker}}, nil
		case KindSets:
			return bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "logo", Value: tcgpMarker}},
				bson.D{{Key: "symbol", Value: tcgpMarker}},
				bson.D{{Key: "serie.id", Value: "tcgp"}},
			}}}, nil
		case KindSeries:
			return bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "id", Value: "tcgp"}},
				bson.D{{Key: "logo", Value: tcgpMarker}},
			}}}, nil
		}
	}

	if id, ok := strings.CutPrefix(arg, "set:"); ok && id != "" {
		switch kind {
		case KindCards:
			return bson.D{{Key: "set.id", Value: id}}, nil
		case KindSets:
			return bson.D{{Key: "id", Value: id}}, nil
		}
		return nil, fmt.Errorf("filter %q does not apply to %s", arg, kind)
	}

	if id, ok := strings.CutPrefix(arg, "serie:"); ok && id != "" {
		switch kind {
		case KindSets:
			return bson.D{{Key: "serie.id", Value: id}}, nil
		case KindSeries:
			return bson.D{{Key: "id", Value: id}}, nil
		}
	}

	return nil, fmt.Errorf("unknown filter %q (want tcgp, set:<id> or serie:<id>)", arg)
}

// Count reports how many documents of kind match filter.
func (c *Catalog) Count(ctx context.Context, kind Kind, filter bson.D) (int64, error) {
	coll, err := c.collection(kind)
	if err != nil {
		return 0, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// ManagedItem is the short listing row printed by maintenance commands.
type ManagedItem struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Image string `bson:"image,omitempty"`
	Logo  string `bson:"logo,omitempty"`
}

// List returns up to limit matching documents, ordered by id.
func (c *Catalog) List(ctx context.Context, kind Kind, filter bson.D, limit int64) ([]ManagedItem, error) {
	coll, err := c.collection(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "id", Value: 1}, {Key: "name", Value: 1}, {Key: "image", Value: 1}, {Key: "logo", Value: 1}}).
		SetSort(bson.D{{Key: "id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := []ManagedItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}
	return out, nil
}

// DeleteMany removes every matching document and reports how many went.
func (c *Catalog) DeleteMany(ctx context.Context, kind Kind, filter bson.D) (int64, error) {
	coll, err := c.collection(kind)
	if err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("refusing to delete every %s without a filter", kind)
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", kind, err)
	}
	return res.DeletedCount, nil
}
