package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pokevault/catalog-api/internal/config"
)

// Derived fields exist only inside a pipeline and are projected out of the
// returned documents.
const (
	fieldHP          = "_hpValue"
	fieldRetreat     = "_retreatValue"
	fieldLocalID     = "_localIdValue"
	fieldReleaseDate = "_releaseDate"
	fieldSetJoin     = "_set"
)

// SetResolver resolves a serie to the ids of its sets.
type SetResolver interface {
	SetIDsForSerie(ctx context.Context, serieID string) ([]string, error)
}

// Plan is a compiled listing query. The executor runs Pipeline() against
// the target collection and reads one facet document back.
type Plan struct {
	Match   bson.D
	Joins   []bson.D
	Derived bson.D
	Range   bson.D
	Sort    bson.D
	Skip    int64
	Limit   int64

	// Hidden lists the internal fields removed from each result.
	Hidden []string

	Page int
}

// Pipeline renders the plan. Results and the total count come from the
// same $facet stage, so both reflect one pass over the matched documents.
func (p Plan) Pipeline() mongo.Pipeline {
	match := p.Match
	if match == nil {
		match = bson.D{}
	}
	pipe := mongo.Pipeline{{{Key: "$match", Value: match}}}
	pipe = append(pipe, p.Joins...)
	if len(p.Derived) > 0 {
		pipe = append(pipe, bson.D{{Key: "$addFields", Value: p.Derived}})
	}
	if len(p.Range) > 0 {
		pipe = append(pipe, bson.D{{Key: "$match", Value: p.Range}})
	}

	project := bson.D{{Key: "_id", Value: 0}}
	for _, f := range p.Hidden {
		project = append(project, bson.E{Key: f, Value: 0})
	}

	data := bson.A{}
	if len(p.Sort) > 0 {
		data = append(data, bson.D{{Key: "$sort", Value: p.Sort}})
	}
	data = append(data,
		bson.D{{Key: "$skip", Value: p.Skip}},
		bson.D{{Key: "$limit", Value: p.Limit}},
		bson.D{{Key: "$project", Value: project}},
	)

	pipe = append(pipe, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "data", Value: data},
		{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
	}}})
	return pipe
}

// Pagination is the page envelope returned with every listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count; pages is 0 when nothing matched.
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if total > 0 && limit > 0 {
		p.Pages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}

// --------------------------------------------------------------------------
// Compilation
// --------------------------------------------------------------------------

// CompileCards builds the card listing plan. The boolean is false when a
// serie filter resolved to no sets, in which case the caller returns an
// empty page without querying cards at all.
func CompileCards(ctx context.Context, f CardFilter, sets SetResolver) (Plan, bool, error) {
	var serieSets []string
	if f.SetID == "" && f.SerieID != "" {
		ids, err := sets.SetIDsForSerie(ctx, f.SerieID)
		if err != nil {
			return Plan{}, false, fmt.Errorf("resolve serie %s: %w", f.SerieID, err)
		}
		if len(ids) == 0 {
			return Plan{}, false, nil
		}
		serieSets = ids
	}

	p := newPlan(f.Page, f.Limit)
	p.Match = BuildCardMatch(f, serieSets)
	p.Range = BuildRangeMatch(f)

	if f.HP.IsSet() || f.Sort.Field == "hp" {
		p.derive(fieldHP, numericExpr("hp"))
	}
	if f.Retreat.IsSet() {
		p.derive(fieldRetreat, retreatExpr("retreat"))
	}

	dir := f.Sort.direction()
	switch f.Sort.Field {
	case "hp":
		p.Sort = bson.D{{Key: fieldHP, Value: dir}, {Key: "name", Value: 1}, {Key: "id", Value: 1}}
	case "number", "localId":
		p.derive(fieldLocalID, numericExpr("localId"))
		p.Sort = bson.D{{Key: fieldLocalID, Value: dir}, {Key: "localId", Value: dir}, {Key: "name", Value: 1}, {Key: "id", Value: 1}}
	case "releaseDate":
		p.Joins = append(p.Joins, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.SetsCollection},
			{Key: "localField", Value: "set.id"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: fieldSetJoin},
		}}})
		p.Hidden = append(p.Hidden, fieldSetJoin)
		p.derive(fieldReleaseDate, bson.D{{Key: "$arrayElemAt", Value: bson.A{"$" + fieldSetJoin + ".releaseDate", 0}}})
		p.Sort = bson.D{{Key: fieldReleaseDate, Value: dir}, {Key: "name", Value: 1}, {Key: "id", Value: 1}}
	default:
		p.Sort = bson.D{{Key: "name", Value: dir}, {Key: "id", Value: 1}}
	}
	return p, true, nil
}

// CompileSets builds the set listing plan.
func CompileSets(f SetFilter) Plan {
	p := newPlan(f.Page, f.Limit)

	var conds bson.A
	if f.Name != "" {
		conds = append(conds, bson.D{{Key: "name", Value: containsFold(f.Name)}})
	}
	if f.SerieID != "" {
		conds = append(conds, bson.D{{Key: "serie.id", Value: f.SerieID}})
	}
	p.Match = and(conds)

	dir := f.Sort.direction()
	switch f.Sort.Field {
	case "releaseDate":
		p.Sort = bson.D{{Key: "releaseDate", Value: dir}, {Key: "name", Value: 1}, {Key: "id", Value: 1}}
	case "id":
		p.Sort = bson.D{{Key: "id", Value: dir}}
	default:
		p.Sort = bson.D{{Key: "name", Value: dir}, {Key: "id", Value: 1}}
	}
	return p
}

// CompileSeries builds the serie listing plan.
func CompileSeries(f SerieFilter) Plan {
	p := newPlan(f.Page, f.Limit)
	if f.Name != "" {
		p.Match = bson.D{{Key: "name", Value: containsFold(f.Name)}}
	} else {
		p.Match = bson.D{}
	}

	dir := f.Sort.direction()
	if f.Sort.Field == "id" {
		p.Sort = bson.D{{Key: "id", Value: dir}}
	} else {
		p.Sort = bson.D{{Key: "name", Value: dir}, {Key: "id", Value: 1}}
	}
	return p
}

func newPlan(page, limit int) Plan {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Plan{
		Page:  page,
		Skip:  int64(page-1) * int64(limit),
		Limit: int64(limit),
	}
}

func (p *Plan) derive(field string, expr bson.D) {
	p.Derived = append(p.Derived, bson.E{Key: field, Value: expr})
	p.Hidden = append(p.Hidden, field)
}
