package query

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson"
)

type stubResolver struct {
	ids   []string
	err   error
	calls int
}

func (s *stubResolver) SetIDsForSerie(_ context.Context, _ string) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

func stageNames(p Plan) []string {
	var out []string
	for _, stage := range p.Pipeline() {
		out = append(out, stage[0].Key)
	}
	return out
}

func TestCompileCardsDefaultPipeline(t *testing.T) {
	p, ok, err := CompileCards(context.Background(), CardFilter{Page: 3, Limit: 20, Sort: Sort{Field: "name"}}, &stubResolver{})
	if err != nil || !ok {
		t.Fatalf("CompileCards: ok=%v err=%v", ok, err)
	}
	if p.Skip != 40 || p.Limit != 20 {
		t.Errorf("skip/limit = %d/%d", p.Skip, p.Limit)
	}
	if got, want := stageNames(p), []string{"$match", "$facet"}; !reflect.DeepEqual(got, want) {
		t.Errorf("stages = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(p.Sort, bson.D{{Key: "name", Value: 1}, {Key: "id", Value: 1}}) {
		t.Errorf("sort = %v", p.Sort)
	}
}

func TestCompileCardsSerieWithoutSetsShortCircuits(t *testing.T) {
	r := &stubResolver{}
	_, ok, err := CompileCards(context.Background(), CardFilter{SerieID: "empty", Page: 1, Limit: 20}, r)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected short-circuit for a serie with no sets")
	}
	if r.calls != 1 {
		t.Errorf("resolver calls = %d", r.calls)
	}
}

func TestCompileCardsSetIDSkipsResolver(t *testing.T) {
	r := &stubResolver{}
	_, ok, err := CompileCards(context.Background(), CardFilter{SetID: "base1", SerieID: "base", Page: 1, Limit: 20}, r)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if r.calls != 0 {
		t.Errorf("resolver should not be consulted when setId is given")
	}
}

func TestCompileCardsResolverError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := CompileCards(context.Background(), CardFilter{SerieID: "base", Page: 1, Limit: 20}, &stubResolver{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestCompileCardsHPRangeDerivesView(t *testing.T) {
	f := CardFilter{Page: 1, Limit: 20, HP: Range{Min: floatPtr(100)}, Retreat: Range{Max: floatPtr(1)}, Sort: Sort{Field: "name"}}
	p, _, err := CompileCards(context.Background(), f, &stubResolver{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := stageNames(p), []string{"$match", "$addFields", "$match", "$facet"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(p.Hidden, []string{fieldHP, fieldRetreat}) {
		t.Errorf("hidden = %v", p.Hidden)
	}
}

func TestCompileCardsSorts(t *testing.T) {
	tests := []struct {
		sort   Sort
		first  string
		joined bool
	}{
		{Sort{Field: "hp", Desc: true}, fieldHP, false},
		{Sort{Field: "number"}, fieldLocalID, false},
		{Sort{Field: "localId"}, fieldLocalID, false},
		{Sort{Field: "releaseDate"}, fieldReleaseDate, true},
		{Sort{Field: "rarity"}, "name", false},
	}
	for _, tt := range tests {
		t.Run(tt.sort.Field, func(t *testing.T) {
			p, _, err := CompileCards(context.Background(), CardFilter{Page: 1, Limit: 5, Sort: tt.sort}, &stubResolver{})
			if err != nil {
				t.Fatal(err)
			}
			if p.Sort[0].Key != tt.first {
				t.Errorf("first sort key = %s, want %s", p.Sort[0].Key, tt.first)
			}
			if p.Sort[0].Value != tt.sort.direction() {
				t.Errorf("direction = %v", p.Sort[0].Value)
			}
			if (len(p.Joins) > 0) != tt.joined {
				t.Errorf("joins = %v", p.Joins)
			}
		})
	}
}

func TestPipelineProjectsDerivedFields(t *testing.T) {
	p, _, _ := CompileCards(context.Background(), CardFilter{Page: 1, Limit: 5, Sort: Sort{Field: "releaseDate"}}, &stubResolver{})
	pipe := p.Pipeline()
	facet := pipe[len(pipe)-1][0].Value.(bson.D)
	data := facet[0].Value.(bson.A)
	project := data[len(data)-1].(bson.D)[0]
	if project.Key != "$project" {
		t.Fatalf("last data stage = %s", project.Key)
	}
	want := bson.D{{Key: "_id", Value: 0}, {Key: fieldSetJoin, Value: 0}, {Key: fieldReleaseDate, Value: 0}}
	if !reflect.DeepEqual(project.Value, want) {
		t.Errorf("project = %v, want %v", project.Value, want)
	}
}

func TestCompileSets(t *testing.T) {
	p := CompileSets(SetFilter{Page: 1, Limit: 50, Name: "base", SerieID: "base", Sort: Sort{Field: "releaseDate", Desc: true}})
	if len(p.Match) != 1 || p.Match[0].Key != "$and" {
		t.Errorf("match = %v", p.Match)
	}
	if p.Sort[0] != (bson.E{Key: "releaseDate", Value: -1}) {
		t.Errorf("sort = %v", p.Sort)
	}
}

func TestCompileSeries(t *testing.T) {
	p := CompileSeries(SerieFilter{Page: 2, Limit: 10, Sort: Sort{Field: "name"}})
	if p.Skip != 10 || len(p.Match) != 0 {
		t.Errorf("plan = %+v", p)
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		limit int
		total int64
		pages int64
	}{
		{20, 0, 0},
		{20, 1, 1},
		{20, 20, 1},
		{20, 21, 2},
		{5, 101, 21},
	}
	for _, tt := range tests {
		if got := NewPagination(1, tt.limit, tt.total); got.Pages != tt.pages {
			t.Errorf("pages(limit=%d,total=%d) = %d, want %d", tt.limit, tt.total, got.Pages, tt.pages)
		}
	}
}

func TestNewPaginationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("pages is the ceiling of total/limit", prop.ForAll(
		func(limit int, total int64) bool {
			p := NewPagination(1, limit, total)
			if total == 0 {
				return p.Pages == 0
			}
			return p.Pages*int64(limit) >= total && (p.Pages-1)*int64(limit) < total
		},
		gen.IntRange(1, MaxLimit),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}
