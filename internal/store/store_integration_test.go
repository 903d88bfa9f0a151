package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pokevault/catalog-api/internal/catalog"
	"github.com/pokevault/catalog-api/internal/db"
	"github.com/pokevault/catalog-api/internal/query"
)

// startMongo runs a throwaway MongoDB and returns a Catalog on a fresh
// database with indexes in place.
func startMongo(t *testing.T) *Catalog {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	uri, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	if err != nil {
		t.Fatalf("Failed to get endpoint: %v", err)
	}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("catalog_test")
	for coll, models := range db.Indexes() {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			t.Fatalf("Failed to create indexes on %s: %v", coll, err)
		}
	}
	return NewFromDatabase(database, 10*time.Second)
}

func seedCatalog(t *testing.T, c *Catalog) {
	t.Helper()
	ctx := context.Background()

	series := []catalog.Serie{
		{ID: "base", Name: "Base"},
		{ID: "sv", Name: "Écarlate et Violet"},
		{ID: "empty", Name: "Sans sets"},
	}
	for i := range series {
		if _, err := c.UpsertSerie(ctx, &series[i]); err != nil {
			t.Fatal(err)
		}
	}

	sets := []catalog.Set{
		{ID: "base1", Name: "Set de Base", ReleaseDate: "1999-01-09", Serie: &catalog.SerieSummary{ID: "base", Name: "Base"}},
		{ID: "sv01", Name: "Écarlate et Violet", ReleaseDate: "2023-03-31", Serie: &catalog.SerieSummary{ID: "sv", Name: "Écarlate et Violet"}},
	}
	for i := range sets {
		if _, err := c.UpsertSet(ctx, &sets[i]); err != nil {
			t.Fatal(err)
		}
	}

	cards := []catalog.Card{
		{ID: "base1-58", LocalID: "58", Name: "Pikachu", HP: 40.0, Types: []string{"Électrique"}, Rarity: "Commune", Retreat: []interface{}{"Incolore"}, Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}, Legal: map[string]interface{}{"standard": false, "expanded": false}},
		{ID: "base1-14", LocalID: "14", Name: "Raichu", HP: "80", Types: []string{"Lightning"}, Rarity: "Rare", Retreat: []interface{}{"Incolore", "Incolore"}, Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}},
		{ID: "sv01-063", LocalID: "063", Name: "Pikachu ex", HP: "200", Types: []string{"Électrique"}, Rarity: "Double rare", Retreat: 1.0, Set: catalog.CardSetSummary{ID: "sv01", Name: "Écarlate et Violet"}, Legal: map[string]interface{}{"standard": true, "expanded": true}},
		{ID: "sv01-100", LocalID: "100", Name: "Pikachu", HP: "n/a", Types: []string{"Electric"}, Rarity: "Commune", Set: catalog.CardSetSummary{ID: "sv01", Name: "Écarlate et Violet"}},
		{ID: "sv01-001", LocalID: "001", Name: "Bulbizarre", HP: 70.0, Types: []string{"Plante"}, Rarity: "Commune", Set: catalog.CardSetSummary{ID: "sv01", Name: "Écarlate et Violet"}},
		{ID: "sv01-045", LocalID: "045", Name: "Pikachu", HP: 60.0, Types: []string{"Électrique"}, Rarity: "Commune", Set: catalog.CardSetSummary{ID: "sv01", Name: "Écarlate et Violet"}},
		{ID: "base1-60", LocalID: "60", Name: "Pikachu Volant", HP: 50.0, Types: []string{"Électrique"}, Rarity: "Promo", Set: catalog.CardSetSummary{ID: "base1", Name: "Set de Base"}},
	}
	for i := range cards {
		if _, err := c.UpsertCard(ctx, &cards[i]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCatalog_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	c := startMongo(t)
	seedCatalog(t, c)
	ctx := context.Background()

	t.Run("NameSearchIsCaseInsensitiveAndSorted", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"name": {"pika"}, "limit": {"5"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 5 {
			t.Fatalf("got %d cards, want 5", len(page.Data))
		}
		if page.Pagination.Total != 5 || page.Pagination.Pages != 1 {
			t.Errorf("pagination = %+v", page.Pagination)
		}
		for i, card := range page.Data {
			if !strings.Contains(strings.ToLower(card.Name), "pika") {
				t.Errorf("unexpected card %q", card.Name)
			}
			if i > 0 && page.Data[i-1].Name > card.Name {
				t.Errorf("not sorted by name: %q before %q", page.Data[i-1].Name, card.Name)
			}
		}
	})

	t.Run("TypeSynonyms", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"type": {"electrique"}, "limit": {"50"}}))
		if err != nil {
			t.Fatal(err)
		}
		if page.Pagination.Total != 6 {
			t.Errorf("total = %d, want 6", page.Pagination.Total)
		}
	})

	t.Run("HPRangeCoercesStrings", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"hpMin": {"60"}, "hpMax": {"200"}, "sort": {"hp"}}))
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, card := range page.Data {
			ids = append(ids, card.ID)
		}
		want := "sv01-045,sv01-001,base1-14,sv01-063"
		if strings.Join(ids, ",") != want {
			t.Errorf("ids = %v, want %s", ids, want)
		}
	})

	t.Run("ExactHP", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"hp": {"80"}, "hpMin": {"10"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 1 || page.Data[0].ID != "base1-14" {
			t.Errorf("data = %+v", page.Data)
		}
	})

	t.Run("RetreatArrayCountsLength", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"retreatMin": {"2"}, "retreatMax": {"2"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 1 || page.Data[0].ID != "base1-14" {
			t.Errorf("data = %+v", page.Data)
		}
	})

	t.Run("ReleaseDateSort", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"hpMin": {"1"}, "sort": {"releaseDate"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) == 0 {
			t.Fatal("no data")
		}
		if page.Data[0].Set.ID != "base1" {
			t.Errorf("oldest set first, got %s", page.Data[0].Set.ID)
		}
	})

	t.Run("SerieWithoutSetsIsEmpty", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"serieId": {"empty"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 0 || page.Pagination.Total != 0 || page.Pagination.Pages != 0 {
			t.Errorf("page = %+v", page)
		}
	})

	t.Run("SerieFilterResolvesSets", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"serieId": {"base"}}))
		if err != nil {
			t.Fatal(err)
		}
		if page.Pagination.Total != 3 {
			t.Errorf("total = %d, want 3", page.Pagination.Total)
		}
	})

	t.Run("Legality", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"legalities": {"standard,expanded"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 1 || page.Data[0].ID != "sv01-063" {
			t.Errorf("data = %+v", page.Data)
		}
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		page, err := c.FindCards(ctx, query.ParseCardFilter(url.Values{"page": {"99"}}))
		if err != nil {
			t.Fatal(err)
		}
		if len(page.Data) != 0 || page.Pagination.Total != 7 {
			t.Errorf("page = %+v", page.Pagination)
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		meta, err := c.CardMetadata(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(meta.Rarities, ",") != "Commune,Double rare,Promo,Rare" {
			t.Errorf("rarities = %v", meta.Rarities)
		}
		if strings.Join(meta.LegalFormats, ",") != "expanded,standard" {
			t.Errorf("formats = %v", meta.LegalFormats)
		}
	})

	t.Run("Search", func(t *testing.T) {
		cards, err := c.SearchCards(ctx, "raich", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(cards) != 1 || cards[0].ID != "base1-14" || cards[0].Illustrator != "" {
			t.Errorf("cards = %+v", cards)
		}
	})

	t.Run("LookupsAndRandom", func(t *testing.T) {
		if _, err := c.CardByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		card, err := c.CardByID(ctx, "base1-58")
		if err != nil || card.Name != "Pikachu" {
			t.Fatalf("card = %+v, err = %v", card, err)
		}
		if _, err := c.RandomSet(ctx); err != nil {
			t.Errorf("RandomSet: %v", err)
		}
		sets, err := c.SetsBySerie(ctx, "sv")
		if err != nil || len(sets) != 1 {
			t.Errorf("sets = %+v, err = %v", sets, err)
		}
		groups, err := c.SetsGroupedBySeries(ctx)
		if err != nil || len(groups) != 2 {
			t.Errorf("groups = %+v, err = %v", groups, err)
		}
	})

	t.Run("UpsertReportsReplace", func(t *testing.T) {
		serie := catalog.Serie{ID: "base", Name: "Base"}
		replaced, err := c.UpsertSerie(ctx, &serie)
		if err != nil || !replaced {
			t.Errorf("replaced = %v, err = %v", replaced, err)
		}
		serie = catalog.Serie{ID: "new", Name: "Nouvelle"}
		replaced, err = c.UpsertSerie(ctx, &serie)
		if err != nil || replaced {
			t.Errorf("replaced = %v, err = %v", replaced, err)
		}
		n, err := c.Count(ctx, KindSeries, bson.D{})
		if err != nil || n != 4 {
			t.Errorf("series count = %d, err = %v", n, err)
		}
	})

	t.Run("ManageDeleteBySerie", func(t *testing.T) {
		filter, err := c.ManageFilter(ctx, KindCards, "serie:base")
		if err != nil {
			t.Fatal(err)
		}
		n, err := c.DeleteMany(ctx, KindCards, filter)
		if err != nil || n != 3 {
			t.Errorf("deleted = %d, err = %v", n, err)
		}
	})
}

func TestRandomOnEmptyCollection_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	c := startMongo(t)
	if _, err := c.RandomCard(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
