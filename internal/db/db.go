// Package db provides the MongoDB client with pool sizing, index bootstrap
// and health checking.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pokevault/catalog-api/internal/config"
)

// Client wraps mongo.Client with the configured database and operation
// timeout.
type Client struct {
	client   *mongo.Client
	database string
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
}

// New connects and validates a client.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMinPoolSize(uint64(cfg.MongoMinPool)).
		SetMaxPoolSize(uint64(cfg.MongoMaxPool)).
		SetMaxConnIdleTime(5 * time.Minute).
		// Untyped subdocuments (hp, legal, variants...) decode as maps so
		// they serialize back to JSON objects.
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	// Verify connectivity
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("MongoDB connection established", "database", cfg.MongoDatabase)
	return &Client{
		client:   client,
		database: cfg.MongoDatabase,
		timeout:  cfg.MongoOpTimeout,
	}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.client.Database(c.database)
}

// Collection returns a collection handle in the configured database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.Database().Collection(name)
}

// Timeout is the default per-operation timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// HealthCheck pings the primary.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return fmt.Errorf("mongodb client is closed")
	}

	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.client.Ping(hcCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check: %w", err)
	}
	return nil
}

// Close disconnects. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("close mongodb connection: %w", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Indexes
// --------------------------------------------------------------------------

// Indexes lists the indexes each collection needs, keyed by collection.
func Indexes() map[string][]mongo.IndexModel {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	asc := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	return map[string][]mongo.IndexModel{
		config.CardsCollection: {
			unique("id"),
			asc("name"),
			asc("set.id"),
			asc("types"),
			asc("rarity"),
		},
		config.SetsCollection: {
			unique("id"),
			asc("serie.id"),
			asc("releaseDate"),
		},
		config.SeriesCollection: {
			unique("id"),
			asc("name"),
		},
	}
}

// EnsureIndexes creates every index from Indexes. Existing indexes with
// the same keys and options are left alone by the server.
func (c *Client) EnsureIndexes(ctx context.Context, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for coll, models := range Indexes() {
		names, err := c.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		logger.Info("Indexes ensured", "collection", coll, "indexes", names)
	}
	return nil
}
