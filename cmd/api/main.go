// Command api is the PokeVault catalog API server.
//
// Usage:
//
//	catalog-api
//	API_PORT=8080 catalog-api

// @title PokeVault Catalog API
// @version 1.0.0
// @description Trading-card catalog mirrored from TCGdex into MongoDB: filterable card search, sets, series and sync control.
// @host localhost:3000
// @BasePath /api
// @schemes http https
// @contact.name PokeVault
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pokevault/catalog-api/internal/api"
	"github.com/pokevault/catalog-api/internal/api/handler"
	"github.com/pokevault/catalog-api/internal/cache"
	"github.com/pokevault/catalog-api/internal/config"
	"github.com/pokevault/catalog-api/internal/db"
	"github.com/pokevault/catalog-api/internal/history"
	"github.com/pokevault/catalog-api/internal/maintenance"
	"github.com/pokevault/catalog-api/internal/provider/tcgdex"
	"github.com/pokevault/catalog-api/internal/seed"
	"github.com/pokevault/catalog-api/internal/store"

	_ "github.com/pokevault/catalog-api/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to the document store
	logger.Info("Connecting to MongoDB...")
	client, err := db.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Close()
	logger.Info("MongoDB connected",
		"min_pool", cfg.MongoMinPool,
		"max_pool", cfg.MongoMaxPool)

	if err := client.EnsureIndexes(ctx, logger); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}

	catalogStore := store.New(client)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled, cfg.CacheSize)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "size", cfg.CacheSize)

	// Optional sync history
	var hist *history.Store
	if cfg.HistoryEnabled() {
		hist, err = history.New(ctx, cfg.HistoryURL)
		if err != nil {
			logger.Error("Failed to connect to sync history database", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
		logger.Info("Sync history enabled", "retention", cfg.HistoryRetention)
	} else {
		logger.Info("Sync history disabled (no SYNC_HISTORY_DATABASE_URL)")
	}

	// Sync pipeline
	source := tcgdex.NewClient(cfg.TCGdexBaseURL, cfg.TCGdexLanguage, cfg.TCGdexRequestsPerMinute, cfg.TCGdexTimeout, logger)
	runner := seed.NewRunner(source, catalogStore, seed.OptionsFromConfig(cfg), logger)
	coordinator := seed.NewCoordinator(runner, logger,
		seed.WithRecorder(hist),
		seed.WithPurger(appCache))

	// Start maintenance tickers (scheduled sync, history pruning)
	mcfg := maintenance.DefaultConfig()
	mcfg.SyncInterval = cfg.SyncInterval
	mcfg.Retention = cfg.HistoryRetention
	var pruner maintenance.Pruner
	if hist != nil {
		pruner = hist
	}
	go maintenance.Start(ctx, coordinator, pruner, mcfg, logger)

	deps := handler.Deps{
		Catalog: catalogStore,
		Sync:    coordinator,
		DB:      client,
		Cache:   appCache,
		Logger:  logger,
	}
	if hist != nil {
		deps.History = hist
	}

	// Create router
	router := api.NewRouter(deps, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting PokeVault Catalog API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newLogger builds the process logger: text in development, JSON in
// production, debug level when DEBUG is set.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
