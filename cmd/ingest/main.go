// Command ingest is the PokeVault catalog maintenance CLI.
//
// Usage:
//
//	catalog-ingest sync
//	catalog-ingest sync cards
//	catalog-ingest manage cards count tcgp
//	catalog-ingest manage sets list serie:sv --limit 20
//	catalog-ingest manage cards delete set:A1
//	catalog-ingest manage cards delete-confirm set:A1
//	catalog-ingest indexes
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pokevault/catalog-api/internal/config"
	"github.com/pokevault/catalog-api/internal/db"
	"github.com/pokevault/catalog-api/internal/history"
	"github.com/pokevault/catalog-api/internal/provider/tcgdex"
	"github.com/pokevault/catalog-api/internal/seed"
	"github.com/pokevault/catalog-api/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "catalog-ingest",
		Short:        "PokeVault catalog ingestion and maintenance CLI",
		SilenceUsage: true,
	}

	root.AddCommand(syncCmd())
	root.AddCommand(manageCmd())
	root.AddCommand(indexesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// sync command
// --------------------------------------------------------------------------

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sync [all|series|sets|cards]",
		Short:     "Mirror the TCGdex catalog into MongoDB",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"all", "series", "sets", "cards"},
		RunE: func(cmd *cobra.Command, args []string) error {
			phase := seed.PhaseAll
			if len(args) == 1 {
				p, err := seed.ParsePhase(args[0])
				if err != nil {
					return err
				}
				phase = p
			}

			return runWithStore(func(ctx context.Context, cfg *config.Config, client *db.Client) error {
				if err := client.EnsureIndexes(ctx, logger); err != nil {
					return err
				}

				var opts []seed.CoordinatorOption
				if cfg.HistoryEnabled() {
					hist, err := history.New(ctx, cfg.HistoryURL)
					if err != nil {
						return fmt.Errorf("connect to sync history: %w", err)
					}
					defer hist.Close()
					opts = append(opts, seed.WithRecorder(hist))
				}

				source := tcgdex.NewClient(cfg.TCGdexBaseURL, cfg.TCGdexLanguage, cfg.TCGdexRequestsPerMinute, cfg.TCGdexTimeout, logger)
				runner := seed.NewRunner(source, store.New(client), seed.OptionsFromConfig(cfg), logger)
				coordinator := seed.NewCoordinator(runner, logger, opts...)

				run, err := coordinator.Run(ctx, "cli", phase)
				if err != nil {
					return err
				}
				logger.Info("Sync finished",
					"phase", phase,
					"duration", (time.Duration(run.DurationMS) * time.Millisecond).Round(time.Second),
					"summary", run.Stats.Summary())
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// manage command
// --------------------------------------------------------------------------

func manageCmd() *cobra.Command {
	var limit int64
	cmd := &cobra.Command{
		Use:   "manage <cards|sets|series> <count|list|delete|delete-confirm> <tcgp|set:ID|serie:ID>",
		Short: "Inspect or remove stored records matching a filter",
		Long: `Inspect or remove stored records.

Filters:
  tcgp       records from the TCG Pocket line (image or serie markers)
  set:ID     cards of a set, or the set itself
  serie:ID   cards or sets of a serie, or the serie itself

Actions:
  count           number of matching records
  list            matching records (see --limit)
  delete          report what would be deleted, without deleting
  delete-confirm  delete the matching records`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := store.ParseKind(args[0])
			if err != nil {
				return err
			}
			action := args[1]
			switch action {
			case "count", "list", "delete", "delete-confirm":
			default:
				return fmt.Errorf("unknown action %q (want count, list, delete or delete-confirm)", action)
			}

			return runWithStore(func(ctx context.Context, _ *config.Config, client *db.Client) error {
				return manage(ctx, cmd.OutOrStdout(), store.New(client), kind, action, args[2], limit)
			})
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 50, "Maximum records shown by list and delete")
	return cmd
}

func manage(ctx context.Context, out io.Writer, c *store.Catalog, kind store.Kind, action, arg string, limit int64) error {
	filter, err := c.ManageFilter(ctx, kind, arg)
	if err != nil {
		return err
	}

	n, err := c.Count(ctx, kind, filter)
	if err != nil {
		return err
	}

	switch action {
	case "count":
		fmt.Fprintf(out, "%d %s match %s\n", n, kind, arg)
		return nil

	case "list", "delete":
		items, err := c.List(ctx, kind, filter, limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tIMAGE")
		for _, it := range items {
			img := it.Image
			if img == "" {
				img = it.Logo
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", it.ID, it.Name, img)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if int64(len(items)) < n {
			fmt.Fprintf(out, "... and %d more\n", n-int64(len(items)))
		}
		if action == "delete" {
			fmt.Fprintf(out, "%d %s would be deleted. Re-run with delete-confirm to delete them.\n", n, kind)
		}
		return nil

	case "delete-confirm":
		if n == 0 {
			fmt.Fprintf(out, "No %s match %s\n", kind, arg)
			return nil
		}
		deleted, err := c.DeleteMany(ctx, kind, filter)
		if err != nil {
			return err
		}
		logger.Info("Deleted records", "kind", kind, "filter", arg, "count", deleted)
		fmt.Fprintf(out, "Deleted %d %s\n", deleted, kind)
		return nil
	}
	return fmt.Errorf("unknown action %q", action)
}

// --------------------------------------------------------------------------
// indexes command
// --------------------------------------------------------------------------

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB collection indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, _ *config.Config, client *db.Client) error {
				return client.EnsureIndexes(ctx, logger)
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared
// --------------------------------------------------------------------------

func runWithStore(fn func(ctx context.Context, cfg *config.Config, client *db.Client) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := db.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer client.Close()

	return fn(ctx, cfg, client)
}
