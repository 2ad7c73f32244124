package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/famtree"
	"github.com/meikuraledutech/famtree/api"
	"github.com/meikuraledutech/famtree/config"
	"github.com/meikuraledutech/famtree/memory"
	"github.com/meikuraledutech/famtree/postgres"
	"github.com/meikuraledutech/famtree/source"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "famtree",
		Short:        "Serve and inspect family relationship forests",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	loadConfig := func() (config.Config, *slog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, cfg.Logger(), nil
	}

	// ── serve ─────────────────────────────────────────────────────────
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	})

	// ── stats ─────────────────────────────────────────────────────────
	var asGraph bool
	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Validate a CSV or YAML person file and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), args[0], asGraph, cfg.Icons)
		},
	}
	statsCmd.Flags().BoolVar(&asGraph, "graph", false, "print the nodes/edges graph instead of statistics")
	root.AddCommand(statsCmd)

	// ── import ────────────────────────────────────────────────────────
	var treeID string
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a person file and save it to the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("import needs DATABASE_URL or database_url in the config")
			}
			store, closeStore, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			saved, err := importFile(cmd.Context(), store, args[0], treeID)
			if err != nil {
				return err
			}
			logger.Info("tree imported", "tree", saved.ID, "persons", len(saved.Persons))
			fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return nil
		},
	}
	importCmd.Flags().StringVar(&treeID, "tree", "", "tree id to save under (defaults to the file's own id)")
	root.AddCommand(importCmd)

	return root
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedFile != "" {
		saved, err := importFile(ctx, store, cfg.SeedFile, cfg.SeedTreeID)
		if err != nil {
			return fmt.Errorf("seed %s: %w", cfg.SeedFile, err)
		}
		logger.Info("seed loaded", "tree", saved.ID, "persons", len(saved.Persons))
	}

	app := fiber.New(api.AppConfig())
	api.New(store, cfg.Icons, logger).Register(app)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errc <- app.Listen(cfg.Listen, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// openStore returns a Postgres store when a database is configured and an
// in-memory one otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (famtree.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("no database configured, trees are kept in memory")
		return memory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	store := postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("schema: %w", err)
	}
	return store, pool.Close, nil
}

// importFile reads path and saves it. treeID, if set, overrides the id in the file.
func importFile(ctx context.Context, store famtree.Store, path, treeID string) (*famtree.Tree, error) {
	t, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if treeID != "" {
		t.ID = treeID
	}
	return store.SaveTree(ctx, t)
}

func printStats(w io.Writer, path string, asGraph bool, icons famtree.IconSet) error {
	t, err := source.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := famtree.NewForest(t.Persons)
	if err != nil {
		return err
	}

	var out any = f.Statistics()
	if asGraph {
		out = f.Graph(icons)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
