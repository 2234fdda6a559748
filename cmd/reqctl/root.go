package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/reqindex/internal/app"
	"github.com/rpggio/reqindex/internal/config"
	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/sqlite"
	"github.com/spf13/cobra"
)

// rootFlags holds flags shared by every subcommand.
type rootFlags struct {
	dbPath  string
	verbose bool
	jsonOut bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "reqctl",
		Short: "Query the municipal service request index",
		Long: `reqctl loads service requests from the configured SQLite store and answers
queries from the in-memory index: lookups by ID, priority order, dependency
closure, search and statistics.

Configuration comes from REQINDEX_CONFIG_PATH and REQINDEX_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database path (overrides configuration)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log index activity to stderr")
	cmd.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "output in JSON format")

	cmd.AddCommand(
		newListCommand(flags),
		newGetCommand(flags),
		newPriorityCommand(flags),
		newDepsCommand(flags),
		newSearchCommand(flags),
		newCategoriesCommand(flags),
		newStatsCommand(flags),
		newSeedCommand(flags),
	)
	return cmd
}

func (f *rootFlags) logger(cmd *cobra.Command) *slog.Logger {
	if !f.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (f *rootFlags) config() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if f.dbPath != "" {
		cfg.DB.Path = f.dbPath
	}
	return cfg, nil
}

// withService opens the store, builds an index service over it and runs fn.
func (f *rootFlags) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *request.Service) error) error {
	cfg, err := f.config()
	if err != nil {
		return err
	}
	logger := f.logger(cmd)

	db, err := app.OpenStore(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	return fn(cmd.Context(), request.NewService(sqlite.NewRequestRepository(db), logger))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
