// Package app holds startup wiring shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/reqindex/internal/config"
	"github.com/rpggio/reqindex/internal/seed"
	"github.com/rpggio/reqindex/internal/sqlite"
)

// OpenStore opens the configured database, applies the schema and, when
// seeding is enabled, loads fixtures into an empty store.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sqlite.DB, error) {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.Seed.Enabled {
		if _, err := Seed(ctx, db, cfg.Seed.Path, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Seed loads fixtures from path, or the built-in ones, into an empty store.
func Seed(ctx context.Context, db *sqlite.DB, path string, logger *slog.Logger) (int, error) {
	fixtures, err := seed.Load(path)
	if err != nil {
		return 0, err
	}
	return seed.Apply(ctx, sqlite.NewRequestRepository(db), fixtures, time.Now().UTC(), logger)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
