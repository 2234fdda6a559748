package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpggio/reqindex/internal/config"
	"github.com/rpggio/reqindex/internal/domain/request"
	"github.com/rpggio/reqindex/internal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		DB:   config.DBConfig{Path: filepath.Join(t.TempDir(), "nested", "reqindex.db")},
		Seed: config.SeedConfig{Enabled: true},
	}

	db, err := OpenStore(ctx, cfg, nil)
	require.NoError(t, err)
	repo := sqlite.NewRequestRepository(db)
	first, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Positive(t, first)
	require.NoError(t, db.Close())

	db, err = OpenStore(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	second, err := sqlite.NewRequestRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOpenStore_DefaultFixturesIndex(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{
		DB:   config.DBConfig{Path: ":memory:"},
		Seed: config.SeedConfig{Enabled: true},
	}

	db, err := OpenStore(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := request.NewService(sqlite.NewRequestRepository(db), nil)

	// Bus shelter 10 -> bridge 6 -> water main 1.
	deps, err := svc.GetDependencyClosure(ctx, 10)
	require.NoError(t, err)
	ids := make([]int64, 0, len(deps))
	for _, d := range deps {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{6, 1}, ids)

	// Request 12 points at 22, which the fixtures never define.
	deps, err = svc.GetDependencyClosure(ctx, 12)
	require.NoError(t, err)
	ids = ids[:0]
	for _, d := range deps {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{5, 7}, ids)

	byPriority, err := svc.GetByPriority(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, byPriority[0].Priority)
}

func TestOpenStore_MissingSeedFile(t *testing.T) {
	cfg := config.Config{
		DB:   config.DBConfig{Path: ":memory:"},
		Seed: config.SeedConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "missing.yaml")},
	}

	_, err := OpenStore(context.Background(), cfg, nil)
	require.Error(t, err)
}
