package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rpggio/reqindex/internal/repository"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"service_requests",
		"request_dependencies",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrations_Rerun(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"memory", ":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"plain path", "/var/lib/reqindex/requests.db", "/var/lib/reqindex/requests.db?_pragma=foreign_keys(1)"},
		{"existing query", "requests.db?_pragma=busy_timeout(5000)", "requests.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"already set", "requests.db?_pragma=foreign_keys(1)", "requests.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, withForeignKeys(tt.dsn))
		})
	}
}

// TestForeignKeys_EveryConnection checks that a file database enforces
// foreign keys on each pooled connection, not only the first one.
func TestForeignKeys_EveryConnection(t *testing.T) {
	ctx := context.Background()
	db, err := New(filepath.Join(t.TempDir(), "requests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	first, err := db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []interface {
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	}{first, second} {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		require.Equal(t, 1, enabled)
	}

	repo := NewRequestRepository(db)
	err = repo.AddDependency(ctx, 12345, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNew_ConnectError(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "requests.db"))
	require.Error(t, err)
}
