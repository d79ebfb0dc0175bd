package cli

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/jmallek/lectern/internal/storage"
)

// openTestStore creates a migrated in-memory store for command tests.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db, "wal").Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// testGlobals returns GlobalFlags pointing at a config path that does not
// exist, so commands fall back to defaults without touching the real
// home directory.
func testGlobals(t *testing.T) *GlobalFlags {
	t.Helper()
	return &GlobalFlags{
		Config: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

// captureOutput captures stdout produced by fn.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = old

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(data), fnErr
}
