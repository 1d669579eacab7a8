package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "cache.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed even with nested non-existent directories")
	defer func() { _ = db.Close() }()

	_, err = os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err, "Directory should exist after NewDB")
}

// TestNewDB_CreatesDatabaseFile verifies that NewDB creates the database file on first run.
func TestNewDB_CreatesDatabaseFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "cache.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed")
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "Database file should exist after NewDB")
}

// TestNewDB_AppliesSchema verifies that NewDB creates the token_cache table.
func TestNewDB_AppliesSchema(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "cache.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed")
	defer func() { _ = db.Close() }()

	count, err := db.TokenCache().Count()
	require.NoError(t, err, "token_cache table should exist")
	require.Zero(t, count)
}

// TestNewDB_ReopenKeepsData verifies that the schema application is idempotent
// and existing rows survive a reopen.
func TestNewDB_ReopenKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "cache.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err, "First NewDB should succeed")

	err = db1.TokenCache().Save(&CacheEntry{
		Path:        "/src/main.go",
		ContentHash: "abc123",
		Language:    "go",
		Theme:       "monokai",
		Payload:     []byte{0, 0, 0, 0},
	})
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err, "Second NewDB should succeed")
	defer func() { _ = db2.Close() }()

	count, err := db2.TokenCache().Count()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
