// Package sqlite provides the SQLite-backed token cache for tokstore.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/tokstore/internal/log"
)

// Schema is the token cache schema. It is applied idempotently on every open.
const Schema = `
CREATE TABLE IF NOT EXISTS token_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	theme TEXT NOT NULL DEFAULT '',
	payload BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE(path, content_hash, language, theme)
);

CREATE INDEX IF NOT EXISTS idx_token_cache_path ON token_cache(path);
`

// DB owns the cache database connection and its repositories.
type DB struct {
	db         *sql.DB
	tokenCache *tokenCacheRepository
}

// NewDB opens (creating if necessary) the cache database at the given path
// and applies the schema. The parent directory is created when missing.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying cache schema: %w", err)
	}

	log.Debug(log.CatDB, "Opened token cache", "path", path)
	return &DB{
		db:         db,
		tokenCache: newTokenCacheRepository(db),
	}, nil
}

// TokenCache returns the token cache repository.
func (d *DB) TokenCache() TokenCacheRepository {
	return d.tokenCache
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
