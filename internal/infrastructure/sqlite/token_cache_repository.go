package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// cacheColumns is the list of columns to select for cache queries.
const cacheColumns = `id, path, content_hash, language, theme, payload, created_at, updated_at`

// CacheNotFoundError is returned when no cached tokenization matches a key.
type CacheNotFoundError struct {
	Path        string
	ContentHash string
}

func (e *CacheNotFoundError) Error() string {
	return fmt.Sprintf("no cached tokens for %s (hash %s)", e.Path, e.ContentHash)
}

// TokenCacheRepository persists serialized token payloads keyed by document
// path + content hash + lexer/theme pair.
type TokenCacheRepository interface {
	// Save stores a payload, replacing any entry with the same key.
	Save(entry *CacheEntry) error

	// Find retrieves the entry matching the key exactly.
	// Returns CacheNotFoundError when absent.
	Find(path, contentHash, language, theme string) (*CacheEntry, error)

	// DeleteForPath removes every entry for a document, returning the count.
	DeleteForPath(path string) (int64, error)

	// Count returns the number of cached entries.
	Count() (int64, error)
}

// tokenCacheRepository implements TokenCacheRepository using SQLite.
type tokenCacheRepository struct {
	db *sql.DB
}

func newTokenCacheRepository(db *sql.DB) *tokenCacheRepository {
	return &tokenCacheRepository{db: db}
}

// Ensure tokenCacheRepository implements TokenCacheRepository.
var _ TokenCacheRepository = (*tokenCacheRepository)(nil)

// scanCacheEntry scans a row into a TokenCacheModel.
func scanCacheEntry(scanner interface{ Scan(...any) error }) (*TokenCacheModel, error) {
	var model TokenCacheModel
	err := scanner.Scan(
		&model.ID, &model.Path, &model.ContentHash, &model.Language, &model.Theme,
		&model.Payload, &model.CreatedAt, &model.UpdatedAt,
	)
	return &model, err
}

func (r *tokenCacheRepository) Save(entry *CacheEntry) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(
		`INSERT INTO token_cache (path, content_hash, language, theme, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path, content_hash, language, theme)
		 DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		entry.Path, entry.ContentHash, entry.Language, entry.Theme, entry.Payload, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

func (r *tokenCacheRepository) Find(path, contentHash, language, theme string) (*CacheEntry, error) {
	row := r.db.QueryRow(
		`SELECT `+cacheColumns+` FROM token_cache
		 WHERE path = ? AND content_hash = ? AND language = ? AND theme = ?`,
		path, contentHash, language, theme,
	)
	model, err := scanCacheEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &CacheNotFoundError{Path: path, ContentHash: contentHash}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cache entry: %w", err)
	}
	return model.toEntry(), nil
}

func (r *tokenCacheRepository) DeleteForPath(path string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM token_cache WHERE path = ?`, path)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

func (r *tokenCacheRepository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM token_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}
