package sqlite

import "time"

// TokenCacheModel represents the database row for the token_cache table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type TokenCacheModel struct {
	ID          int64
	Path        string
	ContentHash string
	Language    string
	Theme       string
	Payload     []byte
	CreatedAt   int64 // Unix timestamp
	UpdatedAt   int64 // Unix timestamp
}

// CacheEntry is the repository-facing view of a cached tokenization.
type CacheEntry struct {
	Path        string
	ContentHash string
	Language    string
	Theme       string
	Payload     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *TokenCacheModel) toEntry() *CacheEntry {
	return &CacheEntry{
		Path:        m.Path,
		ContentHash: m.ContentHash,
		Language:    m.Language,
		Theme:       m.Theme,
		Payload:     m.Payload,
		CreatedAt:   time.Unix(m.CreatedAt, 0),
		UpdatedAt:   time.Unix(m.UpdatedAt, 0),
	}
}
