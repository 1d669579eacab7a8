package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCacheDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTokenCache_SaveAndFind(t *testing.T) {
	db := newCacheDB(t)

	payload := []byte{0, 0, 0, 1, 0, 0, 0, 5}
	err := db.TokenCache().Save(&CacheEntry{
		Path:        "/src/main.go",
		ContentHash: "abc123",
		Language:    "go",
		Theme:       "monokai",
		Payload:     payload,
	})
	require.NoError(t, err)

	got, err := db.TokenCache().Find("/src/main.go", "abc123", "go", "monokai")
	require.NoError(t, err)
	require.Equal(t, payload, got.Payload)
	require.Equal(t, "go", got.Language)
	require.False(t, got.UpdatedAt.IsZero())
}

func TestTokenCache_FindMissingReturnsTypedError(t *testing.T) {
	db := newCacheDB(t)

	_, err := db.TokenCache().Find("/src/main.go", "nope", "go", "monokai")
	require.Error(t, err)

	var notFound *CacheNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "/src/main.go", notFound.Path)
	require.Equal(t, "nope", notFound.ContentHash)
}

func TestTokenCache_KeyIncludesLanguageAndTheme(t *testing.T) {
	db := newCacheDB(t)

	err := db.TokenCache().Save(&CacheEntry{
		Path: "/src/main.go", ContentHash: "abc123",
		Language: "go", Theme: "monokai", Payload: []byte{1},
	})
	require.NoError(t, err)

	_, err = db.TokenCache().Find("/src/main.go", "abc123", "go", "dracula")
	var notFound *CacheNotFoundError
	require.True(t, errors.As(err, &notFound), "different theme must miss")
}

func TestTokenCache_SaveUpsertsExistingKey(t *testing.T) {
	db := newCacheDB(t)

	entry := &CacheEntry{
		Path: "/src/main.go", ContentHash: "abc123",
		Language: "go", Theme: "monokai", Payload: []byte{1, 2, 3},
	}
	require.NoError(t, db.TokenCache().Save(entry))

	entry.Payload = []byte{9, 9}
	require.NoError(t, db.TokenCache().Save(entry))

	got, err := db.TokenCache().Find("/src/main.go", "abc123", "go", "monokai")
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9}, got.Payload)

	count, err := db.TokenCache().Count()
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "upsert must not create a second row")
}

func TestTokenCache_DeleteForPath(t *testing.T) {
	db := newCacheDB(t)

	for _, hash := range []string{"v1", "v2", "v3"} {
		require.NoError(t, db.TokenCache().Save(&CacheEntry{
			Path: "/src/main.go", ContentHash: hash,
			Language: "go", Theme: "monokai", Payload: []byte{1},
		}))
	}
	require.NoError(t, db.TokenCache().Save(&CacheEntry{
		Path: "/src/other.go", ContentHash: "v1",
		Language: "go", Theme: "monokai", Payload: []byte{1},
	}))

	deleted, err := db.TokenCache().DeleteForPath("/src/main.go")
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)

	count, err := db.TokenCache().Count()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
