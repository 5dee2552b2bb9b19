package ports

import (
	"context"
	"time"
)

// CachedVideo is a downloaded video file kept on local disk.
type CachedVideo struct {
	Filename  string    // backend filename
	Path      string    // local file path
	Size      int64     // bytes
	CreatedAt time.Time // when the file was downloaded
	ExpiresAt time.Time // when this item should be considered stale
}

// CacheStore keeps downloaded video files between runs.
type CacheStore interface {
	// Get retrieves a cached video by backend filename.
	Get(ctx context.Context, filename string) (*CachedVideo, error)

	// Set stores metadata for a video already written under GetCacheDir.
	// A zero ExpiresAt lets the store apply its own TTL.
	Set(ctx context.Context, filename string, item *CachedVideo) error

	// Delete removes a specific item from the cache.
	Delete(ctx context.Context, filename string) error

	// CleanExpired removes all expired items and returns the count removed.
	CleanExpired(ctx context.Context) (int, error)

	// Clear removes all cached items.
	Clear(ctx context.Context) error

	// GetCacheDir returns the cache directory path for a given filename.
	// Filenames that do not name a single file are rejected.
	GetCacheDir(filename string) (string, error)

	// Stats returns cache statistics: item count and total size in bytes.
	Stats(ctx context.Context) (itemCount int, totalSize int64, err error)
}
