package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

func newTestCache(t *testing.T) (*FileCache, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewFileCache(fs, "/cache", 24*time.Hour), fs
}

func TestFileCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)

	ctx := context.Background()
	item := &ports.CachedVideo{
		Path:      "/cache/ad_video_1.mp4/ad_video_1.mp4",
		Size:      2048,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	if err := cache.Set(ctx, "ad_video_1.mp4", item); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "ad_video_1.mp4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Filename != "ad_video_1.mp4" {
		t.Errorf("Get() filename = %s, want ad_video_1.mp4", got.Filename)
	}
	if got.Path != item.Path {
		t.Errorf("Get() path = %s, want %s", got.Path, item.Path)
	}
	if got.Size != 2048 {
		t.Errorf("Get() size = %d, want 2048", got.Size)
	}
}

func TestFileCache_SetDefaultsExpiry(t *testing.T) {
	cache, _ := newTestCache(t)

	ctx := context.Background()
	created := time.Now()
	_ = cache.Set(ctx, "a.mp4", &ports.CachedVideo{CreatedAt: created})

	got, err := cache.Get(ctx, "a.mp4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.ExpiresAt.Equal(created.Add(cache.ttl)) {
		t.Errorf("ExpiresAt = %v, want CreatedAt + TTL", got.ExpiresAt)
	}
}

func TestFileCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "nonexistent.mp4")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestFileCache_GetExpired(t *testing.T) {
	cache, _ := newTestCache(t)

	ctx := context.Background()
	item := &ports.CachedVideo{
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	_ = cache.Set(ctx, "expired.mp4", item)

	_, err := cache.Get(ctx, "expired.mp4")
	if !errors.Is(err, domain.ErrCacheExpired) {
		t.Errorf("Get() error = %v, want ErrCacheExpired", err)
	}
}

func TestFileCache_CleanExpired(t *testing.T) {
	cache, fs := newTestCache(t)

	ctx := context.Background()
	_ = cache.Set(ctx, "old.mp4", &ports.CachedVideo{
		CreatedAt: time.Now().Add(-1 * time.Hour),
		ExpiresAt: time.Now().Add(-1 * time.Minute),
	})
	_ = cache.Set(ctx, "fresh.mp4", &ports.CachedVideo{
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})

	cleaned, err := cache.CleanExpired(ctx)
	if err != nil {
		t.Fatalf("CleanExpired() error = %v", err)
	}

	if cleaned != 1 {
		t.Errorf("CleanExpired() = %d, want 1", cleaned)
	}
	if exists, _ := afero.DirExists(fs, "/cache/old.mp4"); exists {
		t.Error("expired entry should be removed")
	}
	if exists, _ := afero.DirExists(fs, "/cache/fresh.mp4"); !exists {
		t.Error("fresh entry should be kept")
	}
}

func TestFileCache_StatsAndClear(t *testing.T) {
	cache, fs := newTestCache(t)

	ctx := context.Background()
	for _, name := range []string{"a.mp4", "b.mp4"} {
		videoPath := filepath.Join("/cache", name, name)
		if err := afero.WriteFile(fs, videoPath, make([]byte, 1000), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		_ = cache.Set(ctx, name, &ports.CachedVideo{Path: videoPath, Size: 1000, CreatedAt: time.Now()})
	}

	count, size, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Stats() count = %d, want 2", count)
	}
	if size < 2000 {
		t.Errorf("Stats() size = %d, want at least 2000", size)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	count, _, _ = cache.Stats(ctx)
	if count != 0 {
		t.Errorf("Stats() after Clear count = %d, want 0", count)
	}
}

func TestFileCache_EmptyBaseDir(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	count, size, err := cache.Stats(ctx)
	if err != nil || count != 0 || size != 0 {
		t.Errorf("Stats() = %d, %d, %v; want zeros", count, size, err)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if n, err := cache.CleanExpired(ctx); err != nil || n != 0 {
		t.Errorf("CleanExpired() = %d, %v", n, err)
	}
}

func TestFileCache_Delete(t *testing.T) {
	cache, fs := newTestCache(t)

	ctx := context.Background()
	_ = cache.Set(ctx, "a.mp4", &ports.CachedVideo{CreatedAt: time.Now()})

	if err := cache.Delete(ctx, "a.mp4"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if exists, _ := afero.DirExists(fs, "/cache/a.mp4"); exists {
		t.Error("entry should be removed")
	}
}

func TestFileCache_RejectsDirectoryNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache := NewFileCache(fs, "/home/u/.ad2video/cache", time.Hour)
	ctx := context.Background()

	if err := afero.WriteFile(fs, "/home/u/.ad2video/config.yaml", []byte("backend: {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set(ctx, "a.mp4", &ports.CachedVideo{CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	for _, name := range []string{".", "..", "clips/..", "/"} {
		t.Run(name, func(t *testing.T) {
			if dir, err := cache.GetCacheDir(name); !errors.Is(err, domain.ErrInvalidFilename) {
				t.Errorf("GetCacheDir(%q) = %q, %v, want ErrInvalidFilename", name, dir, err)
			}
			if err := cache.Delete(ctx, name); !errors.Is(err, domain.ErrInvalidFilename) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidFilename", name, err)
			}
			if err := cache.Set(ctx, name, &ports.CachedVideo{CreatedAt: time.Now()}); !errors.Is(err, domain.ErrInvalidFilename) {
				t.Errorf("Set(%q) error = %v, want ErrInvalidFilename", name, err)
			}
			if _, err := cache.Get(ctx, name); !errors.Is(err, domain.ErrInvalidFilename) {
				t.Errorf("Get(%q) error = %v, want ErrInvalidFilename", name, err)
			}
		})
	}

	if exists, _ := afero.Exists(fs, "/home/u/.ad2video/config.yaml"); !exists {
		t.Error("config.yaml outside the cache was removed")
	}
	if _, err := cache.Get(ctx, "a.mp4"); err != nil {
		t.Errorf("existing entry lost: %v", err)
	}
}

func TestFileCache_GetCacheDirUsesBaseName(t *testing.T) {
	cache, _ := newTestCache(t)

	dir, err := cache.GetCacheDir("videos/ad_video_1.mp4")
	if err != nil {
		t.Fatalf("GetCacheDir() error = %v", err)
	}
	if dir != filepath.Join("/cache", "ad_video_1.mp4") {
		t.Errorf("GetCacheDir() = %q", dir)
	}
}
