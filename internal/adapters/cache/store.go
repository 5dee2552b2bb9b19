package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

const metaName = "meta.json"

// FileCache keeps downloaded videos under baseDir, one directory per
// backend filename with a meta.json next to the video.
type FileCache struct {
	fs      afero.Fs
	baseDir string
	ttl     time.Duration
}

func NewFileCache(fs afero.Fs, baseDir string, ttl time.Duration) *FileCache {
	return &FileCache{
		fs:      fs,
		baseDir: baseDir,
		ttl:     ttl,
	}
}

type metaFile struct {
	Filename  string    `json:"filename"`
	VideoPath string    `json:"video_path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetCacheDir returns the directory holding filename's cached copy
func (c *FileCache) GetCacheDir(filename string) (string, error) {
	name, err := domain.VideoFileName(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.baseDir, name), nil
}

func (c *FileCache) metaPath(filename string) (string, error) {
	dir, err := c.GetCacheDir(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, metaName), nil
}

func (c *FileCache) Get(ctx context.Context, filename string) (*ports.CachedVideo, error) {
	path, err := c.metaPath(filename)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var meta metaFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	if time.Now().After(meta.ExpiresAt) {
		return nil, domain.ErrCacheExpired
	}

	return &ports.CachedVideo{
		Filename:  meta.Filename,
		Path:      meta.VideoPath,
		Size:      meta.Size,
		CreatedAt: meta.CreatedAt,
		ExpiresAt: meta.ExpiresAt,
	}, nil
}

// Set records item under filename. A zero ExpiresAt means CreatedAt plus the cache TTL.
func (c *FileCache) Set(ctx context.Context, filename string, item *ports.CachedVideo) error {
	dir, err := c.GetCacheDir(filename)
	if err != nil {
		return err
	}
	if err := c.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	expires := item.ExpiresAt
	if expires.IsZero() {
		expires = item.CreatedAt.Add(c.ttl)
	}

	meta := metaFile{
		Filename:  filename,
		VideoPath: item.Path,
		Size:      item.Size,
		CreatedAt: item.CreatedAt,
		ExpiresAt: expires,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(c.fs, filepath.Join(dir, metaName), data, 0644)
}

func (c *FileCache) Delete(ctx context.Context, filename string) error {
	dir, err := c.GetCacheDir(filename)
	if err != nil {
		return err
	}
	return c.fs.RemoveAll(dir)
}

// entries lists the per-video directories, treating a missing base dir as empty
func (c *FileCache) entries() ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	dirs := infos[:0]
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, info)
		}
	}
	return dirs, nil
}

func (c *FileCache) CleanExpired(ctx context.Context) (int, error) {
	dirs, err := c.entries()
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return cleaned, err
		}
		name := dir.Name()
		if _, err := c.Get(ctx, name); errors.Is(err, domain.ErrCacheExpired) {
			if err := c.Delete(ctx, name); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

func (c *FileCache) Clear(ctx context.Context) error {
	dirs, err := c.entries()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		_ = c.fs.RemoveAll(filepath.Join(c.baseDir, dir.Name()))
	}

	return nil
}

func (c *FileCache) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	dirs, err := c.entries()
	if err != nil {
		return 0, 0, err
	}

	for _, dir := range dirs {
		itemCount++

		dirPath := filepath.Join(c.baseDir, dir.Name())
		_ = afero.Walk(c.fs, dirPath, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				totalSize += info.Size()
			}
			return nil
		})
	}

	return itemCount, totalSize, nil
}

var _ ports.CacheStore = (*FileCache)(nil)
