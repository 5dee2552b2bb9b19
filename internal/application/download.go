package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

// DownloadOptions configures a video download
type DownloadOptions struct {
	NoCache  bool
	Progress func(downloaded, total int64)
}

// DownloadResult describes a saved video file
type DownloadResult struct {
	Path      string
	Size      int64
	FromCache bool
}

// DownloadService saves backend videos to local disk through the download cache
type DownloadService struct {
	backend ports.VideoBackend
	cache   ports.CacheStore
	fs      afero.Fs
}

// NewDownloadService creates a new download service
func NewDownloadService(backend ports.VideoBackend, cache ports.CacheStore, fs afero.Fs) *DownloadService {
	return &DownloadService{
		backend: backend,
		cache:   cache,
		fs:      fs,
	}
}

// Download saves the video file into destDir and returns where it went
func (s *DownloadService) Download(ctx context.Context, filename, destDir string, opts DownloadOptions) (*DownloadResult, error) {
	name, err := domain.VideoFileName(filename)
	if err != nil {
		return nil, err
	}
	if destDir == "" {
		destDir = "."
	}
	destPath := filepath.Join(destDir, name)

	if !opts.NoCache {
		if cached, err := s.cache.Get(ctx, filename); err == nil && s.exists(cached.Path) {
			size, err := s.copyFile(cached.Path, destPath)
			if err != nil {
				return nil, fmt.Errorf("failed to copy cached video: %w", err)
			}
			return &DownloadResult{Path: destPath, Size: size, FromCache: true}, nil
		}
	}

	cachedPath, size, err := s.fetch(ctx, filename, opts.Progress)
	if err != nil {
		return nil, err
	}

	// Cache metadata failures are non-fatal
	_ = s.cache.Set(ctx, filename, &ports.CachedVideo{
		Filename:  filename,
		Path:      cachedPath,
		Size:      size,
		CreatedAt: time.Now(),
	})

	if _, err := s.copyFile(cachedPath, destPath); err != nil {
		return nil, fmt.Errorf("failed to save video: %w", err)
	}

	return &DownloadResult{Path: destPath, Size: size}, nil
}

// fetch downloads the file into the cache directory, cleaning up partial files
func (s *DownloadService) fetch(ctx context.Context, filename string, progress func(int64, int64)) (string, int64, error) {
	cacheDir, err := s.cache.GetCacheDir(filename)
	if err != nil {
		return "", 0, err
	}
	if err := s.fs.MkdirAll(cacheDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create cache directory: %w", err)
	}

	finalPath := filepath.Join(cacheDir, filepath.Base(filename))
	tempPath := finalPath + ".tmp"

	out, err := s.fs.Create(tempPath)
	if err != nil {
		return "", 0, err
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			_ = s.fs.Remove(tempPath)
		}
	}()

	counter := &countingWriter{w: out}
	if err := s.backend.DownloadVideo(ctx, filename, counter, progress); err != nil {
		return "", 0, err
	}

	if err := out.Close(); err != nil {
		return "", 0, err
	}
	if err := s.fs.Rename(tempPath, finalPath); err != nil {
		return "", 0, err
	}

	success = true
	return finalPath, counter.n, nil
}

func (s *DownloadService) exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// copyFile copies a file from src to dst
func (s *DownloadService) copyFile(src, dst string) (int64, error) {
	// If src and dst are the same, nothing to do
	if src == dst {
		info, err := s.fs.Stat(src)
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	sourceFile, err := s.fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	destFile, err := s.fs.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(destFile, sourceFile)
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
