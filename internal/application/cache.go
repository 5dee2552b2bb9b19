package application

import (
	"context"

	"github.com/devbush/ad2video/internal/ports"
)

// CacheStats summarizes the downloaded videos kept on disk
type CacheStats struct {
	Videos int
	Bytes  int64
}

// CacheService manages the local copies of downloaded videos
type CacheService struct {
	store ports.CacheStore
}

func NewCacheService(store ports.CacheStore) *CacheService {
	return &CacheService{store: store}
}

func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	count, size, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &CacheStats{Videos: count, Bytes: size}, nil
}

// Prune removes expired video copies, or every copy when all is set, and
// returns how many were removed.
func (s *CacheService) Prune(ctx context.Context, all bool) (int, error) {
	if !all {
		return s.store.CleanExpired(ctx)
	}

	count, _, err := s.store.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.store.Clear(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// Evict drops the local copy of a video the backend no longer serves.
// Records that never had a file are ignored.
func (s *CacheService) Evict(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}
	return s.store.Delete(ctx, filename)
}
