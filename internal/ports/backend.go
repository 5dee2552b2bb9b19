package ports

import (
	"context"
	"io"

	"github.com/devbush/ad2video/internal/domain"
)

// VideoBackend is the remote service that generates, stores and serves videos.
type VideoBackend interface {
	// ListVideos returns every video record, newest first.
	ListVideos(ctx context.Context) ([]domain.VideoRecord, error)

	// GenerateVideo asks the backend to build an ad video for a product page.
	GenerateVideo(ctx context.Context, productURL string) (*domain.VideoRecord, error)

	// DeleteVideo removes a video record and its file.
	DeleteVideo(ctx context.Context, id domain.VideoID) error

	// DownloadVideo streams a video file into dst, reporting progress via callback.
	DownloadVideo(ctx context.Context, filename string, dst io.Writer, progress func(downloaded, total int64)) error

	// VideoURL returns the retrieval URL for a video file.
	VideoURL(filename string) string

	// Ping checks that the backend is up and returns its health message.
	Ping(ctx context.Context) (string, error)
}
