package application

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

// mockBackend implements ports.VideoBackend for testing
type mockBackend struct {
	mu sync.Mutex

	lists    [][]domain.VideoRecord // returned in order, last one repeats
	listErr  error
	listCall int

	generated   *domain.VideoRecord
	generateErr error
	generateURL []string

	deleteErr error
	deleted   []domain.VideoID

	fileData    string
	downloadErr error
	downloads   int
}

func (m *mockBackend) ListVideos(ctx context.Context) ([]domain.VideoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCall++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.lists) == 0 {
		return []domain.VideoRecord{}, nil
	}
	idx := m.listCall - 1
	if idx >= len(m.lists) {
		idx = len(m.lists) - 1
	}
	return m.lists[idx], nil
}

func (m *mockBackend) GenerateVideo(ctx context.Context, productURL string) (*domain.VideoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateURL = append(m.generateURL, productURL)
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.generated, nil
}

func (m *mockBackend) DeleteVideo(ctx context.Context, id domain.VideoID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockBackend) DownloadVideo(ctx context.Context, filename string, dst io.Writer, progress func(int64, int64)) error {
	m.mu.Lock()
	m.downloads++
	m.mu.Unlock()
	if m.downloadErr != nil {
		return m.downloadErr
	}
	n, err := io.Copy(dst, strings.NewReader(m.fileData))
	if progress != nil {
		progress(n, n)
	}
	return err
}

func (m *mockBackend) VideoURL(filename string) string {
	return "http://backend.test/get-video/" + filename
}

func (m *mockBackend) Ping(ctx context.Context) (string, error) {
	return "ok", nil
}

func (m *mockBackend) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCall
}

// mockConfirmer answers every prompt with a fixed value
type mockConfirmer struct {
	answer  bool
	prompts []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, nil
}

// mockOpener records opened URLs
type mockOpener struct {
	opened []string
	err    error
}

func (m *mockOpener) Open(url string) error {
	m.opened = append(m.opened, url)
	return m.err
}

var (
	_ ports.VideoBackend = (*mockBackend)(nil)
	_ ports.Confirmer    = (*mockConfirmer)(nil)
	_ ports.URLOpener    = (*mockOpener)(nil)
)
