package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/devbush/ad2video/internal/adapters/cache"
	"github.com/devbush/ad2video/internal/application"
	"github.com/devbush/ad2video/internal/domain"
)

type stubBackend struct {
	mu      sync.Mutex
	videos  []domain.VideoRecord
	deleted []domain.VideoID
}

func (s *stubBackend) ListVideos(ctx context.Context) ([]domain.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.VideoRecord(nil), s.videos...), nil
}

func (s *stubBackend) GenerateVideo(ctx context.Context, productURL string) (*domain.VideoRecord, error) {
	return &domain.VideoRecord{ID: "9", Status: domain.StatusProcessing, VideoFilename: "ad_video_9.mp4"}, nil
}

func (s *stubBackend) DeleteVideo(ctx context.Context, id domain.VideoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubBackend) DownloadVideo(ctx context.Context, filename string, dst io.Writer, progress func(int64, int64)) error {
	_, err := io.WriteString(dst, "video")
	return err
}

func (s *stubBackend) VideoURL(filename string) string {
	return "http://localhost:8000/get-video/" + filename
}

func (s *stubBackend) Ping(ctx context.Context) (string, error) { return "ok", nil }

type stubOpener struct{ opened []string }

func (o *stubOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

type stubConfirmer struct{ answer bool }

func (c stubConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	return c.answer, nil
}

func sampleVideos() []domain.VideoRecord {
	return []domain.VideoRecord{
		{ID: "1", ProductTitle: "Desk lamp", Status: domain.StatusCompleted, VideoFilename: "ad_video_1.mp4",
			CreatedAt: domain.Timestamp{Time: time.Date(2025, 1, 15, 14, 5, 0, 0, time.UTC)}},
		{ID: "2", ProductTitle: "Coffee mug", Status: domain.StatusProcessing},
	}
}

type harness struct {
	backend *stubBackend
	opener  *stubOpener
	ctrl    *application.Controller
	copied  []string
}

func newHarness(t *testing.T, confirm bool) (*harness, DashboardModel) {
	t.Helper()
	h := &harness{
		backend: &stubBackend{videos: sampleVideos()},
		opener:  &stubOpener{},
	}
	h.ctrl = application.NewController(h.backend, h.opener, stubConfirmer{answer: confirm})

	fs := afero.NewMemMapFs()
	store := cache.NewFileCache(fs, "/cache", time.Hour)
	downloads := application.NewDownloadService(h.backend, store, fs)

	m := NewDashboardModel(DashboardConfig{
		Controller:  h.ctrl,
		Downloads:   downloads,
		DownloadDir: "/out",
		CopyToClipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	return h, m
}

func update(t *testing.T, m DashboardModel, msg tea.Msg) (DashboardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	dm, ok := next.(DashboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return dm, cmd
}

// runCmd executes cmd and feeds its message back into the model
func runCmd(t *testing.T, m DashboardModel, cmd tea.Cmd) DashboardModel {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func loaded(t *testing.T, h *harness, m DashboardModel) DashboardModel {
	t.Helper()
	return runCmd(t, m, m.fetch())
}

func press(t *testing.T, m DashboardModel, k string) (DashboardModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return update(t, m, msg)
}

func TestDashboard_EmptyList(t *testing.T) {
	h, m := newHarness(t, true)
	h.backend.videos = nil

	m = loaded(t, h, m)

	if !strings.Contains(m.View(), emptyListHint) {
		t.Errorf("View() missing empty hint:\n%s", m.View())
	}
}

func TestDashboard_TypingUpdatesController(t *testing.T) {
	h, m := newHarness(t, true)

	m, _ = press(t, m, "https://shop.example.com/q")

	if got := h.ctrl.State().ProductURL; got != "https://shop.example.com/q" {
		t.Errorf("controller ProductURL = %q", got)
	}
	if m.state.ProductURL != "https://shop.example.com/q" {
		t.Errorf("model ProductURL = %q", m.state.ProductURL)
	}
}

func TestDashboard_Submit(t *testing.T) {
	h, m := newHarness(t, true)

	m, _ = press(t, m, "https://shop.example.com/lamp")
	m, cmd := press(t, m, "enter")
	m = runCmd(t, m, cmd)

	if m.state.CurrentVideoFilename != "ad_video_9.mp4" {
		t.Errorf("CurrentVideoFilename = %q", m.state.CurrentVideoFilename)
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if h.ctrl.State().IsLoading {
		t.Error("IsLoading should be false")
	}
	if !strings.Contains(m.View(), "Now previewing: ad_video_9.mp4") {
		t.Errorf("View() missing preview:\n%s", m.View())
	}
}

func TestDashboard_ListNavigationAndPreview(t *testing.T) {
	h, m := newHarness(t, true)
	m = loaded(t, h, m)

	m, _ = press(t, m, "tab")
	if m.focus != focusList {
		t.Fatal("tab should focus the list")
	}

	m, _ = press(t, m, "enter")
	if m.state.CurrentVideoFilename != "ad_video_1.mp4" {
		t.Errorf("CurrentVideoFilename = %q, want ad_video_1.mp4", m.state.CurrentVideoFilename)
	}

	// Processing videos have nothing to preview
	m, _ = press(t, m, "j")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m, _ = press(t, m, "p")
	if m.state.CurrentVideoFilename != "ad_video_1.mp4" {
		t.Errorf("preview changed to %q", m.state.CurrentVideoFilename)
	}

	m, _ = press(t, m, "down")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, should stop at the last row", m.cursor)
	}
}

func TestDashboard_OpenAndCopy(t *testing.T) {
	h, m := newHarness(t, true)
	m = loaded(t, h, m)
	m, _ = press(t, m, "tab")

	m, cmd := press(t, m, "o")
	m = runCmd(t, m, cmd)
	if len(h.opener.opened) != 1 || h.opener.opened[0] != "http://localhost:8000/get-video/ad_video_1.mp4" {
		t.Errorf("opened = %v", h.opener.opened)
	}

	m, _ = press(t, m, "c")
	if len(h.copied) != 1 || h.copied[0] != "http://localhost:8000/get-video/ad_video_1.mp4" {
		t.Errorf("copied = %v", h.copied)
	}
	if m.state.StatusMessage != "Video link copied to clipboard." {
		t.Errorf("StatusMessage = %q", m.state.StatusMessage)
	}
}

func TestDashboard_Save(t *testing.T) {
	h, m := newHarness(t, true)
	m = loaded(t, h, m)
	m, _ = press(t, m, "tab")

	m, cmd := press(t, m, "s")
	if !m.saving {
		t.Error("saving should be shown while the download runs")
	}
	m = runCmd(t, m, cmd)

	if m.saving {
		t.Error("saving should end")
	}
	if !strings.HasPrefix(m.state.StatusMessage, "Saved /out/ad_video_1.mp4") {
		t.Errorf("StatusMessage = %q", m.state.StatusMessage)
	}
}

func TestDashboard_DeleteDeclined(t *testing.T) {
	h, m := newHarness(t, false)
	m = loaded(t, h, m)
	m, _ = press(t, m, "tab")

	m, cmd := press(t, m, "x")
	m = runCmd(t, m, cmd)

	if len(h.backend.deleted) != 0 {
		t.Errorf("deleted = %v, want none", h.backend.deleted)
	}
	if len(m.state.VideoList) != 2 {
		t.Errorf("VideoList = %v, want unchanged", m.state.VideoList)
	}
}

func TestDashboard_DeleteNeedsFinishedVideo(t *testing.T) {
	h, m := newHarness(t, true)
	m = loaded(t, h, m)
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "j")

	_, cmd := press(t, m, "x")
	if cmd != nil {
		t.Error("processing videos cannot be deleted")
	}
}

func TestDashboard_ConfirmPrompt(t *testing.T) {
	_, m := newHarness(t, true)

	reply := make(chan bool, 1)
	m, _ = update(t, m, confirmRequestMsg{prompt: `Delete "Desk lamp"?`, reply: reply})
	if !strings.Contains(m.View(), `Delete "Desk lamp"?`) {
		t.Errorf("View() missing prompt:\n%s", m.View())
	}

	m, _ = press(t, m, "y")
	if got := <-reply; !got {
		t.Error("y should confirm")
	}
	if m.confirm != nil {
		t.Error("prompt should close")
	}

	reply = make(chan bool, 1)
	m, _ = update(t, m, confirmRequestMsg{prompt: "again?", reply: reply})
	_, _ = press(t, m, "esc")
	if got := <-reply; got {
		t.Error("esc should cancel")
	}
}

func TestDashboard_IgnoresStaleSnapshots(t *testing.T) {
	h, m := newHarness(t, true)
	m = loaded(t, h, m)

	stale := m.state
	stale.Version--
	stale.VideoList = nil
	m, _ = update(t, m, stateMsg(stale))

	if len(m.state.VideoList) != 2 {
		t.Errorf("stale snapshot replaced the list: %v", m.state.VideoList)
	}
}

func TestDashboard_Quit(t *testing.T) {
	h, m := newHarness(t, true)

	reply := make(chan bool, 1)
	m, _ = update(t, m, confirmRequestMsg{prompt: "delete?", reply: reply})

	_, cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if got := <-reply; got {
		t.Error("pending prompt should be declined on quit")
	}

	h.ctrl.FetchVideoList(context.Background())
	if len(h.ctrl.State().VideoList) != 0 {
		t.Error("controller should drop responses after quit")
	}
}

func TestDashboard_QuitKeyTypesInInput(t *testing.T) {
	_, m := newHarness(t, true)

	m, _ = press(t, m, "q")
	if m.ctx.Err() != nil {
		t.Error("q in the input should not quit")
	}
	if m.input.Value() != "q" {
		t.Errorf("input = %q, want q", m.input.Value())
	}
}
