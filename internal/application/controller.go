package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

// DefaultPollInterval is how often the video list is refreshed
const DefaultPollInterval = 5 * time.Second

// Controller keeps the client's view state in sync with the backend.
// All state changes go through Reduce; I/O happens outside the lock.
type Controller struct {
	backend   ports.VideoBackend
	opener    ports.URLOpener
	confirmer ports.Confirmer
	logger    *log.Logger
	interval  time.Duration

	mu       sync.Mutex
	state    ViewState
	listSeq  uint64
	closed   bool
	onChange func(ViewState)
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithPollInterval overrides DefaultPollInterval
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithLogger sets the logger used for silent failures
func WithLogger(logger *log.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnChange registers a callback invoked after every state change.
// It runs outside the controller lock.
func WithOnChange(fn func(ViewState)) ControllerOption {
	return func(c *Controller) { c.onChange = fn }
}

// NewController creates a new controller
func NewController(
	backend ports.VideoBackend,
	opener ports.URLOpener,
	confirmer ports.Confirmer,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		backend:   backend,
		opener:    opener,
		confirmer: confirmer,
		logger:    log.New(io.Discard, "", 0),
		interval:  DefaultPollInterval,
		state:     ViewState{VideoList: []domain.VideoRecord{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current view state
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PollInterval returns the list refresh interval
func (c *Controller) PollInterval() time.Duration {
	return c.interval
}

// VideoURL returns the retrieval URL for a video file
func (c *Controller) VideoURL(filename string) string {
	return c.backend.VideoURL(filename)
}

// Close disposes the controller. Responses that arrive afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) dispatch(ev Event) {
	c.dispatchIf(nil, ev)
}

// dispatchIf applies ev only when guard accepts the current state. Guard and
// reduce run under the same lock.
func (c *Controller) dispatchIf(guard func(ViewState) bool, ev Event) bool {
	c.mu.Lock()
	if c.closed || (guard != nil && !guard(c.state)) {
		c.mu.Unlock()
		return false
	}
	c.state = Reduce(c.state, ev)
	snapshot := c.state
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
	return true
}

// Poll fetches the video list now and then every poll interval until ctx is done
func (c *Controller) Poll(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.FetchVideoList(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.FetchVideoList(ctx)
		}
	}
}

// SetProductURL updates the URL input buffer
func (c *Controller) SetProductURL(text string) {
	c.dispatch(InputChanged{Text: text})
}

// FetchVideoList replaces the video list with the backend's. Failures are
// logged and leave the list unchanged.
func (c *Controller) FetchVideoList(ctx context.Context) {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	c.mu.Unlock()

	videos, err := c.backend.ListVideos(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Printf("error fetching video list: %v", err)
		}
		return
	}

	c.dispatch(ListLoaded{Seq: seq, Videos: videos})
}

// SubmitGeneration asks the backend to generate a video for productURL
func (c *Controller) SubmitGeneration(ctx context.Context, productURL string) {
	productURL, err := domain.ParseProductURL(productURL)
	if err != nil {
		c.dispatch(SubmitRejected{Reason: "Please enter a valid product page URL."})
		return
	}

	idle := func(s ViewState) bool { return !s.IsLoading }
	if !c.dispatchIf(idle, SubmitStarted{}) {
		c.logger.Printf("submit ignored: %v", domain.ErrSubmitInProgress)
		return
	}
	defer c.dispatch(SubmitFinished{})

	video, err := c.backend.GenerateVideo(ctx, productURL)
	if err != nil {
		c.logger.Printf("video generation request failed: %v", err)
		c.dispatch(GenerationFailed{Err: err})
		return
	}

	c.dispatch(GenerationSucceeded{Video: *video})
	c.FetchVideoList(ctx)
}

// DeleteVideo removes a video after the user confirms
func (c *Controller) DeleteVideo(ctx context.Context, id domain.VideoID, title string) {
	prompt := fmt.Sprintf("Are you sure you want to delete the video for %q? This action cannot be undone.", title)
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil || !ok {
		return
	}

	// Look the filename up before the list refresh drops the record
	var filename string
	c.mu.Lock()
	if v := domain.FindVideo(c.state.VideoList, id); v != nil {
		filename = v.VideoFilename
	}
	c.mu.Unlock()

	if err := c.backend.DeleteVideo(ctx, id); err != nil {
		c.logger.Printf("error deleting video %s: %v", id, err)
		c.dispatch(DeleteFailed{Err: err})
		return
	}

	c.dispatch(VideoDeleted{ID: id, Title: title, Filename: filename})
	c.FetchVideoList(ctx)
}

// SelectForPreview marks a video file as the one being previewed
func (c *Controller) SelectForPreview(filename string) {
	c.dispatch(PreviewSelected{Filename: filename})
}

// RequestDownload opens the video file in a new browser context
func (c *Controller) RequestDownload(filename string) {
	if filename == "" {
		c.dispatch(DownloadOpened{})
		return
	}
	err := c.opener.Open(c.backend.VideoURL(filename))
	if err != nil {
		c.logger.Printf("error opening download for %s: %v", filename, err)
	}
	c.dispatch(DownloadOpened{Filename: filename, Err: err})
}

// Notify shows a status message or error that originates outside the controller
func (c *Controller) Notify(status, errText string) {
	c.dispatch(Notice{Status: status, Err: errText})
}
