package application

import (
	"errors"
	"fmt"

	"github.com/devbush/ad2video/internal/domain"
)

// User-facing messages
const (
	msgStarting       = "Starting video generation..."
	msgInitiated      = "Video generation initiated. Please wait a moment for the video to be ready. It will appear in the list below."
	msgGenFailed      = "Video generation failed."
	msgNetworkError   = "Network error occurred."
	msgUnknownServer  = "An unknown error occurred on the server."
	msgCannotConnect  = "Could not connect to the backend server. Please ensure it is running."
	msgPreviewing     = "Video selected for preview."
	msgNoPreviewFile  = "No video file selected for preview."
	msgNoDownloadFile = "No video file to download."
	msgOpening        = "Opening video download."
)

// ViewState is everything the client shows. It is only changed by Reduce.
type ViewState struct {
	ProductURL           string
	CurrentVideoID       domain.VideoID // empty when nothing is selected
	CurrentVideoFilename string         // empty when nothing is selected
	IsLoading            bool
	Error                *domain.ViewError
	StatusMessage        string
	VideoList            []domain.VideoRecord

	// Version increases with every applied event
	Version uint64
	// ListSeq is the sequence number of the list response last applied
	ListSeq uint64
}

// Event is an input to Reduce
type Event interface {
	isEvent()
}

// InputChanged updates the URL input buffer
type InputChanged struct{ Text string }

// ListLoaded carries a successful list fetch
type ListLoaded struct {
	Seq    uint64
	Videos []domain.VideoRecord
}

// SubmitStarted begins a generation request
type SubmitStarted struct{}

// SubmitRejected reports a submit that never reached the backend
type SubmitRejected struct{ Reason string }

// GenerationSucceeded carries the backend's answer to a generation request
type GenerationSucceeded struct{ Video domain.VideoRecord }

// GenerationFailed carries a generation error
type GenerationFailed struct{ Err error }

// SubmitFinished always follows SubmitStarted
type SubmitFinished struct{}

// VideoDeleted reports a successful delete
type VideoDeleted struct {
	ID       domain.VideoID
	Title    string
	Filename string
}

// DeleteFailed reports a delete error
type DeleteFailed struct{ Err error }

// PreviewSelected selects a video file for preview
type PreviewSelected struct{ Filename string }

// DownloadOpened reports the outcome of opening a download
type DownloadOpened struct {
	Filename string
	Err      error
}

// Notice sets a status message and optionally an error
type Notice struct {
	Status string
	Err    string
}

func (InputChanged) isEvent()        {}
func (ListLoaded) isEvent()          {}
func (SubmitStarted) isEvent()       {}
func (SubmitRejected) isEvent()      {}
func (GenerationSucceeded) isEvent() {}
func (GenerationFailed) isEvent()    {}
func (SubmitFinished) isEvent()      {}
func (VideoDeleted) isEvent()        {}
func (DeleteFailed) isEvent()        {}
func (PreviewSelected) isEvent()     {}
func (DownloadOpened) isEvent()      {}
func (Notice) isEvent()              {}

// Reduce returns the state that results from applying ev to s.
// It never mutates s.
func Reduce(s ViewState, ev Event) ViewState {
	switch ev := ev.(type) {
	case InputChanged:
		s.ProductURL = ev.Text

	case ListLoaded:
		// Stale responses lose to the one already applied
		if ev.Seq <= s.ListSeq {
			return s
		}
		s.ListSeq = ev.Seq
		s.VideoList = append([]domain.VideoRecord(nil), ev.Videos...)

	case SubmitStarted:
		s.IsLoading = true
		s.Error = nil
		s.CurrentVideoID = ""
		s.CurrentVideoFilename = ""
		s.StatusMessage = msgStarting

	case SubmitRejected:
		s.Error = domain.TextError(ev.Reason)

	case GenerationSucceeded:
		s.CurrentVideoID = ev.Video.ID
		s.CurrentVideoFilename = ev.Video.VideoFilename
		s.StatusMessage = msgInitiated
		s.ProductURL = ""

	case GenerationFailed:
		s.Error, s.StatusMessage = generationError(ev.Err)

	case SubmitFinished:
		s.IsLoading = false

	case VideoDeleted:
		s.StatusMessage = fmt.Sprintf("Video %q deleted successfully.", ev.Title)
		s.Error = nil
		selected := s.CurrentVideoID != "" && s.CurrentVideoID == ev.ID
		if ev.Filename != "" && s.CurrentVideoFilename == ev.Filename {
			selected = true
		}
		if selected {
			s.CurrentVideoID = ""
			s.CurrentVideoFilename = ""
		}

	case DeleteFailed:
		s.Error = domain.TextError("Failed to delete video: " + deleteReason(ev.Err))

	case PreviewSelected:
		if ev.Filename == "" {
			s.Error = domain.TextError(msgNoPreviewFile)
			break
		}
		s.CurrentVideoFilename = ev.Filename
		s.Error = nil
		s.StatusMessage = msgPreviewing

	case DownloadOpened:
		switch {
		case ev.Filename == "":
			s.Error = domain.TextError(msgNoDownloadFile)
		case ev.Err != nil:
			s.Error = domain.TextError(fmt.Sprintf("Could not open video download: %v", ev.Err))
		default:
			s.StatusMessage = msgOpening
		}

	case Notice:
		if ev.Status != "" {
			s.StatusMessage = ev.Status
		}
		if ev.Err != "" {
			s.Error = domain.TextError(ev.Err)
		}

	default:
		return s
	}

	s.Version++
	return s
}

func generationError(err error) (*domain.ViewError, string) {
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.IsValidation():
		return domain.FieldErrors(apiErr.Fields), msgGenFailed
	case errors.As(err, &apiErr):
		if apiErr.Detail != "" {
			return domain.TextError(apiErr.Detail), msgGenFailed
		}
		return domain.TextError(msgUnknownServer), msgGenFailed
	default:
		return domain.TextError(msgCannotConnect), msgNetworkError
	}
}

func deleteReason(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, domain.ErrBackendUnreachable) {
		return "could not connect to the backend server"
	}
	return err.Error()
}
