package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// Backend errors
	ErrBackendUnreachable = errors.New("could not connect to the backend server")
	ErrVideoNotFound      = errors.New("video not found")

	// Input errors
	ErrInvalidURL       = errors.New("invalid product URL")
	ErrEmptyFilename    = errors.New("no video file")
	ErrInvalidFilename  = errors.New("invalid video filename")
	ErrSubmitInProgress = errors.New("a video generation request is already in progress")

	// Cache errors
	ErrCacheExpired = errors.New("cache expired")
	ErrCacheMiss    = errors.New("cache miss")
)

// FieldError is one entry of a structured validation failure
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type,omitempty"`
}

// Path joins the location segments with dots, e.g. "body.url"
func (f FieldError) Path() string {
	parts := make([]string, 0, len(f.Loc))
	for _, p := range f.Loc {
		if n, ok := p.(float64); ok && n == math.Trunc(n) {
			parts = append(parts, strconv.FormatInt(int64(n), 10))
			continue
		}
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s - %s", f.Path(), f.Msg)
}

// JoinFieldErrors renders field errors as one human readable string
func JoinFieldErrors(fields []FieldError) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Detail     string       // server-provided detail, may be empty
	Fields     []FieldError // set for structured validation failures
}

func (e *APIError) Error() string {
	switch {
	case len(e.Fields) > 0:
		return fmt.Sprintf("validation error: %s", JoinFieldErrors(e.Fields))
	case e.Detail != "":
		return e.Detail
	default:
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
}

// IsValidation reports whether the backend rejected the input field by field
func (e *APIError) IsValidation() bool {
	return e.StatusCode == 422 && len(e.Fields) > 0
}

func (e *APIError) Is(target error) bool {
	return target == ErrVideoNotFound && e.StatusCode == 404
}

// ViewErrorKind tags the ViewError variant
type ViewErrorKind int

const (
	ErrorText ViewErrorKind = iota
	ErrorFields
)

// ViewError is the user-facing error shown by the client: either free text
// or a list of field errors.
type ViewError struct {
	Kind   ViewErrorKind
	Text   string
	Fields []FieldError
}

// TextError builds a free text ViewError
func TextError(text string) *ViewError {
	return &ViewError{Kind: ErrorText, Text: text}
}

// FieldErrors builds a structured ViewError
func FieldErrors(fields []FieldError) *ViewError {
	return &ViewError{Kind: ErrorFields, Fields: fields}
}

// Message returns the error body without any label
func (e *ViewError) Message() string {
	if e == nil {
		return ""
	}
	if e.Kind == ErrorFields {
		return JoinFieldErrors(e.Fields)
	}
	return e.Text
}

// Display returns the error as it is shown to the user
func (e *ViewError) Display() string {
	if e == nil {
		return ""
	}
	if e.Kind == ErrorFields {
		return "Validation Error: " + e.Message()
	}
	return e.Message()
}
