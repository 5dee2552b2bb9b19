package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// VideoStatus is the backend-reported state of a generation job
type VideoStatus string

const (
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// VideoID is the backend's identifier for a video. The backend sends
// integers but the client treats the value as opaque.
type VideoID string

func (id *VideoID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = VideoID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid video id %s: %w", data, err)
	}
	*id = VideoID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as numbers and anything else,
// "007" included, as a string.
func (id VideoID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Timestamp decodes both RFC 3339 and the zone-less ISO-8601 form the
// backend emits for database timestamps. Zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// ParseTimestamp parses a backend timestamp string
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", s)
}

// VideoRecord describes one generation job and its outcome
type VideoRecord struct {
	ID            VideoID     `json:"id"`
	ProductTitle  string      `json:"product_title"`
	Status        VideoStatus `json:"status"`
	VideoFilename string      `json:"video_filename,omitempty"`
	OriginalURL   string      `json:"original_url,omitempty"`
	CreatedAt     Timestamp   `json:"created_at"`
}

// HasFile reports whether the record points at a finished video file
func (v *VideoRecord) HasFile() bool {
	return v.Status == StatusCompleted && v.VideoFilename != ""
}

// CanDelete reports whether the record has reached a state where deleting
// it is offered to the user
func (v *VideoRecord) CanDelete() bool {
	return v.HasFile() || v.Status == StatusFailed
}

// VideoFileName reduces a backend video_filename to a single path element.
// Names that resolve to a directory are rejected.
func VideoFileName(filename string) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	name := filepath.Base(filename)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}

// DisplayTitle returns the product title, falling back to the id
func (v *VideoRecord) DisplayTitle() string {
	if strings.TrimSpace(v.ProductTitle) != "" {
		return v.ProductTitle
	}
	return fmt.Sprintf("Video %s", v.ID)
}

// FindVideo returns the record with the given id, or nil
func FindVideo(videos []VideoRecord, id VideoID) *VideoRecord {
	for i := range videos {
		if videos[i].ID == id {
			return &videos[i]
		}
	}
	return nil
}
