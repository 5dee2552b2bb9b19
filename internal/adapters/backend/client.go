package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devbush/ad2video/internal/domain"
	"github.com/devbush/ad2video/internal/ports"
)

const requestIDHeader = "X-Request-ID"

// Client implements ports.VideoBackend over the backend's REST API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger used for request failures
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) VideoURL(filename string) string {
	return fmt.Sprintf("%s/get-video/%s", c.baseURL, url.PathEscape(filename))
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

func (c *Client) ListVideos(ctx context.Context) ([]domain.VideoRecord, error) {
	var videos []domain.VideoRecord
	if err := c.doJSON(ctx, http.MethodGet, "/videos/", nil, &videos); err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []domain.VideoRecord{}
	}
	return videos, nil
}

func (c *Client) GenerateVideo(ctx context.Context, productURL string) (*domain.VideoRecord, error) {
	body := map[string]string{"url": productURL}

	var video domain.VideoRecord
	if err := c.doJSON(ctx, http.MethodPost, "/generate-ad-video/", body, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id domain.VideoID) error {
	path := "/videos/" + url.PathEscape(string(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) DownloadVideo(ctx context.Context, filename string, dst io.Writer, progress func(downloaded, total int64)) error {
	if filename == "" {
		return domain.ErrEmptyFilename
	}

	req, requestID, err := c.newRequest(ctx, http.MethodGet, "/get-video/"+url.PathEscape(filename), nil)
	if err != nil {
		return err
	}

	// Video files can take longer than the API timeout, rely on ctx instead
	resp, err := c.doWith(c.streamClient(), req, requestID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
		}
	}

	return nil
}

func (c *Client) streamClient() *http.Client {
	hc := *c.client
	hc.Timeout = 0
	return &hc
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, requestID, nil
}

// do sends the request and maps transport failures to ErrBackendUnreachable.
// Context cancellation is returned as is.
func (c *Client) do(req *http.Request, requestID string) (*http.Response, error) {
	return c.doWith(c.client, req, requestID)
}

func (c *Client) doWith(hc *http.Client, req *http.Request, requestID string) (*http.Response, error) {
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Printf("request %s %s %s failed: %v", requestID, req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	req, requestID, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req, requestID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.logger.Printf("request %s %s %s: %v", requestID, method, path, apiErr)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeAPIError reads the backend's error body. The detail field is a
// string for handled errors, an array of field errors for validation
// failures, or occasionally an object carrying a msg.
func decodeAPIError(resp *http.Response) *domain.APIError {
	apiErr := &domain.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Msg    string          `json:"msg"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return apiErr
	}
	apiErr.Detail = envelope.Msg

	detail := bytes.TrimSpace(envelope.Detail)
	if len(detail) == 0 || bytes.Equal(detail, []byte("null")) {
		return apiErr
	}

	switch detail[0] {
	case '"':
		_ = json.Unmarshal(detail, &apiErr.Detail)
	case '[':
		var fields []domain.FieldError
		if err := json.Unmarshal(detail, &fields); err == nil {
			apiErr.Fields = fields
			if len(fields) > 0 && apiErr.Detail == "" {
				apiErr.Detail = fields[0].Msg
			}
		}
	case '{':
		var obj struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(detail, &obj); err == nil && obj.Msg != "" {
			apiErr.Detail = obj.Msg
		}
	}

	return apiErr
}

var _ ports.VideoBackend = (*Client)(nil)
