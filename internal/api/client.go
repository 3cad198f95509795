package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is where the backend listens when nothing is configured.
const DefaultBaseURL = "http://localhost:8000"

// ErrNotList is returned when /records answers with something other than a
// JSON array.
var ErrNotList = errors.New("records response is not a list")

// Backend is the minimal surface the controllers depend on.
type Backend interface {
	FetchRecords(ctx context.Context) ([]MeetingRecord, error)
	UploadFile(ctx context.Context, path string) (Reply[UploadResult], error)
	SubmitQuery(ctx context.Context, req QueryRequest) (Reply[QueryResult], error)
}

// Client talks to the backend over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	logger  *slog.Logger
}

var _ Backend = (*Client)(nil)

// NewClient constructs a Client. A zero timeout means requests never time
// out on their own. Replace HTTP afterwards to use a custom transport.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchRecords reads every meeting record. A non-2xx status or a body that
// is not a JSON array is an error.
func (c *Client) FetchRecords(ctx context.Context) ([]MeetingRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/records", nil)
	if err != nil {
		return nil, fmt.Errorf("create records request: %w", err)
	}

	status, body, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("records endpoint returned %d", status)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotList
	}

	var records []MeetingRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// UploadFile streams the file at path as the multipart field "file".
// The returned error covers transport problems only. Status and body are
// left to the caller.
func (c *Client) UploadFile(ctx context.Context, path string) (Reply[UploadResult], error) {
	var out Reply[UploadResult]

	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", pr)
	if err != nil {
		pr.CloseWithError(err)
		return out, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, err := c.roundTrip(req)
	if err != nil {
		return out, err
	}
	out.StatusCode = status
	if err := decodeBody(body, status, &out.Body); err != nil {
		return out, err
	}
	return out, nil
}

// SubmitQuery posts a question about one meeting.
func (c *Client) SubmitQuery(ctx context.Context, q QueryRequest) (Reply[QueryResult], error) {
	var out Reply[QueryResult]

	payload, err := json.Marshal(q)
	if err != nil {
		return out, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/query", bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.roundTrip(req)
	if err != nil {
		return out, err
	}
	out.StatusCode = status
	if err := decodeBody(body, status, &out.Body); err != nil {
		return out, err
	}
	return out, nil
}

// roundTrip performs req and returns the status and the full body.
func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logger.Debug("request_failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
			slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request_completed",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status_code", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))

	return resp.StatusCode, body, nil
}

// decodeBody parses a JSON object body. A body that is not JSON is a
// malformed response whatever the status.
func decodeBody(body []byte, status int, into any) error {
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", status, err)
	}
	return nil
}
