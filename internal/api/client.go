package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/timekeep/internal/action"
	"github.com/five82/timekeep/internal/entry"
)

// Ensure Client satisfies the creators' API at compile time.
var _ action.API = (*Client)(nil)

// Client talks to the time-tracking HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://127.0.0.1:3000"
	defaultUserAgent = "timekeep/0.1"
	defaultTimeout   = 5 * time.Second
	requestIDHeader  = "X-Request-ID"
	maxErrorBody     = 512
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// NotFound reports whether the service answered 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}

// NewClient builds a Client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchAll retrieves every entry in server order.
func (c *Client) FetchAll(ctx context.Context) ([]entry.Entry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []entry.Entry
	if err := c.do(ctx, http.MethodGet, c.entriesURL(), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create starts a new entry.
func (c *Client) Create(ctx context.Context, name, description string) (entry.Entry, error) {
	if c == nil {
		return entry.Entry{}, fmt.Errorf("client is nil")
	}
	body := createRequest{TaskName: name, TaskDescription: description}
	var payload entry.Entry
	if err := c.do(ctx, http.MethodPost, c.entriesURL(), body, &payload); err != nil {
		return entry.Entry{}, err
	}
	return payload, nil
}

// Delete removes an entry and returns its id.
func (c *Client) Delete(ctx context.Context, id entry.ID) (entry.ID, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(string(id)) == "" {
		return "", fmt.Errorf("entry id required")
	}
	if err := c.do(ctx, http.MethodDelete, c.entriesURL(string(id)), nil, nil); err != nil {
		return "", err
	}
	return id, nil
}

// Stop stops a running entry and returns the stopped version.
func (c *Client) Stop(ctx context.Context, id entry.ID) (entry.Entry, error) {
	if c == nil {
		return entry.Entry{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(string(id)) == "" {
		return entry.Entry{}, fmt.Errorf("entry id required")
	}
	var payload entry.Entry
	if err := c.do(ctx, http.MethodPost, c.entriesURL(string(id), "stop"), nil, &payload); err != nil {
		return entry.Entry{}, err
	}
	return payload, nil
}

// entriesURL joins api/entries and segments onto the base URL's path. Each
// segment is escaped on its own, so ids may contain reserved characters.
func (c *Client) entriesURL(segments ...string) *url.URL {
	u := *c.baseURL
	path := strings.TrimSuffix(c.baseURL.Path, "/")
	raw := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	for _, seg := range append([]string{"api", "entries"}, segments...) {
		path += "/" + seg
		raw += "/" + url.PathEscape(seg)
	}
	u.Path = path
	u.RawPath = raw
	return &u
}

func (c *Client) do(ctx context.Context, method string, reqURL *url.URL, body, dest any) error {
	path := reqURL.EscapedPath()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.Must(uuid.NewV7()).String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
