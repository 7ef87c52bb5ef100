package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSubmit wraps every failure of a remote submission.
var ErrSubmit = errors.New("leaderboard: remote submit failed")

// DefaultSubmitTimeout bounds a single remote submission.
const DefaultSubmitTimeout = 5 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 10

// Submitter sends a finished run to a scoring service and returns the entry
// as the service stored it.
type Submitter interface {
	Submit(ctx context.Context, name string, score int) (Entry, error)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client talks to the remote scoring API: POST {base}/api/scores.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a client for the service at baseURL (e.g. "https://snake.example.com").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL scores are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + "/api/scores"
}

type submitRequest struct {
	Name  *string `json:"name"`
	Score int     `json:"score"`
}

type submitResponse struct {
	Name  json.RawMessage `json:"name"`
	Score *int            `json:"score"`
	TS    string          `json:"ts"`
}

// Submit posts the run. Any non-2xx status, transport error, timeout or
// response without a score is reported as an error wrapping ErrSubmit.
// Fields the service leaves out are taken from the request; a missing
// timestamp is returned empty.
func (c *Client) Submit(ctx context.Context, name string, score int) (Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := submitRequest{Score: score}
	if name != "" {
		payload.Name = &name
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: encode request: %w", ErrSubmit, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: build request: %w", ErrSubmit, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		//nolint:errcheck // Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Entry{}, fmt.Errorf("%w: status %d", ErrSubmit, resp.StatusCode)
	}

	var raw submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&raw); err != nil {
		return Entry{}, fmt.Errorf("%w: decode response: %w", ErrSubmit, err)
	}
	if raw.Score == nil {
		return Entry{}, fmt.Errorf("%w: response has no score", ErrSubmit)
	}

	entry := Entry{Name: name, Score: *raw.Score, Timestamp: raw.TS}
	if len(raw.Name) > 0 {
		var remoteName *string
		if err := json.Unmarshal(raw.Name, &remoteName); err != nil {
			return Entry{}, fmt.Errorf("%w: decode name: %w", ErrSubmit, err)
		}
		entry.Name = ""
		if remoteName != nil {
			entry.Name = *remoteName
		}
	}
	return entry, nil
}

var _ Submitter = (*Client)(nil)
