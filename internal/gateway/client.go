// Package gateway is the HTTP client for the upstream finance-assistant API.
//
// Every call runs under a fixed wall-clock budget and surfaces failures as a
// single *Error value carrying a machine-readable kind. The gateway performs
// no retries; callers decide on fallback behavior.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the per-call budget when none is configured.
const DefaultTimeout = 15 * time.Second

// Kind classifies a gateway failure.
type Kind string

const (
	KindNetwork Kind = "network_unreachable"
	KindTimeout Kind = "timeout"
	KindNonJSON Kind = "non_json_response"
	KindHTTP    Kind = "http_error"
)

// Error is the single error type surfaced by the gateway.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 when the request never completed
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// AsError extracts a gateway *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// Client calls the upstream API. The zero value is not usable; construct with
// New.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call wall-clock budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a gateway client for the given upstream base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call performs a single request against the upstream API and returns the raw
// decoded JSON body. A non-nil body is JSON-encoded into the request.
func (c *Client) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Message: fmt.Sprintf("request to %s timed out after %s", path, c.timeout)}
		}
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("request to %s failed: %v", path, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Message: fmt.Sprintf("request to %s timed out after %s", path, c.timeout)}
		}
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("read response from %s: %v", path, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.WarnContext(ctx, "Upstream call failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode)
		return nil, &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, raw),
		}
	}

	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return nil, &Error{
			Kind:    KindNonJSON,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("unexpected content type %q from %s", resp.Header.Get("Content-Type"), path),
		}
	}

	var out json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &Error{
			Kind:    KindNonJSON,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid JSON from %s: %v", path, err),
		}
	}
	return out, nil
}

// errorMessage extracts a human-readable message from an error body. The
// upstream reports failures in a "detail" or "error" field; anything else
// falls back to a generic status line.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Err != "" {
			return body.Err
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
