// Package http provides HTTP utilities for fetching remote resources and
// calling JSON APIs.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/security"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps response bodies when no limit is configured.
	DefaultMaxBytes int64 = 20 << 20
)

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout specifies the HTTP request timeout.
	// If zero, DefaultTimeout is used.
	Timeout time.Duration

	// MaxBytes limits the response body size. If zero, DefaultMaxBytes is used.
	MaxBytes int64

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string

	// Client overrides the HTTP client (tests use httptest clients).
	Client *http.Client
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, body)
}

// Fetch retrieves content from a URL with context and timeout support.
// It automatically sets the User-Agent header and handles common HTTP errors.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	return do(ctx, http.MethodGet, url, nil, opts)
}

// GetJSON performs a GET request and decodes the JSON response into out.
func GetJSON(ctx context.Context, url string, out any, opts FetchOptions) error {
	data, err := do(ctx, http.MethodGet, url, nil, withJSONHeaders(opts, false))
	if err != nil {
		return err
	}
	return decode(data, out)
}

// PostJSON encodes body as JSON, POSTs it and decodes the response into out.
// A nil out discards the response body.
func PostJSON(ctx context.Context, url string, body, out any, opts FetchOptions) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	data, err := do(ctx, http.MethodPost, url, payload, withJSONHeaders(opts, true))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(data, out)
}

func do(ctx context.Context, method, url string, payload []byte, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(security.NewLimitedReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: data}
	}

	return data, nil
}

func withJSONHeaders(opts FetchOptions, hasBody bool) FetchOptions {
	headers := make(map[string]string, len(opts.Headers)+2)
	headers["Accept"] = "application/json"
	if hasBody {
		headers["Content-Type"] = "application/json"
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	opts.Headers = headers
	return opts
}

func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
