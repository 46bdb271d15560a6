// Package apiclient talks to the inventory REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the backend location used when none is configured.
const DefaultBaseURL = "http://localhost:8080/api/v1"

const genericFailure = "API request failed"

// Observer receives one callback per backend call.
type Observer interface {
	ObserveBackendCall(route string, status int, duration time.Duration)
}

// Client issues single-attempt JSON requests against the backend.
type Client struct {
	baseURL  string
	http     *http.Client
	headers  http.Header
	logger   *slog.Logger
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every call. Zero leaves calls unbounded. A client given
// through WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the failure logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithHeader adds a default header sent on every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New constructs a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		headers: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes one call.
type RequestOptions struct {
	Query   url.Values
	Body    any
	Headers http.Header
	// Route labels the call for metrics; defaults to the path.
	Route string
}

type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Request performs method on path and decodes the envelope data into out.
// out may be nil when the caller does not need the payload.
func (c *Client) Request(ctx context.Context, method, path string, opts RequestOptions, out any) (err error) {
	route := opts.Route
	if route == "" {
		route = path
	}
	start := time.Now()
	status := 0
	defer func() {
		if c.observer != nil {
			c.observer.ObserveBackendCall(method+" "+route, status, time.Since(start))
		}
		if err != nil {
			c.logger.Error("api request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Any("error", err))
		}
	}()

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		payload, marshalErr := json.Marshal(opts.Body)
		if marshalErr != nil {
			return &APIError{Method: method, Path: path, Message: genericFailure, Err: marshalErr}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &APIError{Method: method, Path: path, Message: genericFailure, Err: err}
	}
	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range opts.Headers {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: method, Path: path, Message: genericFailure, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Method: method, Path: path, Status: status, Message: genericFailure, Err: err}
	}

	var env envelope
	decodeErr := decodeEnvelope(raw, &env)

	if status < 200 || status > 299 {
		msg := strings.TrimSpace(env.Message)
		if decodeErr != nil || msg == "" {
			msg = genericFailure
		}
		return &APIError{Method: method, Path: path, Status: status, Message: msg}
	}
	if decodeErr != nil {
		return &APIError{Method: method, Path: path, Status: status, Message: genericFailure, Err: decodeErr}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Method: method, Path: path, Status: status, Message: genericFailure, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func decodeEnvelope(raw []byte, env *envelope) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, env)
}

// APIError is returned for every failed backend call.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Err)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap exposes the transport or decode cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the backend status, or 502 when no response was received.
func (e *APIError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

// UserMessage returns the text shown to operators.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailure
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
