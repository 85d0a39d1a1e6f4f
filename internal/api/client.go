// Package api is the HTTP client of the marketplace API.
package api

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

	"github.com/google/uuid"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 1 << 20
)

// Client talks to the marketplace API.
type Client struct {
	log     *slog.Logger
	client  *http.Client
	baseURL string
	newKey  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the API served at baseURL.
func NewClient(log *slog.Logger, baseURL string, opts ...Option) *Client {
	c := &Client{
		log:     log,
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		newKey:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// auth attaches the bearer token, even an empty one.
	auth    bool
	token   string
	headers map[string]string
}

// do sends the request and decodes a 2xx body into out when out is not nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create new request %s: %w", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	c.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL.String())

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, r.method, r.path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return statusError(res)
	}

	c.log.DebugContext(ctx, "Received response", "URL", req.URL.String(), "status code", res.StatusCode)

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body from %s", ErrMalformedResponse, r.path)
		}
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, r.path, err)
	}

	return nil
}

func statusError(res *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: res.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return statusErr
	}

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		statusErr.Message = body.text()
	}

	return statusErr
}
