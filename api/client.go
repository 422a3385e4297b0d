// Package api is a typed client for the Sweet Shop REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sweet-shop/storage"
)

// networkErrorMessage is reported when a failed response carries no readable body
const networkErrorMessage = "Network error"

// Error is returned when the API responds with a non-2xx status
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an *Error
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is a typed client for the Sweet Shop API. The base URL is fixed
// for the lifetime of the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     storage.Storage
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets where the bearer token is read from before each request
func WithTokenStore(s storage.Storage) Option {
	return func(c *Client) { c.tokens = s }
}

// New creates a Client for baseURL, e.g. "http://localhost:3001/api"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API base the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.GetItem(ctx, storage.AuthTokenKey)
	if err != nil {
		return ""
	}
	return tok
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
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

func decodeError(resp *http.Response) error {
	var body MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		body.Message = networkErrorMessage
	}
	if body.Message == "" {
		body.Message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: body.Message}
}
