package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public notes backend
const DefaultBaseURL = "https://vidysea-notes-backend.onrender.com"

// ErrMalformedResponse is returned when a 2xx body does not have the expected shape
var ErrMalformedResponse = errors.New("malformed response")

// TokenSource supplies the bearer token attached to each request
type TokenSource interface {
	Token() (string, bool)
}

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	// Message is the human-readable message from the response body, if any
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Body)
}

// Client represents an HTTP client for the notes REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// New creates a new API client
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetLogger sets the logger used for request tracing
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTokenSource returns a copy of the client that authorizes requests
// with tokens from ts
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// do sends a request and decodes a 2xx JSON body into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok && token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrMalformedResponse, err)
	}

	return nil
}

// extractMessage pulls a human-readable message out of an error body.
// The backend uses "message"; "detail" and "error" are accepted as well.
func extractMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}

	for _, key := range []string{"message", "detail", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}

	return ""
}
