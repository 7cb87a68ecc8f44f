package api

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

	"github.com/google/uuid"

	"mynote-cli/internal/logger"
)

// ErrSessionExpired is returned for 401/419 responses. Callers are expected
// to clear local credentials and send the user back to login.
var ErrSessionExpired = errors.New("session expired")

// StatusError is a non-2xx response that did not carry a server message.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// ServerError is a rejected call carrying the message from a
// {success:false, message} envelope.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "api call failed"
	}
	return e.Message
}

// TokenSource supplies the current bearer token. It is read per request so
// a login during the process lifetime takes effect immediately.
type TokenSource func() string

// Client talks to the MyNote backend. All JSON endpoints use the
// {success, data, message} envelope; see do for the unwrap rules.
type Client struct {
	baseURL string
	http    *http.Client
	// stream has no timeout: upload processing can run for minutes and is
	// cancelled via context instead.
	stream *http.Client
	token  TokenSource
}

func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		stream:  &http.Client{},
		token:   token,
	}
}

// envelope matches the backend's ApiResponse wrapper. Success is a pointer
// so a body without the wrapper can be told apart and passed through as-is.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// do issues a JSON request and decodes the response into out (may be nil).
// Envelope bodies are unwrapped: success:true yields data, success:false
// becomes a *ServerError. Bodies without the envelope are decoded directly.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("api request", map[string]interface{}{"method": method, "path": path})
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == 419:
		return ErrSessionExpired
	case resp.StatusCode == http.StatusNoContent:
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			return &ServerError{Message: env.Message}
		}
		return &StatusError{Code: resp.StatusCode}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	payload := raw
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if !*env.Success {
			return &ServerError{Message: env.Message}
		}
		payload = env.Data
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// Stream issues a request whose response body is consumed by the caller
// (the upload progress stream). The body is not envelope-unwrapped; the
// caller owns it and must close it.
func (c *Client) Stream(ctx context.Context, method, path, contentType string, body io.Reader) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == 419 {
		resp.Body.Close()
		return nil, ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp.Body, nil
}
