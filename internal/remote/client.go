package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain"
)

const maxErrorBody = 64 << 10

// Client talks to the storefront REST API. It never retries; a failed call is
// reported once to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New builds a Client for baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// APIError describes a non-2xx response or a transport failure.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

// Unwrap exposes the domain error kind so callers can use errors.Is.
func (e *APIError) Unwrap() error { return e.kind }

// Message returns the server supplied message of err, or fallback when the
// server did not send one.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Msg
	}
	return fallback
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case status == http.StatusForbidden:
		return domain.ErrUnauthorized
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= 400 && status < 500:
		return domain.ErrRejected
	default:
		return domain.ErrUnavailable
	}
}

type request struct {
	method     string
	path       string
	credential string
	query      url.Values
	body       any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.credential)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logf("%s %s: %v", req.method, req.path, err)
		return &APIError{Method: req.method, Path: req.path, Message: err.Error(), kind: domain.ErrUnavailable}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:  req.method,
			Path:    req.path,
			Status:  resp.StatusCode,
			Message: errorMessage(io.LimitReader(resp.Body, maxErrorBody)),
			kind:    kindForStatus(resp.StatusCode),
		}
		if resp.StatusCode >= 500 {
			c.logf("%v", apiErr)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{
			Method:  req.method,
			Path:    req.path,
			Status:  resp.StatusCode,
			Message: "decode response: " + err.Error(),
			kind:    domain.ErrUnavailable,
		}
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(r)
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf("remote: "+format, args...)
	}
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
