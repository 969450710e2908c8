package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tdcli/td/internal/debug"
	"github.com/tdcli/td/internal/token"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.todoist.com/api/v1"

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultTimeout        = 30 * time.Second
)

// Client is a token-bearing HTTP client for the Todoist API. It retries 429
// responses with Retry-After or exponential backoff; every other failure is
// terminal. Cheap to copy: the underlying http.Client pools connections.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used against mock servers).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithMaxRetries sets how many times a 429 is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff sets the initial and maximum backoff between 429 retries.
func WithBackoff(initial, max time.Duration) Option {
	return func(c *Client) {
		c.initialBackoff = initial
		c.maxBackoff = max
	}
}

// WithTimeout bounds each HTTP attempt. Retries do not share the budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client authenticated with tok.
func New(tok string, opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		token:          tok,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
	}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// String renders the client configuration. The token never appears.
func (c *Client) String() string {
	return fmt.Sprintf("api.Client{base_url: %s, token: %s, max_retries: %d, timeout: %s}",
		c.baseURL, token.Mask(c.token), c.maxRetries, c.httpClient.Timeout)
}

// calculateBackoff returns the wait before retry attempt+1. A numeric
// Retry-After wins, capped at the maximum; otherwise the exponential
// schedule min(initial * 2^attempt, max).
func (c *Client) calculateBackoff(attempt int, retryAfter *int64) time.Duration {
	if retryAfter != nil {
		d := time.Duration(*retryAfter) * time.Second
		if d > c.maxBackoff {
			d = c.maxBackoff
		}
		return d
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialBackoff
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = c.maxBackoff
	bo.MaxElapsedTime = 0
	bo.Reset()
	d := bo.NextBackOff()
	for i := 0; i < attempt; i++ {
		d = bo.NextBackOff()
	}
	return d
}

// do performs one authenticated request with 429 retry. Returns the response
// body on any 2xx status.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	var lastRetryAfter *int64
	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, &InternalError{Message: fmt.Sprintf("building request: %v", err)}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, transportError(err)
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, transportError(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			lastRetryAfter = retryAfter
			if attempt < c.maxRetries {
				wait := c.calculateBackoff(attempt, retryAfter)
				debug.Logf("td: rate limited, retrying in %s (attempt %d/%d)\n", wait, attempt+1, c.maxRetries)
				if err := c.sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &RateLimitError{RetryAfter: lastRetryAfter}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, errorFromStatus(resp.StatusCode, respBody)
		}

		return respBody, nil
	}
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &InternalError{Message: fmt.Sprintf("encoding request body: %v", err)}
	}
	body, err := c.do(ctx, http.MethodPost, path, "application/json", payload)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// PostEmpty issues an authenticated POST with no body.
func (c *Client) PostEmpty(ctx context.Context, path string, out interface{}) error {
	body, err := c.do(ctx, http.MethodPost, path, "", nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// Delete issues an authenticated DELETE; any 2xx is success.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, "", nil)
	return err
}

// Sync posts a form-encoded request to the sync endpoint. Empty
// resource_types and commands lists are omitted from the form.
func (c *Client) Sync(ctx context.Context, req SyncRequest) (*SyncResponse, error) {
	form := url.Values{}
	form.Set("sync_token", req.SyncToken)
	if len(req.ResourceTypes) > 0 {
		encoded, err := json.Marshal(req.ResourceTypes)
		if err != nil {
			return nil, &InternalError{Message: fmt.Sprintf("encoding resource_types: %v", err)}
		}
		form.Set("resource_types", string(encoded))
	}
	if len(req.Commands) > 0 {
		encoded, err := json.Marshal(req.Commands)
		if err != nil {
			return nil, &InternalError{Message: fmt.Sprintf("encoding commands: %v", err)}
		}
		form.Set("commands", string(encoded))
	}

	body, err := c.do(ctx, http.MethodPost, "/sync", "application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		return nil, err
	}
	var resp SyncResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QuickAdd creates a task from natural-language text in a single request.
func (c *Client) QuickAdd(ctx context.Context, req QuickAddRequest) (*QuickAddResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: strPtr("text"), Message: "text must not be empty"}
	}
	var resp QuickAddResponse
	if err := c.Post(ctx, "/tasks/quick", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func decode(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// serverError is the error body shape the API sends on 4xx.
type serverError struct {
	Error     string  `json:"error"`
	ErrorCode int     `json:"error_code"`
	ErrorTag  string  `json:"error_tag"`
	HTTPCode  int     `json:"http_code"`
	Field     *string `json:"field,omitempty"`
}

func errorFromStatus(status int, body []byte) error {
	var se serverError
	_ = json.Unmarshal(body, &se)
	message := se.Error
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "Authentication failed"
		}
		return &AuthError{Message: message}
	case http.StatusNotFound:
		return &NotFoundError{Resource: "resource", ID: "unknown"}
	case http.StatusBadRequest:
		return &ValidationError{
			Field:   se.Field,
			Message: message,
			Tag:     se.ErrorTag,
			Code:    se.ErrorCode,
		}
	default:
		return &HTTPError{Status: status, Message: message}
	}
}

func transportError(err error) error {
	timeout := false
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}
	return &NetworkError{Message: err.Error(), Timeout: timeout, Err: err}
}

func parseRetryAfter(header string) *int64 {
	if header == "" {
		return nil
	}
	secs, err := strconv.ParseInt(header, 10, 64)
	if err != nil || secs < 0 {
		return nil
	}
	return &secs
}

func strPtr(s string) *string { return &s }
