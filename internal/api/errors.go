// Package api implements the HTTP client for the Todoist API and the error
// taxonomy shared by everything that talks to it.
package api

import (
	"errors"
	"fmt"
)

// Exit codes chosen by the error taxonomy. The CLI boundary maps errors to
// process exit status through ExitCode.
const (
	ExitOK        = 0
	ExitAPI       = 2
	ExitNetwork   = 3
	ExitRateLimit = 4
)

// invalidSyncTokenTag is the server-side tag on the validation error that
// signals an expired or unknown sync token (error_code 34).
const (
	invalidSyncTokenTag  = "SYNC_TOKEN_INVALID"
	invalidSyncTokenCode = 34
)

// AuthError is a 401/403 from the server. Not retryable.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// RateLimitError is a 429 that survived retry exhaustion. RetryAfter holds
// the last Retry-After value in seconds when the server sent one.
type RateLimitError struct {
	RetryAfter *int64
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != nil {
		return fmt.Sprintf("rate limited, retry after %ds", *e.RetryAfter)
	}
	return "rate limited"
}

// NotFoundError identifies a missing entity. The sync manager fills in
// Resource and ID for cache lookups and may attach a fuzzy Suggestion.
type NotFoundError struct {
	Resource   string
	ID         string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s '%s' not found. Try running 'td sync' to refresh your cache.", e.Resource, e.ID)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", e.Suggestion)
	}
	return msg
}

// ValidationError is a 400 from the server or a client-side input rejection.
type ValidationError struct {
	Field   *string
	Message string
	Tag     string // server error_tag, e.g. SYNC_TOKEN_INVALID
	Code    int    // server error_code
}

func (e *ValidationError) Error() string {
	if e.Field != nil {
		return fmt.Sprintf("validation failed on %s: %s", *e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NetworkError covers transport failures: DNS, connect, timeout.
type NetworkError struct {
	Message string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is any other non-2xx status.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// DecodeError is a JSON decode failure on a 2xx response body.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InternalError is a client-side bug surfaced as an error.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

// IsRetryable reports whether retrying the operation could succeed:
// rate limits and transport failures (timeouts, refused connections).
func IsRetryable(err error) bool {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ExitCode maps an error to the process exit status the CLI should use.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return ExitRateLimit
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ExitNetwork
	}
	return ExitAPI
}

// IsInvalidSyncToken reports whether err is the server's stale-sync-token
// validation error. The sync manager intercepts this to fall back to a
// full sync; it is never surfaced to callers.
func IsInvalidSyncToken(err error) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return ve.Tag == invalidSyncTokenTag || ve.Code == invalidSyncTokenCode
}
