// lrigschat/services/mistral/errors.go
package mistral

import (
	"errors"
	"fmt"
	"time"
)

// AuthError means the API key was rejected (HTTP 401/403).
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("mistral: authentication failed (status %d): %s", e.Status, e.Detail)
}

// RateLimitError means the provider throttled us (HTTP 429). RetryAfter
// is zero when the provider gave no Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
	Detail     string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("mistral: rate limited, retry after %s: %s", e.RetryAfter, e.Detail)
	}
	return fmt.Sprintf("mistral: rate limited: %s", e.Detail)
}

// ConnectionError wraps transport failures: DNS, refused connections,
// timeouts.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mistral: connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProviderError covers everything else the provider can do wrong:
// unexpected status codes, undecodable bodies, responses without
// choices.
type ProviderError struct {
	Status int
	Detail string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("mistral: provider error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("mistral: provider error: %s", e.Detail)
}

// ErrorKind names the taxonomy class of an API client error, for JSON
// error bodies and logs. Unknown errors report as "provider".
func ErrorKind(err error) string {
	var (
		authErr *AuthError
		rateErr *RateLimitError
		connErr *ConnectionError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &connErr):
		return "connection"
	default:
		return "provider"
	}
}
