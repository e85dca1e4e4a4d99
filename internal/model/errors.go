package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyQuery is returned when neither skills nor a job field were given.
var ErrEmptyQuery = errors.New("no skills or job field provided")

// ErrMalformedResponse marks a 2xx response whose payload could not be read.
var ErrMalformedResponse = errors.New("malformed provider response")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ProviderError is the failure carried by a ProviderResult.
type ProviderError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
