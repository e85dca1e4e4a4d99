package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

const (
	// DefaultMaxAttempts is the total number of attempts per provider call.
	DefaultMaxAttempts = 3
	// DefaultDelay is the constant pause between attempts.
	DefaultDelay = 2 * time.Second
	// maxRetryAfter caps how long a Retry-After header can stretch the delay.
	maxRetryAfter = 30 * time.Second
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy is a constant-delay retry policy.
type Policy struct {
	MaxAttempts    int           // total attempts, including the first
	Delay          time.Duration // fixed pause between attempts
	AttemptTimeout time.Duration // per-attempt deadline; zero means none
	Sleep          SleepFunc     // defaults to a context-aware timer
}

// DefaultPolicy returns the reference policy: 3 attempts, 2s apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// Do calls fn until it succeeds, fails permanently, or the attempt ceiling
// is reached. It returns the number of attempts made and the last error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.delayFor(lastErr)); err != nil {
				return attempt - 1, fmt.Errorf("retry cancelled: %w", err)
			}
		}

		lastErr = p.attempt(ctx, fn)
		if lastErr == nil {
			return attempt, nil
		}
		// The caller's context ending is never worth another attempt.
		if ctx.Err() != nil {
			return attempt, lastErr
		}
		if !isRetryable(lastErr) {
			return attempt, lastErr
		}
	}
	return maxAttempts, lastErr
}

func (p Policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx)
}

// delayFor returns the constant delay, stretched by a Retry-After hint from
// an HTTP 429 when one is present.
func (p Policy) delayFor(err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > p.Delay {
		return min(httpErr.RetryAfter, maxRetryAfter)
	}
	return p.Delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isRetryable returns true if the error represents a transient failure worth retrying.
// Per-attempt deadlines surface as context.DeadlineExceeded and are retried;
// the caller's own cancellation is checked separately in Do.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429 Too Many Requests — retryable.
		if httpErr.StatusCode == 429 {
			return true
		}
		// 5xx — retryable.
		if httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429) — bad key or bad request, retrying will not help.
		return false
	}

	// Network, DNS, per-attempt timeout, malformed payload — retryable.
	return true
}

// RetryProvider applies a Policy to a single-attempt Searcher and reports
// the outcome as a model.ProviderResult instead of an error.
type RetryProvider struct {
	inner  model.Searcher
	policy Policy
	logger *slog.Logger
}

var _ model.Provider = (*RetryProvider)(nil)

// NewRetryProvider wraps a Searcher with retry logic.
func NewRetryProvider(inner model.Searcher, policy Policy, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{
		inner:  inner,
		policy: policy,
		logger: logger,
	}
}

// Name returns the wrapped searcher's name.
func (p *RetryProvider) Name() string {
	return p.inner.Name()
}

// Fetch runs the search under the retry policy.
func (p *RetryProvider) Fetch(ctx context.Context, query string, maxResults int) model.ProviderResult {
	var listings []model.JobListing
	attempts, err := p.policy.Do(ctx, func(ctx context.Context) error {
		got, err := p.inner.Search(ctx, query, maxResults)
		if err != nil {
			p.logger.Warn("provider attempt failed",
				"provider", p.inner.Name(),
				"max_attempts", p.policy.MaxAttempts,
				"error", err,
			)
			return err
		}
		listings = got
		return nil
	})
	if err != nil {
		p.logger.Error("provider failed",
			"provider", p.inner.Name(),
			"attempts", attempts,
			"error", err,
		)
		return model.Failure(p.inner.Name(), err, attempts)
	}

	if maxResults > 0 && len(listings) > maxResults {
		listings = listings[:maxResults]
	}
	p.logger.Debug("provider succeeded",
		"provider", p.inner.Name(),
		"attempts", attempts,
		"listings", len(listings),
	)
	return model.Success(p.inner.Name(), listings, attempts)
}
