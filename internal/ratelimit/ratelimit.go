package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// ProviderRateLimiter enforces a minimum delay between requests to the same
// search provider. One limiter is shared by every caller of a provider so
// the API server and alert pollers do not burst against its quota.
type ProviderRateLimiter struct {
	mu        sync.Mutex
	nextSlot  map[string]time.Time     // key: provider name
	minDelay  time.Duration            // default delay between requests to the same provider
	overrides map[string]time.Duration // per-provider delay
}

// NewProviderRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same provider. overrides may be nil.
func NewProviderRateLimiter(minDelay time.Duration, overrides map[string]time.Duration) *ProviderRateLimiter {
	return &ProviderRateLimiter{
		nextSlot:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (r *ProviderRateLimiter) delayFor(provider string) time.Duration {
	if d, ok := r.overrides[provider]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until the provider's next slot. Each caller reserves its slot
// under the lock, so concurrent waiters are spaced out rather than released
// together. Returns an error if the context is cancelled while waiting; a
// cancelled caller releases its slot when nobody has queued after it.
func (r *ProviderRateLimiter) Wait(ctx context.Context, provider string) error {
	r.mu.Lock()
	now := time.Now()
	slot := now
	if next, ok := r.nextSlot[provider]; ok && next.After(now) {
		slot = next
	}
	reserved := slot.Add(r.delayFor(provider))
	r.nextSlot[provider] = reserved
	r.mu.Unlock()

	remaining := slot.Sub(now)
	if remaining <= 0 {
		return nil
	}

	t := time.NewTimer(remaining)
	defer t.Stop()
	select {
	case <-ctx.Done():
		// Give the slot back unless a later caller has already queued behind it.
		r.mu.Lock()
		if r.nextSlot[provider].Equal(reserved) {
			r.nextSlot[provider] = slot
		}
		r.mu.Unlock()
		return fmt.Errorf("rate limiter wait for %s: %w", provider, ctx.Err())
	case <-t.C:
		return nil
	}
}

// RateLimitedSearcher is a decorator that enforces provider-level rate
// limiting before delegating to the wrapped Searcher. Placed under the
// retry decorator, every attempt is rate limited.
type RateLimitedSearcher struct {
	inner   model.Searcher
	limiter *ProviderRateLimiter
}

var _ model.Searcher = (*RateLimitedSearcher)(nil)

// NewRateLimitedSearcher wraps a Searcher with provider-level rate limiting.
// All searchers targeting the same provider should share the same limiter instance.
func NewRateLimitedSearcher(inner model.Searcher, limiter *ProviderRateLimiter) *RateLimitedSearcher {
	return &RateLimitedSearcher{inner: inner, limiter: limiter}
}

// Name returns the wrapped searcher's name.
func (s *RateLimitedSearcher) Name() string {
	return s.inner.Name()
}

// Search waits for the rate limiter to allow a request, then delegates to
// the wrapped searcher.
func (s *RateLimitedSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.JobListing, error) {
	if err := s.limiter.Wait(ctx, s.inner.Name()); err != nil {
		return nil, err
	}
	return s.inner.Search(ctx, query, maxResults)
}
