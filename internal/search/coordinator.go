// Package search sequences provider calls for one job search and supplies
// placeholder listings when no provider produces a usable result.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/query"
)

// DefaultMaxResults is used when a caller passes max <= 0.
const DefaultMaxResults = 10

// DefaultFallbackListings returns the two sample listings shown when every
// provider is exhausted.
func DefaultFallbackListings(region string) []model.JobListing {
	return []model.JobListing{
		{
			Title:     "Sample Data Scientist",
			Company:   "Sample Company",
			Location:  region,
			ApplyLink: "https://www.example.com/apply",
		},
		{
			Title:     "Sample Software Engineer",
			Company:   "Sample Tech Inc.",
			Location:  region,
			ApplyLink: "https://www.example.com/apply",
		},
	}
}

// Coordinator tries providers strictly in order and returns the first
// non-empty result. It holds no per-search state and is safe for
// concurrent use.
type Coordinator struct {
	providers  []model.Provider
	fallback   []model.JobListing
	defaultMax int
	logger     *slog.Logger
}

// NewCoordinator builds a coordinator over providers in priority order.
// An empty fallback set is replaced by DefaultFallbackListings("").
func NewCoordinator(providers []model.Provider, fallback []model.JobListing, defaultMax int, logger *slog.Logger) *Coordinator {
	if len(fallback) == 0 {
		fallback = DefaultFallbackListings("")
	}
	if defaultMax <= 0 {
		defaultMax = DefaultMaxResults
	}
	return &Coordinator{
		providers:  providers,
		fallback:   fallback,
		defaultMax: defaultMax,
		logger:     logger,
	}
}

// Providers returns the provider names in the order they are tried.
func (c *Coordinator) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Search runs q against each provider until one returns listings. It never
// fails and never returns an empty listing set: when the query is blank,
// the context ends, or every provider is empty or failed, the placeholder
// listings are returned with Fallback set.
func (c *Coordinator) Search(ctx context.Context, q string, max int) model.SearchResult {
	if max <= 0 {
		max = c.defaultMax
	}
	q = strings.TrimSpace(q)
	if q == "" {
		c.logger.Warn("empty search query, using placeholder listings")
		return c.fallbackResult(q, max, nil)
	}

	trace := make([]model.ProviderResult, 0, len(c.providers))
	for _, p := range c.providers {
		if ctx.Err() != nil {
			c.logger.Warn("search cancelled before provider", "provider", p.Name(), "error", ctx.Err())
			break
		}

		res := p.Fetch(ctx, q, max)
		trace = append(trace, res)

		switch {
		case res.Usable():
			listings := res.Listings
			if len(listings) > max {
				listings = listings[:max]
			}
			c.logger.Info("search served",
				"provider", res.Provider,
				"attempts", res.Attempts,
				"listings", len(listings),
			)
			return model.SearchResult{
				Query:    q,
				Provider: res.Provider,
				Listings: listings,
				Trace:    trace,
			}
		case res.Failed():
			c.logger.Warn("provider failed, trying next", "provider", res.Provider, "error", res.Err)
		default:
			c.logger.Info("provider returned no listings, trying next", "provider", res.Provider)
		}
	}

	c.logger.Warn("all providers exhausted, using placeholder listings",
		"query", q,
		"providers", len(c.providers),
	)
	return c.fallbackResult(q, max, trace)
}

// SearchJobs builds the base query from skills, or field when no skills are
// given, and runs Search. An empty query falls through to the placeholders.
func (c *Coordinator) SearchJobs(ctx context.Context, skills []string, field string, max int) model.SearchResult {
	// ErrEmptyQuery leaves base blank, which Search serves from the placeholders.
	base, _ := query.Base(skills, field)
	return c.Search(ctx, base, max)
}

// fallbackResult copies the placeholder set so callers cannot mutate it,
// clipped to max. max is always >= 1 here, so the result is never empty.
func (c *Coordinator) fallbackResult(q string, max int, trace []model.ProviderResult) model.SearchResult {
	n := min(len(c.fallback), max)
	listings := make([]model.JobListing, n)
	copy(listings, c.fallback[:n])
	return model.SearchResult{
		Query:    q,
		Provider: "fallback",
		Fallback: true,
		Listings: listings,
		Trace:    trace,
	}
}
