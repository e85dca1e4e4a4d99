// Package alert polls saved searches and notifies about listings that have
// not been seen before.
package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// Searcher runs one job search. *search.Coordinator satisfies it.
type Searcher interface {
	SearchJobs(ctx context.Context, skills []string, field string, max int) model.SearchResult
}

// SavedSearch is a search the user wants to be alerted about.
type SavedSearch struct {
	Name       string
	Skills     []string
	JobField   string
	MaxResults int
}

// SearchPoller owns the full poll pipeline for a single saved search:
// search → dedup → notify → mark seen.
type SearchPoller struct {
	search   SavedSearch
	searcher Searcher
	store    model.ListingStore
	notifier model.Notifier
	logger   *slog.Logger
	noSeed   bool
}

// NewSearchPoller creates a poller wired with all its dependencies.
func NewSearchPoller(
	search SavedSearch,
	searcher Searcher,
	store model.ListingStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *SearchPoller {
	return &SearchPoller{
		search:   search,
		searcher: searcher,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Name returns the saved search name.
func (p *SearchPoller) Name() string {
	return p.search.Name
}

// DisableSeeding makes the first cycle notify like any other. One-shot
// checks against a store that remembers nothing use it.
func (p *SearchPoller) DisableSeeding() {
	p.noSeed = true
}

// listingKey scopes a listing to this saved search so two searches that
// find the same listing both alert on it.
func (p *SearchPoller) listingKey(l model.JobListing) string {
	return p.search.Name + "|" + l.Key()
}

// Poll runs one poll cycle. Placeholder results are never alerted or
// stored. The first successful cycle for a saved search seeds the store
// without notifying.
func (p *SearchPoller) Poll(ctx context.Context) error {
	res := p.searcher.SearchJobs(ctx, p.search.Skills, p.search.JobField, p.search.MaxResults)
	if res.Fallback {
		p.logger.Warn("no live results for saved search", "search", p.search.Name, "query", res.Query)
		return nil
	}

	seeded := p.noSeed
	if !seeded {
		var err error
		seeded, err = p.store.IsSeeded(p.search.Name)
		if err != nil {
			return fmt.Errorf("polling %s: checking seed status: %w", p.search.Name, err)
		}
	}

	var newListings []model.JobListing
	for _, l := range res.Listings {
		seen, err := p.store.HasSeen(p.listingKey(l))
		if err != nil {
			return fmt.Errorf("polling %s: checking seen status: %w", p.search.Name, err)
		}
		if !seen {
			newListings = append(newListings, l)
		}
	}

	if !seeded {
		for _, l := range newListings {
			if err := p.store.MarkSeen(p.listingKey(l)); err != nil {
				return fmt.Errorf("polling %s: seeding: %w", p.search.Name, err)
			}
		}
		if err := p.store.MarkSeeded(p.search.Name); err != nil {
			return fmt.Errorf("polling %s: seeding: %w", p.search.Name, err)
		}
		p.logger.Info("seeded saved search", "search", p.search.Name, "listings", len(newListings))
		return nil
	}

	if len(newListings) > 0 {
		if err := p.notifier.Notify(newListings); err != nil {
			return fmt.Errorf("polling %s: notifying: %w", p.search.Name, err)
		}
	}

	for _, l := range newListings {
		if err := p.store.MarkSeen(p.listingKey(l)); err != nil {
			return fmt.Errorf("polling %s: marking seen: %w", p.search.Name, err)
		}
	}

	p.logger.Info("polled saved search",
		"search", p.search.Name,
		"provider", res.Provider,
		"fetched", len(res.Listings),
		"new", len(newListings),
	)
	return nil
}
