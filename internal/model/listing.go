package model

import (
	"context"
	"strings"
	"time"
)

// PlaceholderLink is the apply link used when a provider gives no URL.
const PlaceholderLink = "#"

// JobListing is the normalized output record shared by every provider.
type JobListing struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	ApplyLink string `json:"apply_link"`
}

// Key identifies a listing for deduplication. The apply link is preferred;
// listings without one fall back to title and company.
func (l JobListing) Key() string {
	if l.ApplyLink != "" && l.ApplyLink != PlaceholderLink {
		return l.ApplyLink
	}
	return strings.ToLower(l.Title) + "|" + strings.ToLower(l.Company)
}

// RawRecord is a provider result after schema mapping but before the
// relevance gate and field defaulting.
type RawRecord struct {
	Title   string
	Company string // empty when the provider has no explicit company field
	Snippet string
	URL     string
}

// Searcher performs a single search attempt against one backend.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]JobListing, error)
}

// Provider is a Searcher with its retry policy applied. Fetch never returns
// a Go error: failures are reported inside the ProviderResult.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string, maxResults int) ProviderResult
}

// ListingStore tracks which listings have already been alerted on.
type ListingStore interface {
	HasSeen(key string) (bool, error)
	MarkSeen(key string) error
	Cleanup(olderThan time.Duration) error
	IsSeeded(search string) (bool, error)
	MarkSeeded(search string) error
}

// SearchRecord is one row of search history.
type SearchRecord struct {
	ID        string
	Query     string
	Provider  string
	Fallback  bool
	Results   int
	CreatedAt time.Time
}

// SearchRecorder persists search history.
type SearchRecorder interface {
	RecordSearch(rec SearchRecord) error
	RecentSearches(limit int) ([]SearchRecord, error)
}

// UsageRecorder persists external API usage (LLM calls and token estimates).
type UsageRecorder interface {
	RecordUsage(action string, tokens int) error
}

// Notifier sends notifications for new job listings.
type Notifier interface {
	Notify(listings []JobListing) error
}
