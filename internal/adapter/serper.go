package adapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/resumesmartx/resumesmartx/internal/filter"
	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/query"
)

const (
	serperBaseURL        = "https://google.serper.dev"
	serperMaxQueryLength = 2048
)

// serperRequest is the body of POST /search.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// serperOrganic is one organic web result.
type serperOrganic struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// serperResponse is the top-level Serper search response.
type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

// SerperConfig configures a SerperAdapter.
type SerperConfig struct {
	APIKey         string
	BaseURL        string
	MaxQueryLength int
	Qualifier      string
}

// SerperAdapter searches Google results through the Serper web-search API.
type SerperAdapter struct {
	cfg        SerperConfig
	normalizer *filter.Normalizer
	client     *http.Client
}

var _ model.Searcher = (*SerperAdapter)(nil)

// NewSerperAdapter creates a new Serper adapter.
func NewSerperAdapter(cfg SerperConfig, normalizer *filter.Normalizer, client *http.Client) *SerperAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = serperBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = serperMaxQueryLength
	}
	return &SerperAdapter{cfg: cfg, normalizer: normalizer, client: client}
}

// Name returns the provider identifier.
func (a *SerperAdapter) Name() string {
	return "serper"
}

// Search runs one Serper search and returns relevance-filtered listings.
// Serper may return more organic results than requested; they are clipped
// locally after filtering.
func (a *SerperAdapter) Search(ctx context.Context, q string, maxResults int) ([]model.JobListing, error) {
	body := serperRequest{
		Q:   query.Build(q, a.cfg.MaxQueryLength, a.cfg.Qualifier),
		Num: maxResults,
	}
	headers := map[string]string{"X-API-KEY": a.cfg.APIKey}

	var resp serperResponse
	if err := postJSON(ctx, a.client, a.cfg.BaseURL+"/search", headers, body, &resp, "serper"); err != nil {
		return nil, err
	}
	if len(resp.Organic) == 0 {
		return nil, nil
	}

	records := make([]model.RawRecord, 0, len(resp.Organic))
	for _, o := range resp.Organic {
		snippet := extractText(o.Snippet)
		records = append(records, model.RawRecord{
			Title:   extractText(o.Title),
			Company: companyFromSnippet(snippet),
			Snippet: snippet,
			URL:     o.Link,
		})
	}
	listings := a.normalizer.Normalize(records, maxResults)
	if len(listings) == 0 {
		return nil, nil
	}
	return listings, nil
}

// companyFromSnippet returns the text before the first " - " in a Google
// snippet, which is usually the employer. Empty when there is no separator.
func companyFromSnippet(snippet string) string {
	if before, _, ok := strings.Cut(snippet, " - "); ok {
		return strings.TrimSpace(before)
	}
	return ""
}
