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
	tavilyBaseURL        = "https://api.tavily.com"
	tavilyMaxQueryLength = 400
)

// DefaultTavilyDomains restricts Tavily to job boards.
var DefaultTavilyDomains = []string{
	"naukri.com", "linkedin.com", "indeed.com", "monsterindia.com",
	"timesjobs.com", "shine.com", "glassdoor.com",
}

// tavilyRequest is the body of POST /search.
type tavilyRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	MaxResults     int      `json:"max_results"`
}

// tavilyResult is a single hit in the Tavily response.
type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// tavilyResponse is the top-level Tavily search response.
type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

// TavilyConfig configures a TavilyAdapter.
type TavilyConfig struct {
	APIKey         string
	BaseURL        string
	MaxQueryLength int
	Qualifier      string // appended to every query, e.g. "jobs India"
	SearchDepth    string
	IncludeDomains []string
}

// TavilyAdapter searches the Tavily general-purpose search API.
type TavilyAdapter struct {
	cfg        TavilyConfig
	normalizer *filter.Normalizer
	client     *http.Client
}

var _ model.Searcher = (*TavilyAdapter)(nil)

// NewTavilyAdapter creates a new Tavily adapter.
func NewTavilyAdapter(cfg TavilyConfig, normalizer *filter.Normalizer, client *http.Client) *TavilyAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = tavilyBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = tavilyMaxQueryLength
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = "advanced"
	}
	if cfg.IncludeDomains == nil {
		cfg.IncludeDomains = DefaultTavilyDomains
	}
	return &TavilyAdapter{cfg: cfg, normalizer: normalizer, client: client}
}

// Name returns the provider identifier.
func (a *TavilyAdapter) Name() string {
	return "tavily"
}

// Search runs one Tavily search and returns relevance-filtered listings.
// A successful response with no results returns (nil, nil).
func (a *TavilyAdapter) Search(ctx context.Context, q string, maxResults int) ([]model.JobListing, error) {
	body := tavilyRequest{
		Query:          query.Build(q, a.cfg.MaxQueryLength, a.cfg.Qualifier),
		SearchDepth:    a.cfg.SearchDepth,
		IncludeDomains: a.cfg.IncludeDomains,
		MaxResults:     maxResults,
	}
	headers := map[string]string{"Authorization": "Bearer " + a.cfg.APIKey}

	var resp tavilyResponse
	if err := postJSON(ctx, a.client, a.cfg.BaseURL+"/search", headers, body, &resp, "tavily"); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	records := make([]model.RawRecord, 0, len(resp.Results))
	for _, r := range resp.Results {
		records = append(records, model.RawRecord{
			Title:   extractText(r.Title),
			Snippet: extractText(r.Content),
			URL:     r.URL,
		})
	}
	listings := a.normalizer.Normalize(records, maxResults)
	if len(listings) == 0 {
		return nil, nil
	}
	return listings, nil
}
