package filter

import (
	"strings"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// DefaultKeywords are the job-indicator words a title must contain.
var DefaultKeywords = []string{"job", "hiring", "vacancy", "career", "recruitment"}

// DefaultCompanyWidth is the number of characters of snippet used as the
// company name when a provider gives none.
const DefaultCompanyWidth = 50

// KeywordFilter matches titles that contain any of the keywords.
// Matching is case-insensitive substring.
type KeywordFilter struct {
	keywords []string
}

// NewKeywordFilter returns a filter over the given keywords, or over
// DefaultKeywords when none are given.
func NewKeywordFilter(keywords []string) *KeywordFilter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &KeywordFilter{keywords: lowered}
}

// Match returns true if title contains any keyword.
func (f *KeywordFilter) Match(title string) bool {
	titleLower := strings.ToLower(title)
	for _, kw := range f.keywords {
		if strings.Contains(titleLower, kw) {
			return true
		}
	}
	return false
}

// Normalizer applies the relevance gate to raw provider records, fills in
// defaults, and clips the result.
type Normalizer struct {
	gate         *KeywordFilter
	location     string
	companyWidth int
}

// NewNormalizer builds a Normalizer. location is stamped on every listing.
func NewNormalizer(gate *KeywordFilter, location string, companyWidth int) *Normalizer {
	if gate == nil {
		gate = NewKeywordFilter(nil)
	}
	if companyWidth <= 0 {
		companyWidth = DefaultCompanyWidth
	}
	return &Normalizer{gate: gate, location: location, companyWidth: companyWidth}
}

// Normalize drops records whose title fails the gate, maps the rest to
// listings in provider order, and returns at most max of them.
// Filtering happens before clipping; no extra records are requested to
// make up for dropped ones.
func (n *Normalizer) Normalize(records []model.RawRecord, max int) []model.JobListing {
	listings := make([]model.JobListing, 0, len(records))
	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" || !n.gate.Match(title) {
			continue
		}
		if max > 0 && len(listings) == max {
			break
		}

		company := strings.TrimSpace(r.Company)
		if company == "" {
			company = truncateRunes(strings.TrimSpace(r.Snippet), n.companyWidth)
		}
		link := strings.TrimSpace(r.URL)
		if link == "" {
			link = model.PlaceholderLink
		}

		listings = append(listings, model.JobListing{
			Title:     title,
			Company:   company,
			Location:  n.location,
			ApplyLink: link,
		})
	}
	return listings
}

func truncateRunes(s string, width int) string {
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}
