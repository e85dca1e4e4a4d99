package filter

import (
	"strings"
	"testing"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

func TestKeywordFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		keywords  []string
		title     string
		wantMatch bool
	}{
		{name: "hiring in title", title: "Acme is Hiring Data Scientists", wantMatch: true},
		{name: "job as substring", title: "Data Science Jobs in Bangalore", wantMatch: true},
		{name: "careers page", title: "Careers at Initech", wantMatch: true},
		{name: "case insensitive", title: "VACANCY: Backend Developer", wantMatch: true},
		{name: "news article", title: "Data Science trends 2024", wantMatch: false},
		{name: "custom keywords", keywords: []string{"opening"}, title: "New opening for SRE", wantMatch: true},
		{name: "custom keywords replace defaults", keywords: []string{"opening"}, title: "Hiring SRE", wantMatch: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewKeywordFilter(tt.keywords)
			if got := f.Match(tt.title); got != tt.wantMatch {
				t.Errorf("Match(%q) = %v, want %v", tt.title, got, tt.wantMatch)
			}
		})
	}
}

func TestNormalize_GateAndDefaults(t *testing.T) {
	n := NewNormalizer(nil, "India", 0)
	records := []model.RawRecord{
		{Title: "Hiring: ML Engineer", Company: "Acme", URL: "https://acme.example/1"},
		{Title: "Data Science trends 2024", Snippet: "news", URL: "https://news.example/a"},
		{Title: "Data Analyst Job", Snippet: strings.Repeat("s", 80)},
		{Title: "", Snippet: "no title job"},
	}

	got := n.Normalize(records, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d: %+v", len(got), got)
	}
	if got[0].Company != "Acme" || got[0].ApplyLink != "https://acme.example/1" || got[0].Location != "India" {
		t.Errorf("first listing = %+v", got[0])
	}
	if len(got[1].Company) != DefaultCompanyWidth {
		t.Errorf("company width = %d, want %d", len(got[1].Company), DefaultCompanyWidth)
	}
	if got[1].ApplyLink != model.PlaceholderLink {
		t.Errorf("apply link = %q, want placeholder", got[1].ApplyLink)
	}
}

func TestNormalize_ClipsAfterFiltering(t *testing.T) {
	n := NewNormalizer(nil, "India", 50)
	records := []model.RawRecord{
		{Title: "Industry news"},
		{Title: "Job 1"},
		{Title: "Job 2"},
		{Title: "Job 3"},
	}

	got := n.Normalize(records, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].Title != "Job 1" || got[1].Title != "Job 2" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestNormalize_CompanyTruncationKeepsRunes(t *testing.T) {
	n := NewNormalizer(nil, "India", 3)
	got := n.Normalize([]model.RawRecord{{Title: "Job", Snippet: "日本語テキスト"}}, 1)
	if len(got) != 1 || got[0].Company != "日本語" {
		t.Errorf("company = %q, want 日本語", got[0].Company)
	}
}
