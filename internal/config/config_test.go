package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv("TEST_TAVILY_KEY", "tvly-123")
	path := writeConfig(t, `
region: India
max_results: 5
search:
  relevance_keywords: [job, hiring]
  attempt_timeout: 10s
  retry:
    max_attempts: 4
    delay: 1s
providers:
  - name: tavily
    api_key: ${TEST_TAVILY_KEY}
    enabled: true
    include_domains: [naukri.com]
  - name: Serper
    api_key: abc
    enabled: false
fallback_listings:
  - title: Sample Go Developer
    company: Sample Co
    location: India
    apply_link: https://www.example.com/apply
ai:
  enabled: true
  provider: openai
  api_key: sk-test
rate_limit:
  min_delay: 500ms
  provider_overrides:
    serper: 2s
alerts:
  polling_interval: 30m
  saved_searches:
    - name: go-backend
      skills: [Go, Kubernetes]
    - name: data
      job_field: Data Science
      max_results: 3
store:
  path: /tmp/rsx.db
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "India" || cfg.MaxResults != 5 {
		t.Errorf("Region/MaxResults = %q/%d", cfg.Region, cfg.MaxResults)
	}
	if cfg.Search.MaxAttempts != 4 || cfg.Search.RetryDelay != time.Second || cfg.Search.AttemptTimeout != 10*time.Second {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.CompanyWidth != 50 {
		t.Errorf("CompanyWidth = %d, want default 50", cfg.Search.CompanyWidth)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0].APIKey != "tvly-123" || cfg.Providers[1].Name != "serper" {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
	if cfg.Providers[1].Enabled {
		t.Error("serper should be disabled")
	}
	if len(cfg.FallbackListings) != 1 || cfg.FallbackListings[0].Title != "Sample Go Developer" {
		t.Errorf("FallbackListings = %+v", cfg.FallbackListings)
	}
	if cfg.AI.Model != "gpt-4o-mini" || cfg.AI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("AI defaults not applied: %+v", cfg.AI)
	}
	if cfg.RateLimit.MinDelayFor("serper") != 2*time.Second || cfg.RateLimit.MinDelayFor("tavily") != 500*time.Millisecond {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if cfg.Alerts.PollingInterval != 30*time.Minute || len(cfg.Alerts.SavedSearches) != 2 {
		t.Errorf("Alerts = %+v", cfg.Alerts)
	}
	if cfg.Alerts.SavedSearches[0].MaxResults != 5 || cfg.Alerts.SavedSearches[1].MaxResults != 3 {
		t.Errorf("saved search max results = %d/%d", cfg.Alerts.SavedSearches[0].MaxResults, cfg.Alerts.SavedSearches[1].MaxResults)
	}
	if cfg.Store.Path != "/tmp/rsx.db" || cfg.Server.Addr != ":9090" {
		t.Errorf("Store/Server = %+v/%+v", cfg.Store, cfg.Server)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-env")
	t.Setenv("SERPER_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gem-env")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Region != "India" || cfg.MaxResults != 10 {
		t.Errorf("Region/MaxResults = %q/%d", cfg.Region, cfg.MaxResults)
	}
	if cfg.Search.MaxAttempts != 3 || cfg.Search.RetryDelay != 2*time.Second {
		t.Errorf("retry defaults = %+v", cfg.Search)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0].Name != "tavily" || cfg.Providers[0].APIKey != "tvly-env" {
		t.Errorf("Providers = %+v", cfg.Providers)
	}
	if !cfg.AI.Enabled || cfg.AI.Provider != "gemini" || cfg.AI.Model != "gemini-1.5-flash" || cfg.AI.APIKey != "gem-env" {
		t.Errorf("AI = %+v", cfg.AI)
	}
	if cfg.Store.Path != "resumesmartx.db" || cfg.Server.Addr != ":8080" {
		t.Errorf("Store/Server = %+v/%+v", cfg.Store, cfg.Server)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "region: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad duration",
			content: "search:\n  retry:\n    delay: soon\n",
			wantErr: "search.retry.delay",
		},
		{
			name:    "unknown provider",
			content: "providers:\n  - name: bing\n    enabled: true\n",
			wantErr: "unknown provider",
		},
		{
			name:    "duplicate provider",
			content: "providers:\n  - name: tavily\n  - name: tavily\n",
			wantErr: "more than once",
		},
		{
			name:    "negative attempts",
			content: "search:\n  retry:\n    max_attempts: -1\n",
			wantErr: "max_attempts",
		},
		{
			name:    "slack without webhook",
			content: "notification:\n  type: slack\n",
			wantErr: "webhook_url is required",
		},
		{
			name:    "slack with wrong host",
			content: "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n",
			wantErr: "must start with",
		},
		{
			name:    "ai without key",
			content: "ai:\n  enabled: true\n  provider: gemini\n",
			wantErr: "ai.api_key",
		},
		{
			name:    "ai unknown provider",
			content: "ai:\n  enabled: true\n  provider: claude\n  api_key: x\n",
			wantErr: "ai.provider",
		},
		{
			name:    "saved search without input",
			content: "alerts:\n  saved_searches:\n    - name: empty\n",
			wantErr: "needs skills or a job_field",
		},
		{
			name:    "fallback listing without title",
			content: "fallback_listings:\n  - company: Acme\n",
			wantErr: "fallback_listings[0].title",
		},
		{
			name:    "bad provider override",
			content: "rate_limit:\n  provider_overrides:\n    tavily: fast\n",
			wantErr: "provider_overrides",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}
