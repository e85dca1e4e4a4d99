package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for ResumeSmartX.
type Config struct {
	Region           string
	MaxResults       int
	Search           SearchConfig
	Providers        []ProviderConfig
	FallbackListings []ListingConfig
	AI               AIConfig
	Notification     NotificationConfig
	RateLimit        RateLimitConfig
	Alerts           AlertsConfig
	Store            StoreConfig
	Server           ServerConfig
}

// SearchConfig controls the relevance gate and the retry policy shared by
// every provider.
type SearchConfig struct {
	RelevanceKeywords []string
	CompanyWidth      int
	MaxAttempts       int
	RetryDelay        time.Duration
	AttemptTimeout    time.Duration // per-attempt deadline; zero means none
}

// ProviderConfig describes one search backend. Providers are tried in the
// order they are listed.
type ProviderConfig struct {
	Name           string   `yaml:"name"` // "tavily" or "serper"
	APIKey         string   `yaml:"api_key"`
	BaseURL        string   `yaml:"base_url"`
	MaxQueryLength int      `yaml:"max_query_length"`
	Enabled        bool     `yaml:"enabled"`
	SearchDepth    string   `yaml:"search_depth"`    // tavily only
	IncludeDomains []string `yaml:"include_domains"` // tavily only
}

// ListingConfig is one static placeholder listing.
type ListingConfig struct {
	Title     string `yaml:"title"`
	Company   string `yaml:"company"`
	Location  string `yaml:"location"`
	ApplyLink string `yaml:"apply_link"`
}

// AIConfig controls skill extraction from résumés.
type AIConfig struct {
	Enabled  bool
	Provider string        // "gemini" or "openai"
	BaseURL  string        // openai only; defaults to https://api.openai.com/v1
	Model    string        // e.g. "gemini-1.5-flash" or "gpt-4o-mini"
	APIKey   string        // expanded from env var by Load
	Timeout  time.Duration // per-request timeout
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// RateLimitConfig controls provider-level rate limiting.
type RateLimitConfig struct {
	MinDelay          time.Duration            // minimum gap between requests to the same provider
	ProviderOverrides map[string]time.Duration // per-provider overrides, keyed by provider name
}

// MinDelayFor returns the configured delay for the given provider, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(provider string) time.Duration {
	if d, ok := r.ProviderOverrides[provider]; ok {
		return d
	}
	return r.MinDelay
}

// AlertsConfig lists the saved searches polled by "alerts start".
type AlertsConfig struct {
	PollingInterval time.Duration
	Pause           time.Duration // gap between saved searches within a cycle
	SavedSearches   []SavedSearchConfig
}

// SavedSearchConfig is one saved search.
type SavedSearchConfig struct {
	Name       string   `yaml:"name"`
	Skills     []string `yaml:"skills"`
	JobField   string   `yaml:"job_field"`
	MaxResults int      `yaml:"max_results"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS; empty allows all
}

const (
	defaultRegion         = "India"
	defaultMaxResults     = 10
	defaultCompanyWidth   = 50
	defaultMaxAttempts    = 3
	defaultRetryDelay     = 2 * time.Second
	defaultAttemptTimeout = 15 * time.Second
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultAITimeout      = 30 * time.Second
	defaultMinDelay       = 1 * time.Second
	defaultAlertInterval  = 1 * time.Hour
	defaultAlertPause     = 2 * time.Second
	defaultStorePath      = "resumesmartx.db"
	defaultServerAddr     = ":8080"
)

// knownProviders are the provider names an adapter exists for.
var knownProviders = map[string]bool{"tavily": true, "serper": true}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Region           string             `yaml:"region"`
	MaxResults       int                `yaml:"max_results"`
	Search           rawSearchConfig    `yaml:"search"`
	Providers        []ProviderConfig   `yaml:"providers"`
	FallbackListings []ListingConfig    `yaml:"fallback_listings"`
	AI               rawAIConfig        `yaml:"ai"`
	Notification     NotificationConfig `yaml:"notification"`
	RateLimit        rawRateLimitConfig `yaml:"rate_limit"`
	Alerts           rawAlertsConfig    `yaml:"alerts"`
	Store            StoreConfig        `yaml:"store"`
	Server           ServerConfig       `yaml:"server"`
}

type rawSearchConfig struct {
	RelevanceKeywords []string       `yaml:"relevance_keywords"`
	CompanyWidth      int            `yaml:"company_width"`
	AttemptTimeout    string         `yaml:"attempt_timeout"`
	Retry             rawRetryConfig `yaml:"retry"`
}

type rawRetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Delay       string `yaml:"delay"`
}

type rawAIConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  string `yaml:"timeout"`
}

type rawRateLimitConfig struct {
	MinDelay          string            `yaml:"min_delay"`
	ProviderOverrides map[string]string `yaml:"provider_overrides"`
}

type rawAlertsConfig struct {
	PollingInterval string              `yaml:"polling_interval"`
	Pause           string              `yaml:"pause"`
	SavedSearches   []SavedSearchConfig `yaml:"saved_searches"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no config file exists: both
// providers enabled with keys from TAVILY_API_KEY and SERPER_API_KEY, and
// skill extraction through Gemini when GEMINI_API_KEY is set.
func Default() (*Config, error) {
	return Parse(nil)
}

// Parse expands environment variables in data and decodes it as YAML.
// Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	retryDelay, err := parseDuration("search.retry.delay", raw.Search.Retry.Delay, defaultRetryDelay)
	if err != nil {
		return nil, err
	}
	attemptTimeout, err := parseDuration("search.attempt_timeout", raw.Search.AttemptTimeout, defaultAttemptTimeout)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, defaultAITimeout)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, defaultMinDelay)
	if err != nil {
		return nil, err
	}
	alertInterval, err := parseDuration("alerts.polling_interval", raw.Alerts.PollingInterval, defaultAlertInterval)
	if err != nil {
		return nil, err
	}
	alertPause, err := parseDuration("alerts.pause", raw.Alerts.Pause, defaultAlertPause)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]time.Duration)
	for name, v := range raw.RateLimit.ProviderOverrides {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.provider_overrides[%q]: %w", name, err)
		}
		overrides[name] = d
	}

	cfg := &Config{
		Region:     orDefault(raw.Region, defaultRegion),
		MaxResults: raw.MaxResults,
		Search: SearchConfig{
			RelevanceKeywords: raw.Search.RelevanceKeywords,
			CompanyWidth:      raw.Search.CompanyWidth,
			MaxAttempts:       raw.Search.Retry.MaxAttempts,
			RetryDelay:        retryDelay,
			AttemptTimeout:    attemptTimeout,
		},
		Providers:        raw.Providers,
		FallbackListings: raw.FallbackListings,
		AI: AIConfig{
			Enabled:  raw.AI.Enabled,
			Provider: strings.ToLower(orDefault(raw.AI.Provider, "gemini")),
			BaseURL:  raw.AI.BaseURL,
			Model:    raw.AI.Model,
			APIKey:   raw.AI.APIKey,
			Timeout:  aiTimeout,
		},
		Notification: raw.Notification,
		RateLimit: RateLimitConfig{
			MinDelay:          minDelay,
			ProviderOverrides: overrides,
		},
		Alerts: AlertsConfig{
			PollingInterval: alertInterval,
			Pause:           alertPause,
			SavedSearches:   raw.Alerts.SavedSearches,
		},
		Store: StoreConfig{Path: orDefault(raw.Store.Path, defaultStorePath)},
		Server: ServerConfig{
			Addr:           orDefault(raw.Server.Addr, defaultServerAddr),
			AllowedOrigins: raw.Server.AllowedOrigins,
		},
	}
	applyDefaults(cfg, len(data) == 0)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config, empty bool) {
	if cfg.MaxResults == 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Search.CompanyWidth == 0 {
		cfg.Search.CompanyWidth = defaultCompanyWidth
	}
	if cfg.Search.MaxAttempts == 0 {
		cfg.Search.MaxAttempts = defaultMaxAttempts
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = []ProviderConfig{
			{Name: "tavily", APIKey: os.Getenv("TAVILY_API_KEY"), Enabled: true},
			{Name: "serper", APIKey: os.Getenv("SERPER_API_KEY"), Enabled: true},
		}
	}
	for i := range cfg.Providers {
		cfg.Providers[i].Name = strings.ToLower(strings.TrimSpace(cfg.Providers[i].Name))
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}

	if empty {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.AI.Enabled = true
			cfg.AI.APIKey = key
		}
	}
	switch cfg.AI.Provider {
	case "gemini":
		cfg.AI.Model = orDefault(cfg.AI.Model, defaultGeminiModel)
	case "openai":
		cfg.AI.Model = orDefault(cfg.AI.Model, defaultOpenAIModel)
		cfg.AI.BaseURL = orDefault(cfg.AI.BaseURL, defaultOpenAIBaseURL)
	}

	for i := range cfg.Alerts.SavedSearches {
		if cfg.Alerts.SavedSearches[i].MaxResults == 0 {
			cfg.Alerts.SavedSearches[i].MaxResults = cfg.MaxResults
		}
	}
}

func validate(cfg *Config) error {
	if cfg.MaxResults < 0 {
		return fmt.Errorf("max_results must be positive, got %d", cfg.MaxResults)
	}
	if cfg.Search.CompanyWidth < 0 {
		return fmt.Errorf("search.company_width must be positive, got %d", cfg.Search.CompanyWidth)
	}
	if cfg.Search.MaxAttempts < 1 {
		return fmt.Errorf("search.retry.max_attempts must be at least 1, got %d", cfg.Search.MaxAttempts)
	}
	if cfg.Search.RetryDelay < 0 || cfg.Search.AttemptTimeout < 0 {
		return fmt.Errorf("search durations must not be negative")
	}

	seen := make(map[string]bool)
	for _, p := range cfg.Providers {
		if !knownProviders[p.Name] {
			return fmt.Errorf("unknown provider %q (want tavily or serper)", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %q listed more than once", p.Name)
		}
		seen[p.Name] = true
		if p.MaxQueryLength < 0 {
			return fmt.Errorf("providers[%s].max_query_length must be positive", p.Name)
		}
	}

	for i, l := range cfg.FallbackListings {
		if strings.TrimSpace(l.Title) == "" {
			return fmt.Errorf("fallback_listings[%d].title is required", i)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("unknown notification type %q", cfg.Notification.Type)
	}

	if cfg.AI.Enabled {
		if cfg.AI.Provider != "gemini" && cfg.AI.Provider != "openai" {
			return fmt.Errorf("ai.provider must be gemini or openai, got %q", cfg.AI.Provider)
		}
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
	}

	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative")
	}

	if len(cfg.Alerts.SavedSearches) > 0 && cfg.Alerts.PollingInterval <= 0 {
		return fmt.Errorf("alerts.polling_interval must be positive, got %v", cfg.Alerts.PollingInterval)
	}
	names := make(map[string]bool)
	for i, s := range cfg.Alerts.SavedSearches {
		if s.Name == "" {
			return fmt.Errorf("alerts.saved_searches[%d].name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("saved search %q listed more than once", s.Name)
		}
		names[s.Name] = true
		if len(s.Skills) == 0 && strings.TrimSpace(s.JobField) == "" {
			return fmt.Errorf("saved search %q needs skills or a job_field", s.Name)
		}
	}

	return nil
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
