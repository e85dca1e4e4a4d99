package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/adapter"
	"github.com/resumesmartx/resumesmartx/internal/config"
	"github.com/resumesmartx/resumesmartx/internal/filter"
	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/notifier"
	"github.com/resumesmartx/resumesmartx/internal/query"
	"github.com/resumesmartx/resumesmartx/internal/ratelimit"
	"github.com/resumesmartx/resumesmartx/internal/retry"
	"github.com/resumesmartx/resumesmartx/internal/search"
	"github.com/resumesmartx/resumesmartx/internal/service"
	"github.com/resumesmartx/resumesmartx/internal/skills"
	"github.com/resumesmartx/resumesmartx/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "resumesmartx",
	Short: "Find jobs that match your résumé",
	Long: "ResumeSmartX extracts skills from a résumé, searches job listings across " +
		"Tavily and Serper with fallback, and alerts you to new matches.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: RESUMESMARTX_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > RESUMESMARTX_CONFIG env var > "./config.yaml".
// Only the implicit ./config.yaml may be missing, in which case the
// environment-driven defaults are used.
func loadConfig(path string) (*config.Config, error) {
	explicit := true
	if path == "" {
		if env := os.Getenv("RESUMESMARTX_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
			explicit = false
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return cfg, err
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildProviders wires each enabled provider as
// adapter → rate limiter → retry, in configured priority order.
// The limiter sits inside the retry loop so every attempt is paced.
func buildProviders(cfg *config.Config, httpClient *http.Client, limiter *ratelimit.ProviderRateLimiter, logger *slog.Logger) []model.Provider {
	normalizer := filter.NewNormalizer(
		filter.NewKeywordFilter(cfg.Search.RelevanceKeywords),
		cfg.Region,
		cfg.Search.CompanyWidth,
	)
	qualifier := query.Qualifier(cfg.Region)
	policy := retry.Policy{
		MaxAttempts:    cfg.Search.MaxAttempts,
		Delay:          cfg.Search.RetryDelay,
		AttemptTimeout: cfg.Search.AttemptTimeout,
	}

	var providers []model.Provider
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		if pc.APIKey == "" {
			logger.Warn("provider has no api key, skipping", "provider", pc.Name)
			continue
		}

		var searcher model.Searcher
		switch pc.Name {
		case "tavily":
			searcher = adapter.NewTavilyAdapter(adapter.TavilyConfig{
				APIKey:         pc.APIKey,
				BaseURL:        pc.BaseURL,
				MaxQueryLength: pc.MaxQueryLength,
				Qualifier:      qualifier,
				SearchDepth:    pc.SearchDepth,
				IncludeDomains: pc.IncludeDomains,
			}, normalizer, httpClient)
		case "serper":
			searcher = adapter.NewSerperAdapter(adapter.SerperConfig{
				APIKey:         pc.APIKey,
				BaseURL:        pc.BaseURL,
				MaxQueryLength: pc.MaxQueryLength,
				Qualifier:      qualifier,
			}, normalizer, httpClient)
		default:
			logger.Warn("unsupported provider, skipping", "provider", pc.Name)
			continue
		}

		searcher = ratelimit.NewRateLimitedSearcher(searcher, limiter)
		providers = append(providers, retry.NewRetryProvider(searcher, policy, logger))
		logger.Debug("registered provider", "provider", pc.Name, "priority", len(providers))
	}
	return providers
}

func fallbackListings(cfg *config.Config) []model.JobListing {
	if len(cfg.FallbackListings) == 0 {
		return search.DefaultFallbackListings(cfg.Region)
	}
	listings := make([]model.JobListing, 0, len(cfg.FallbackListings))
	for _, l := range cfg.FallbackListings {
		listing := model.JobListing{
			Title:     l.Title,
			Company:   l.Company,
			Location:  l.Location,
			ApplyLink: l.ApplyLink,
		}
		if listing.Location == "" {
			listing.Location = cfg.Region
		}
		if listing.ApplyLink == "" {
			listing.ApplyLink = model.PlaceholderLink
		}
		listings = append(listings, listing)
	}
	return listings
}

// setupExtractor returns the skill extractor for cfg.AI and a cleanup func.
func setupExtractor(ctx context.Context, cfg *config.Config, usage model.UsageRecorder, logger *slog.Logger) (service.SkillExtractor, func(), error) {
	if !cfg.AI.Enabled {
		return skills.NewNopExtractor(), func() {}, nil
	}

	switch cfg.AI.Provider {
	case "gemini":
		provider, err := skills.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini provider: %w", err)
		}
		logger.Info("skill extraction enabled", "provider", "gemini", "model", cfg.AI.Model)
		closeFn := func() {
			if err := provider.Close(); err != nil {
				logger.Warn("failed to close gemini client", "error", err)
			}
		}
		return skills.NewLLMExtractor(provider, skills.ExtractSkillsTemplate, usage, logger), closeFn, nil
	default:
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		provider := skills.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
		logger.Info("skill extraction enabled", "provider", "openai", "model", cfg.AI.Model)
		return skills.NewLLMExtractor(provider, skills.ExtractSkillsTemplate, usage, logger), func() {}, nil
	}
}

// appStore is what the commands need from persistence. Both
// *store.SQLiteStore and *store.NopStore satisfy it.
type appStore interface {
	model.ListingStore
	model.SearchRecorder
	model.UsageRecorder
	UsageTotals() ([]store.UsageTotal, error)
	Close() error
}

func openStore(cfg *config.Config, dryRun bool, logger *slog.Logger) (appStore, error) {
	if dryRun {
		logger.Info("dry-run mode: nothing will be persisted")
		return store.NewNopStore(), nil
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

// app is the fully wired search pipeline shared by the commands.
type app struct {
	cfg         *config.Config
	store       appStore
	limiter     *ratelimit.ProviderRateLimiter
	coordinator *search.Coordinator
	service     *service.Service
	httpClient  *http.Client
	logger      *slog.Logger
	cleanup     func()
}

func (a *app) Close() {
	a.cleanup()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

func newApp(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) (*app, error) {
	st, err := openStore(cfg, dryRun, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	limiter := ratelimit.NewProviderRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ProviderOverrides)

	providers := buildProviders(cfg, httpClient, limiter, logger)
	if len(providers) == 0 {
		logger.Warn("no search providers configured; every search will return sample listings")
	}
	coordinator := search.NewCoordinator(providers, fallbackListings(cfg), cfg.MaxResults, logger)

	extractor, cleanup, err := setupExtractor(ctx, cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{
		cfg:         cfg,
		store:       st,
		limiter:     limiter,
		coordinator: coordinator,
		service:     service.New(extractor, coordinator, st, logger),
		httpClient:  httpClient,
		logger:      logger,
		cleanup:     cleanup,
	}, nil
}

// loadApp is the common prologue of every search-running command.
func loadApp(ctx context.Context, dryRun bool, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(ctx, cfg, dryRun, logger)
}
