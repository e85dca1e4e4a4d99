package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/alert"
	"github.com/resumesmartx/resumesmartx/internal/config"
	"github.com/resumesmartx/resumesmartx/internal/model"
	"github.com/resumesmartx/resumesmartx/internal/scheduler"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Job alert subcommands",
}

var alertsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the alert daemon",
	Long:  "Polls every saved search on the configured interval and notifies about new listings; blocks until SIGINT/SIGTERM.",
	RunE:  runAlertsStart,
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Poll saved searches once, print new listings, exit",
	Long:  "One-shot poll of every saved search. Does not write to the store, so every live listing is reported.",
	RunE:  runAlertsCheck,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsStartCmd)
	alertsCmd.AddCommand(alertsCheckCmd)
}

func buildPollers(cfg *config.Config, searcher alert.Searcher, st model.ListingStore, n model.Notifier, seed bool, logger *slog.Logger) []scheduler.Poller {
	var pollers []scheduler.Poller
	for _, s := range cfg.Alerts.SavedSearches {
		p := alert.NewSearchPoller(alert.SavedSearch{
			Name:       s.Name,
			Skills:     s.Skills,
			JobField:   s.JobField,
			MaxResults: s.MaxResults,
		}, searcher, st, n, logger)
		if !seed {
			p.DisableSeeding()
		}
		pollers = append(pollers, p)
		logger.Info("registered saved search", "name", s.Name, "skills", len(s.Skills), "job_field", s.JobField)
	}
	return pollers
}

func runAlertsStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, false, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("config loaded",
		"interval", a.cfg.Alerts.PollingInterval.String(),
		"saved_searches", len(a.cfg.Alerts.SavedSearches),
		"providers", a.coordinator.Providers(),
		"min_delay", a.cfg.RateLimit.MinDelay.String(),
	)

	n := setupNotifier(a.cfg, a.httpClient, logger)
	pollers := buildPollers(a.cfg, a.coordinator, a.store, n, true, logger)
	if len(pollers) == 0 {
		return fmt.Errorf("no saved searches configured under alerts.saved_searches")
	}

	sched := scheduler.NewScheduler(pollers, a.cfg.Alerts.PollingInterval, a.cfg.Alerts.Pause, a.store, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		return err
	}

	logger.Info("goodbye")
	return nil
}

func runAlertsCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, true, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("check mode: no listings will be marked as seen")

	n := setupNotifier(a.cfg, a.httpClient, logger)
	pollers := buildPollers(a.cfg, a.coordinator, a.store, n, false, logger)
	if len(pollers) == 0 {
		return fmt.Errorf("no saved searches configured under alerts.saved_searches")
	}

	sched := scheduler.NewScheduler(pollers, a.cfg.Alerts.PollingInterval, a.cfg.Alerts.Pause, nil, logger)
	sched.RunOnce(ctx)

	logger.Info("check complete")
	return nil
}
