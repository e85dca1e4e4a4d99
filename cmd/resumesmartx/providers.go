package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured search providers in priority order",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("%-9s %-10s %-9s %-10s %s\n", "Priority", "Provider", "API key", "Min delay", "Status")
	fmt.Println(strings.Repeat("─", 55))

	active := 0
	for i, p := range cfg.Providers {
		key := "set"
		if p.APIKey == "" {
			key = "missing"
		}
		status := "enabled"
		switch {
		case !p.Enabled:
			status = "disabled"
		case p.APIKey == "":
			status = "skipped"
		default:
			active++
		}
		fmt.Printf("%-9d %-10s %-9s %-10s %s\n", i+1, p.Name, key, cfg.RateLimit.MinDelayFor(p.Name), status)
	}

	fmt.Printf("\nTotal: %d providers (%d active)\n", len(cfg.Providers), active)
	if active == 0 {
		fmt.Println("No active providers: searches will return the sample listings.")
	}
	return nil
}
