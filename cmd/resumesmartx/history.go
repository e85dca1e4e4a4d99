package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches and API usage",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of searches to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	records, err := st.RecentSearches(historyLimit)
	if err != nil {
		return err
	}
	totals, err := st.UsageTotals()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tQUERY\tPROVIDER\tRESULTS")
	for _, r := range records {
		provider := r.Provider
		if r.Fallback {
			provider += " (fallback)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Query, provider, r.Results)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("(no searches yet)")
	}

	fmt.Printf("\n%-28s %8s %10s\n", "API usage", "Calls", "Tokens")
	fmt.Println(strings.Repeat("─", 48))
	for _, t := range totals {
		fmt.Printf("%-28s %8d %10d\n", t.Action, t.Calls, t.Tokens)
	}
	return nil
}
