package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/service"
)

var (
	searchField  string
	searchQuery  string
	searchMax    int
	searchJSON   bool
	searchDryRun bool
)

var searchCmd = &cobra.Command{
	Use:   "search [skill...]",
	Short: "Search jobs by skills, job field or a free-text query",
	Long: "Searches providers in priority order and prints the listings. " +
		"Skills are joined into the query; --field is used when no skills are given " +
		"and as a second query when the skill query finds nothing.",
	Example: `  resumesmartx search Python SQL "Machine Learning"
  resumesmartx search --field "Data Science" --max 5
  resumesmartx search --query "golang backend remote" --json`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchField, "field", "f", "", "job field, e.g. \"Data Science\"")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "free-text query used verbatim")
	searchCmd.Flags().IntVarP(&searchMax, "max", "n", 0, "maximum number of listings (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "do not record search history")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, searchDryRun, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	resp := a.service.Search(ctx, service.Request{
		Query:      searchQuery,
		Skills:     args,
		JobField:   searchField,
		MaxResults: searchMax,
	})
	return printResponse(os.Stdout, resp, searchJSON)
}

// printResponse writes resp as a table, or as indented JSON.
func printResponse(w io.Writer, resp service.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if len(resp.Skills) > 0 {
		fmt.Fprintf(w, "Skills: %s\n", strings.Join(resp.Skills, ", "))
	}
	fmt.Fprintf(w, "Query:  %q via %s\n", resp.Query, resp.Provider)
	if resp.Fallback {
		fmt.Fprintln(w, "No live results were found; showing sample listings.")
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tCOMPANY\tLOCATION\tAPPLY")
	for i, l := range resp.Listings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, l.Title, l.Company, l.Location, l.ApplyLink)
	}
	return tw.Flush()
}
