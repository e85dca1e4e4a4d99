package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/browse"
	"github.com/resumesmartx/resumesmartx/internal/config"
	"github.com/resumesmartx/resumesmartx/internal/service"
)

const browseTimeout = 2 * time.Minute

var (
	browseField  string
	browseQuery  string
	browseResume string
)

var browseCmd = &cobra.Command{
	Use:   "browse [skill...]",
	Short: "Browse search results interactively (TUI)",
	Long: "Runs a search and opens the results in a full-screen browser. " +
		"With no arguments, shows a picker over the configured saved searches.",
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&browseField, "field", "f", "", "job field, e.g. \"Data Science\"")
	browseCmd.Flags().StringVarP(&browseQuery, "query", "q", "", "free-text query used verbatim")
	browseCmd.Flags().StringVar(&browseResume, "resume", "", "path to a PDF résumé to extract skills from")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Any log output before the alt-screen starts corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := loadApp(context.Background(), false, silentLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 || browseField != "" || browseQuery != "" || browseResume != "" {
		searchFn, label, err := directSearch(a, args)
		if err != nil {
			return err
		}
		return browseOnce(label, searchFn)
	}

	saved := a.cfg.Alerts.SavedSearches
	if len(saved) == 0 {
		return fmt.Errorf("nothing to search: pass skills, --field, --query or --resume, or configure alerts.saved_searches")
	}
	return browseSaved(a, saved)
}

func directSearch(a *app, skills []string) (browse.SearchFunc, string, error) {
	if browseResume != "" {
		data, err := os.ReadFile(browseResume)
		if err != nil {
			return nil, "", fmt.Errorf("read resume: %w", err)
		}
		return func(ctx context.Context) (service.Response, error) {
			return a.service.SearchResume(ctx, data, browseField, 0)
		}, browseResume, nil
	}

	req := service.Request{Query: browseQuery, Skills: skills, JobField: browseField}
	label := browseQuery
	if label == "" {
		label = strings.TrimSpace(strings.Join(skills, " ") + " " + browseField)
	}
	return func(ctx context.Context) (service.Response, error) {
		return a.service.Search(ctx, req), nil
	}, label, nil
}

func browseOnce(label string, searchFn browse.SearchFunc) error {
	resp, err := browse.RunLoader(label, browseTimeout, searchFn)
	if err != nil {
		return err
	}
	_, err = browse.RunBrowser(resp)
	return err
}

// browseSaved loops picker → loader → browser until the user quits.
func browseSaved(a *app, saved []config.SavedSearchConfig) error {
	items := make([]browse.PickerItem, len(saved))
	for i, s := range saved {
		detail := s.JobField
		if len(s.Skills) > 0 {
			detail = strings.Join(s.Skills, ", ")
		}
		items[i] = browse.PickerItem{Label: s.Name, Detail: detail}
	}

	for {
		choice, err := browse.RunPicker("Saved searches", items)
		if err != nil {
			return err
		}
		if choice < 0 {
			return nil
		}
		s := saved[choice]

		resp, err := browse.RunLoader(s.Name, browseTimeout, func(ctx context.Context) (service.Response, error) {
			return a.service.Search(ctx, service.Request{
				Skills:     s.Skills,
				JobField:   s.JobField,
				MaxResults: s.MaxResults,
			}), nil
		})
		if err != nil {
			fmt.Printf("Search error: %v\n", err)
			continue
		}

		wantQuit, err := browse.RunBrowser(resp)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
	}
}
