package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/resumesmartx/resumesmartx/internal/resume"
)

var (
	resumeField  string
	resumeMax    int
	resumeJSON   bool
	resumeDryRun bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume <file.pdf>",
	Short: "Extract skills from a PDF résumé and search jobs with them",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeField, "field", "f", "", "job field used when the skills find nothing")
	resumeCmd.Flags().IntVarP(&resumeMax, "max", "n", 0, "maximum number of listings (default from config)")
	resumeCmd.Flags().BoolVar(&resumeJSON, "json", false, "print results as JSON")
	resumeCmd.Flags().BoolVar(&resumeDryRun, "dry-run", false, "do not record search history or API usage")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	if len(data) > resume.MaxSize {
		return resume.ErrTooLarge
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, resumeDryRun, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.AI.Enabled {
		logger.Warn("ai is disabled; the résumé cannot be analysed, searching by job field only")
	}

	resp, err := a.service.SearchResume(ctx, data, resumeField, resumeMax)
	if err != nil {
		return err
	}
	return printResponse(os.Stdout, resp, resumeJSON)
}
