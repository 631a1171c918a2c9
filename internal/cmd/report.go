package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lookback/internal/config"
	"lookback/internal/logger"
	"lookback/internal/narrative"
	"lookback/internal/render"
	"lookback/internal/report"
	"lookback/internal/storage"
	"lookback/internal/timerange"
)

var (
	reportConfigPath     string
	reportRange          string
	reportType           string
	reportMaxScreenshots int
	reportNoScreenshots  bool
	reportNoProjects     bool
	reportSave           bool
)

func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an activity report for a time range",
		Long:  "Generates an activity report for a natural-language time range such as \"last week\" or \"yesterday\" and prints it as Markdown.",
		RunE:  runReport,
	}

	cmd.Flags().StringVarP(&reportConfigPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVarP(&reportRange, "range", "r", "today", "Time range, e.g. \"last week\", \"yesterday\", \"2025-08-01\"")
	cmd.Flags().StringVarP(&reportType, "type", "t", "summary", "Report type (summary, detailed, standup)")
	cmd.Flags().IntVar(&reportMaxScreenshots, "max-screenshots", 10, "Maximum number of key screenshots")
	cmd.Flags().BoolVar(&reportNoScreenshots, "no-screenshots", false, "Skip key screenshot selection")
	cmd.Flags().BoolVar(&reportNoProjects, "no-projects", false, "Do not group summaries by project")
	cmd.Flags().BoolVar(&reportSave, "save", false, "Also write the report to the configured reports path")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	if !report.ValidKind(reportType) {
		return fmt.Errorf("invalid report type %q (must be summary, detailed or standup)", reportType)
	}

	cfg, err := config.Load(reportConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	generator, st, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := report.Options{
		Kind:               report.Kind(reportType),
		IncludeScreenshots: !reportNoScreenshots,
		MaxScreenshots:     reportMaxScreenshots,
		SeparateProjects:   !reportNoProjects,
	}

	rep, err := generator.Generate(cmd.Context(), reportRange, opts)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	markdown := render.Markdown(rep)
	fmt.Fprint(os.Stdout, markdown)

	if reportSave {
		path, err := saveReport(cfg, rep, markdown)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nSaved report to %s\n", path)
	}

	return nil
}

// buildGenerator wires the storage, narrative backend and time range resolver
// into a report generator. The caller owns closing the returned store.
func buildGenerator(cfg *config.Config) (*report.Generator, *storage.Store, error) {
	if err := logger.Init(logger.LogConfig{
		Level:        cfg.Storage.Log.Level,
		FilePath:     cfg.Storage.LogPath,
		RotationTime: cfg.Storage.Log.RotationTime,
		MaxSize:      cfg.Storage.Log.MaxSize,
		MaxBackups:   cfg.Storage.Log.MaxBackups,
		MaxAge:       cfg.Storage.Log.MaxAge,
		Compress:     cfg.Storage.Log.Compress,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	st, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	backend := narrative.NewClient(
		cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.OpenAI.MaxCompletionTokens,
	)

	generator := report.NewGenerator(st, backend, timerange.NewResolver(), cfg.Capture.IntervalSeconds)
	return generator, st, nil
}

func saveReport(cfg *config.Config, rep *report.Report, markdown string) (string, error) {
	if err := cfg.Storage.EnsureReportsPath(); err != nil {
		return "", fmt.Errorf("failed to create reports path: %w", err)
	}

	name := fmt.Sprintf("report-%s.md", rep.GeneratedAt.Format("20060102-150405"))
	path := filepath.Join(cfg.Storage.ReportsPath, name)
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
