package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lookback/internal/config"
	"lookback/internal/logger"
	"lookback/internal/render"
	"lookback/internal/report"
	"lookback/internal/scheduler"
)

var scheduleConfigPath string

func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate reports on a recurring schedule",
		Long:  "Runs report generation on the configured interval or cron spec, writing each report to the reports path. Stops on SIGINT/SIGTERM.",
		RunE:  runSchedule,
	}

	cmd.Flags().StringVarP(&scheduleConfigPath, "config", "c", "", "Path to config file")

	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(scheduleConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Storage.EnsureReportsPath(); err != nil {
		return fmt.Errorf("failed to create reports path: %w", err)
	}

	generator, st, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := report.DefaultOptions()
	opts.Kind = report.Kind(cfg.Report.Type)

	task := func() error {
		rep, err := generator.Generate(context.Background(), cfg.Report.Range, opts)
		if err != nil {
			return err
		}
		path, err := saveReport(cfg, rep, render.Markdown(rep))
		if err != nil {
			return err
		}
		logger.GetLogger().Infof("Wrote scheduled report to %s", path)
		return nil
	}

	var sched scheduler.Scheduler
	if cfg.Report.Cron != "" {
		sched = scheduler.NewCronScheduler(cfg.Report.Cron)
	} else {
		interval, err := time.ParseDuration(cfg.Report.Interval)
		if err != nil {
			return fmt.Errorf("invalid report interval: %w", err)
		}
		sched = scheduler.NewFixedRateScheduler(interval)
	}

	if err := sched.Start(task); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	logger.GetLogger().Infof("Report scheduler started (%s reports for %q)", cfg.Report.Type, cfg.Report.Range)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.GetLogger().Info("Report scheduler stopping")
	return nil
}
