package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lookback",
		Short: "Lookback - activity report generator",
		Long:  "Generates human-readable activity reports from captured screenshots, activity summaries and work sessions.",
	}

	rootCmd.AddCommand(NewReportCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewScheduleCmd())

	return rootCmd
}
