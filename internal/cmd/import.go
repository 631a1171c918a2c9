package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lookback/internal/config"
	"lookback/internal/storage"
)

var importConfigPath string

// exportFile is the JSON layout produced by capture agents. Timestamps may be
// epoch integers or ISO strings, and screenshot_ids may be a native array or
// a serialized one; the record types absorb both.
type exportFile struct {
	Screenshots []storage.Screenshot `json:"screenshots"`
	Sessions    []storage.Session    `json:"sessions"`
	Summaries   []storage.Summary    `json:"summaries"`
}

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import activity records from a JSON export",
		Long:  "Imports screenshot, session and summary records from a capture agent's JSON export into the local database.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	cmd.Flags().StringVarP(&importConfigPath, "config", "c", "", "Path to config file")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(importConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("failed to parse export file: %w", err)
	}

	st, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	for i := range export.Screenshots {
		if err := st.SaveScreenshot(&export.Screenshots[i]); err != nil {
			return fmt.Errorf("failed to import screenshot %d: %w", i, err)
		}
	}
	for i := range export.Sessions {
		if err := st.SaveSession(&export.Sessions[i]); err != nil {
			return fmt.Errorf("failed to import session %d: %w", i, err)
		}
	}
	for i := range export.Summaries {
		if err := st.SaveSummary(&export.Summaries[i]); err != nil {
			return fmt.Errorf("failed to import summary %d: %w", i, err)
		}
	}

	fmt.Fprintf(os.Stdout, "Imported %s screenshots, %s sessions, %s summaries\n",
		humanize.Comma(int64(len(export.Screenshots))),
		humanize.Comma(int64(len(export.Sessions))),
		humanize.Comma(int64(len(export.Summaries))))

	return nil
}
