package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repairshop.GO/service/catalog"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "parts:import",
	Short: "Import parts from CSV (upsert by SKU)",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("failed to open CSV: %w", err)
		}
		defer f.Close()

		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()

		svc, err := catalog.NewService(rt.DB, rt.Notifier, rt.Logger("parts:import"))
		if err != nil {
			return err
		}
		res, err := svc.ImportCSV(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [warn] %s\n", w)
		}
		fmt.Fprintf(out, `
=== Import Report ===
CSV rows:       %d
Created:        %d
Updated:        %d
Skipped:        %d
Total time:     %s
=====================
`, res.TotalRows, res.Created, res.Updated, res.Skipped, res.TotalTime.Round(time.Millisecond))
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "parts:reindex",
	Short: "Rebuild the Elasticsearch parts index",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Search == nil {
			return fmt.Errorf("elasticsearch is not configured")
		}
		report, err := rt.Search.ReindexAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Message)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd, reindexCmd)
}
