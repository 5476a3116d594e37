package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	salesRepo "repairshop.GO/model/repository/sales"
	"repairshop.GO/service/export"
	"repairshop.GO/service/sales"
)

var (
	exportOut  string
	exportFrom string
	exportTo   string
)

// exportFilter turns --from/--to (YYYY-MM-DD) into a sales filter.
func exportFilter(from, to string) (salesRepo.Filter, error) {
	var f salesRepo.Filter
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
		f.StartDate = &t
	}
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
		f.EndDate = &t
	}
	return f, nil
}

var salesExportCmd = &cobra.Command{
	Use:   "sales:export",
	Short: "Write sales to an .xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := exportFilter(exportFrom, exportTo)
		if err != nil {
			return err
		}
		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()

		rec, err := sales.NewRecorder(rt.DB, rt.Notifier, rt.Logger("sales:export"), rt.App.PhoneRegion)
		if err != nil {
			return err
		}
		list, err := rec.All(cmd.Context(), f)
		if err != nil {
			return err
		}

		out, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		if err := export.WriteSales(out, list); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sales to %s\n", len(list), exportOut)
		return nil
	},
}

func init() {
	salesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "sales.xlsx", "Output file")
	salesExportCmd.Flags().StringVar(&exportFrom, "from", "", "First day (YYYY-MM-DD)")
	salesExportCmd.Flags().StringVar(&exportTo, "to", "", "Last day (YYYY-MM-DD)")
	rootCmd.AddCommand(salesExportCmd)
}
