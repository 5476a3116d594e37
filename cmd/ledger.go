package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repairshop.GO/service/inventory"
)

var verifyPart string

var ledgerVerifyCmd = &cobra.Command{
	Use:   "ledger:verify",
	Short: "Replay the transaction ledger and compare it with stored stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()

		report, err := inventory.Verify(cmd.Context(), rt.DB, verifyPart)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range report.Mismatches {
			fmt.Fprintf(out, "  %s (%s): stock=%d ledger=%d\n", m.SKU, m.PartID, m.Stock, m.Replayed)
		}
		fmt.Fprintf(out, "Checked %d parts, %d mismatches\n", report.Checked, len(report.Mismatches))
		if !report.OK() {
			return fmt.Errorf("ledger does not match stock for %d parts", len(report.Mismatches))
		}
		return nil
	},
}

func init() {
	ledgerVerifyCmd.Flags().StringVar(&verifyPart, "part", "", "Only verify this part ID")
	rootCmd.AddCommand(ledgerVerifyCmd)
}
