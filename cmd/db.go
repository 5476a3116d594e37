package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repairshop.GO/config"
	"repairshop.GO/service/seed"
)

var seedSales bool

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer config.CloseDB(db)
		if err := config.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", config.DBDriver())
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Load the device hierarchy and sample parts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := config.Migrate(rt.DB); err != nil {
			return err
		}

		sum, err := seed.Run(cmd.Context(), rt.DB, rt.Notifier, rt.Logger("db:seed"), seed.Options{
			Sales:       seedSales,
			PhoneRegion: rt.App.PhoneRegion,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), `
=== Seed Report ===
Models:         %d
Parts created:  %d
Parts skipped:  %d
Model links:    %d
Sales:          %d
===================
`, sum.Models, sum.PartsCreated, sum.PartsSkipped, sum.Links, sum.Sales)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSales, "sales", false, "Also record the sample sales")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
