package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"repairshop.GO/config"
	"repairshop.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := Open()
		if err != nil {
			return err
		}
		defer rt.Close()

		builtins := cron.Builtins(cron.Env{DB: rt.DB, Search: rt.Search, Log: rt.Logger("cron")})
		if jobName != "" {
			name := strings.ToLower(jobName)
			j, ok := builtins[name]
			if !ok {
				j, ok = cron.Jobs()[name]
			}
			if !ok {
				return fmt.Errorf("unknown job: %s", jobName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Running cron job: %s\n", name)
			j.Run(args...)
			return nil
		}

		var locker cron.Locker
		if l := config.GetRedisLock(); l != nil {
			locker = l
		}
		c, err := cron.StartCron(builtins, locker, rt.Logger("cron"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cron scheduler started. Press Ctrl+C to exit.")

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
