package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sampling daemon",
		Long: "Append a sample every interval until interrupted. The current-week log is archived " +
			"before the first sample of a new week. SIGINT and SIGTERM stop the daemon after the current tick.",
		Run: runRun,
	}

	cmd.Flags().StringP("interval", "i", "", "Polling interval, e.g. 30s, 5m (overrides config)")

	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	intervalStr, _ := cmd.Flags().GetString("interval")
	if intervalStr != "" {
		cfg.Interval = intervalStr
	}
	interval, err := cfg.IntervalDuration()
	if err != nil {
		exitErr("interval", err)
	}

	svc, err := openService()
	if err != nil {
		exitErr("open", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), "Logging screen time in the background.")
	logger.Info("logging screen time",
		"log", svc.paths.Current(),
		"archive", svc.paths.Archive(),
		"interval", interval.String())

	runErr := svc.daemon(interval).Run(ctx)
	if err := svc.Close(); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	if runErr != nil {
		stop()
		exitErr("run", runErr)
	}
}
