package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/screen-time/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Record a single sample and exit",
		Long:  "Run one polling step: archive if a new week has started, then append a sample. Suitable for cron.",
		Run:   runTick,
	}

	RootCmd.AddCommand(cmd)
}

func runTick(cmd *cobra.Command, args []string) {
	svc, err := openService()
	if err != nil {
		exitErr("open", err)
	}

	sample, err := tickOnce(cmd, svc)
	if cerr := svc.Close(); cerr != nil {
		logger.Warn("close", "error", cerr)
	}
	if err != nil {
		exitErr("tick", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"sample":%d}`+"\n", sample)
}

func tickOnce(cmd *cobra.Command, svc *service) (model.Sample, error) {
	last, err := svc.log.LastSample()
	if err != nil {
		return 0, err
	}
	interval, _ := cfg.IntervalDuration()
	return svc.daemon(interval).Tick(cmd.Context(), last)
}
