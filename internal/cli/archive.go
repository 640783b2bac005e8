package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive the current week now",
		Long:  "Move week.txt over last-week.txt immediately, replacing the previous archive. Fails while the daemon is running.",
		Run:   runArchive,
	}

	RootCmd.AddCommand(cmd)
}

func runArchive(cmd *cobra.Command, args []string) {
	svc, err := openService()
	if err != nil {
		exitErr("open", err)
	}

	rec, err := svc.archiver.Archive(cmd.Context(), time.Now())
	if cerr := svc.Close(); cerr != nil {
		logger.Warn("close", "error", cerr)
	}
	if err != nil {
		exitErr("archive", err)
	}

	if rec == nil {
		printJSON(cmd, map[string]any{"ok": true, "archived": false})
		return
	}
	printJSON(cmd, map[string]any{"ok": true, "archived": true, "record": rec})
}
