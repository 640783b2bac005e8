package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/screen-time/internal/clock"
	"github.com/rcliao/screen-time/internal/lockfile"
	"github.com/rcliao/screen-time/internal/logstore"
	"github.com/rcliao/screen-time/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current and last week logs",
		Run:   runStatus,
	}

	RootCmd.AddCommand(cmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	paths := getPaths()
	ls := logstore.New(paths, clock.System{}, logger)

	st, err := ls.Status(time.Now(), time.Local)
	if err != nil {
		exitErr("status", err)
	}

	if formatFlag != "text" {
		printJSON(cmd, st)
		return
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "week of %s\n", st.WeekStart.Format("Mon Jan 2 2006"))
	if pid, ok := lockfile.Holder(paths.Lock()); ok {
		fmt.Fprintf(w, "daemon:    running (pid %d)\n", pid)
	} else {
		fmt.Fprintln(w, "daemon:    not running")
	}
	printLogStatus(w, "this week", st.Current)
	printLogStatus(w, "last week", st.Archive)
	if !st.SameWeek {
		fmt.Fprintln(w, "note: the next sample starts a new week and will archive this log")
	}
	if st.SpansWeeks {
		fmt.Fprintln(w, "warning: this log already spans more than one week")
	}
}

func printLogStatus(w io.Writer, label string, s model.LogStatus) {
	if !s.Exists {
		fmt.Fprintf(w, "%-10s empty (%s)\n", label+":", s.Path)
		return
	}
	fmt.Fprintf(w, "%-10s %s samples, %s (%s)\n", label+":",
		humanize.Comma(int64(s.SampleCount)), humanize.Bytes(uint64(s.SizeBytes)), s.Path)
	if s.First != nil && s.Last != nil {
		fmt.Fprintf(w, "%-10s first %s, last %s\n", "",
			s.First.Format("Mon 15:04"), humanize.Time(*s.Last))
	}
	if s.CorruptLines > 0 {
		fmt.Fprintf(w, "%-10s %d corrupt lines skipped\n", "", s.CorruptLines)
	}
}
