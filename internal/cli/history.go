package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/screen-time/internal/config"
	"github.com/rcliao/screen-time/internal/store"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Archived week summaries",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived weeks, newest first",
		Run:   runHistoryList,
	}
	listCmd.Flags().IntP("limit", "l", 20, "Max results")
	listCmd.Flags().String("since", "", "Only weeks archived within this duration, e.g. 90d")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one archived week",
		Args:  cobra.ExactArgs(1),
		Run:   runHistoryGet,
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old archive summaries",
		Run:   runHistoryPrune,
	}
	pruneCmd.Flags().String("older-than", "", "Delete records archived before now minus this duration, e.g. 365d (required)")
	pruneCmd.MarkFlagRequired("older-than")

	historyCmd.AddCommand(listCmd, getCmd, pruneCmd)
	RootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	sinceStr, _ := cmd.Flags().GetString("since")

	var since time.Time
	if sinceStr != "" {
		d, err := config.ParseDuration(sinceStr)
		if err != nil {
			exitErr("since", err)
		}
		since = time.Now().Add(-d)
	}

	s, _, err := openHistory()
	if err != nil {
		exitErr("open history", err)
	}
	defer s.Close()

	records, err := s.List(cmd.Context(), store.ListParams{Since: since, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if formatFlag == "text" {
		w := cmd.OutOrStdout()
		for _, r := range records {
			fmt.Fprintf(w, "%s  week of %s  %s samples  archived %s\n",
				r.ID, r.WeekStart.Format("2006-01-02"),
				humanize.Comma(int64(r.SampleCount)), humanize.Time(r.ArchivedAt))
		}
		return
	}
	printJSON(cmd, records)
}

func runHistoryGet(cmd *cobra.Command, args []string) {
	s, _, err := openHistory()
	if err != nil {
		exitErr("open history", err)
	}
	defer s.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}
	printJSON(cmd, rec)
}

func runHistoryPrune(cmd *cobra.Command, args []string) {
	olderThan, _ := cmd.Flags().GetString("older-than")
	d, err := config.ParseDuration(olderThan)
	if err != nil {
		exitErr("older-than", err)
	}

	s, _, err := openHistory()
	if err != nil {
		exitErr("open history", err)
	}
	defer s.Close()

	n, err := s.Prune(cmd.Context(), time.Now().Add(-d))
	if err != nil {
		exitErr("prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"pruned":%d}`+"\n", n)
}
