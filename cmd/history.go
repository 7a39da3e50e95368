package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"snaplink/internal/history"
)

var (
	flagLimit int
	flagStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent resolves",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Show counts per platform and outcome")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := cfg.ResolvedHistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if flagStats {
		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading stats: %w", err)
		}
		fmt.Fprintln(tw, "PLATFORM\tOUTCOME\tCOUNT")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Platform, outcome(s.Success, ""), s.Count)
		}
		return nil
	}

	entries, err := store.Recent(cmd.Context(), flagLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintln(tw, "WHEN\tPLATFORM\tOUTCOME\tASSETS\tTIME\tTITLE / URL")
	for _, e := range entries {
		label := e.Title
		if label == "" {
			label = e.URL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Platform,
			outcome(e.Success, e.ErrorKind),
			e.Assets,
			e.Duration.Round(time.Millisecond),
			label,
		)
	}
	return nil
}

func outcome(success bool, kind string) string {
	switch {
	case success:
		return "ok"
	case kind != "":
		return kind
	default:
		return "failed"
	}
}
