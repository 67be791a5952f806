package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxnote/scribe/internal/config"
	"github.com/fluxnote/scribe/internal/history"
	"github.com/fluxnote/scribe/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent insertion runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		fmt.Println("History is disabled. Enable it in the config (history.enabled: true).")
		return nil
	}
	path := cfg.History.Path
	if path == "" {
		if path, err = history.DefaultPath(); err != nil {
			return err
		}
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	styles := ui.NewStylesWithTheme(os.Stdout, ui.ThemeFromConfig(cfg.Theme))
	fmt.Printf("%s\n\n", styles.Muted.Render(fmt.Sprintf("Recent runs (%d)", len(entries))))
	for _, e := range entries {
		// Pad before styling so ANSI codes don't skew the columns.
		status := fmt.Sprintf("%-9s", e.Status)
		switch e.Status {
		case history.StatusAccepted, history.StatusCompleted:
			status = styles.Success.Render(status)
		case history.StatusRejected, history.StatusFailed:
			status = styles.Error.Render(status)
		}
		units := ""
		if e.UnitsTotal > 0 {
			units = fmt.Sprintf(" %d/%d %s units", e.UnitsDone, e.UnitsTotal, e.Granularity)
		}
		rejected := ""
		if e.Rejected > 0 {
			rejected = styles.Error.Render(fmt.Sprintf(" %d rejected", e.Rejected))
		}
		fmt.Printf("%s  %-8s %s %5d chars%s%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Kind, status, e.Chars, units, rejected)
	}
	return nil
}
