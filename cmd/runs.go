package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/runlog"
)

// runsShown is how many recent runs the runs command lists.
const runsShown = 20

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent pipeline runs",
	Long:  "Lists the most recent pipeline executions recorded in the run ledger (runlog.path).",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.RunLog.Path == "" {
			zap.L().Info("run ledger disabled, set runlog.path to record runs")
			return nil
		}

		rec, err := runlog.Open(ctx, cfg.RunLog.Path)
		if err != nil {
			return err
		}
		defer rec.Close() //nolint:errcheck

		entries, err := rec.List(ctx, runsShown)
		if err != nil {
			return eris.Wrap(err, "runs")
		}

		if len(entries) == 0 {
			zap.L().Info("no runs recorded yet")
			return nil
		}

		formatRuns(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

// formatRuns writes a table of ledger entries to w.
func formatRuns(w io.Writer, entries []runlog.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Pipeline", "Status", "Started", "Duration", "Queries", "Failed", "Kept", "Error"})
	for _, e := range entries {
		dur := "-"
		if e.CompletedAt != nil {
			dur = e.CompletedAt.Sub(e.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{
			truncateID(e.ID),
			e.Pipeline,
			e.Status,
			e.StartedAt.Format("2006-01-02 15:04"),
			dur,
			e.Stats.Queries,
			e.Stats.Failed,
			e.Stats.Kept,
			truncate(e.Error, 60),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Total", fmt.Sprintf("%d runs", len(entries))})
	t.Render()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
