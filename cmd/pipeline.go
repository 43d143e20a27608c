package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/config"
	"github.com/sells-group/govcon-intel/internal/fetcher"
	"github.com/sells-group/govcon-intel/internal/intel"
	"github.com/sells-group/govcon-intel/internal/model"
	"github.com/sells-group/govcon-intel/internal/runlog"
	"github.com/sells-group/govcon-intel/internal/sink"
	"github.com/sells-group/govcon-intel/internal/source"
)

// pipelineAnnotation marks commands that own output documents. Its value is
// the validation mode: "opportunities", "spend" or "all".
const pipelineAnnotation = "pipeline"

// outputIndent matches the layout the site build has always consumed.
const outputIndent = "  "

// summaryRow is one line of the post-run summary table.
type summaryRow struct {
	pipeline string
	stats    runlog.Stats
	err      error
}

// env holds the collaborators shared by every pipeline in one invocation.
type env struct {
	cfg      *config.Config
	fetcher  fetcher.Fetcher
	recorder runlog.Recorder
	runner   *intel.Runner
}

// newEnv builds the fetcher, ledger, and runner for cfg. A ledger that cannot
// be opened is logged and skipped so the pipelines still run.
func newEnv(ctx context.Context, c *config.Config) *env {
	rec, err := runlog.Open(ctx, c.RunLog.Path)
	if err != nil {
		zap.L().Warn("runlog: disabled", zap.String("path", c.RunLog.Path), zap.Error(err))
		rec = runlog.Nop{}
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.Fetch.UserAgent,
		Timeout:   c.Fetch.Timeout,
		Pause:     c.Fetch.Pause,
	})

	return &env{
		cfg:      c,
		fetcher:  f,
		recorder: rec,
		runner:   intel.NewRunner(*c, intel.WithRecorder(rec)),
	}
}

func (e *env) Close() error {
	return e.recorder.Close()
}

func (e *env) opportunities(ctx context.Context) summaryRow {
	client := source.NewSAM(e.fetcher, e.cfg.SAM)
	out := sink.New(e.cfg.SAM.Output, sink.WithIndent(outputIndent))
	stats, err := e.runner.Opportunities(ctx, client, out)
	return summaryRow{pipeline: intel.PipelineOpportunities, stats: stats, err: err}
}

func (e *env) spend(ctx context.Context) summaryRow {
	client := source.NewUSASpending(e.fetcher, e.cfg.Spend)
	out := sink.New(e.cfg.Spend.Output, sink.WithIndent(outputIndent))
	stats, err := e.runner.Spend(ctx, client, out)
	return summaryRow{pipeline: intel.PipelineSpend, stats: stats, err: err}
}

// pipelineMode returns the pipeline mode of cmd, or "" for commands that
// write no documents.
func pipelineMode(cmd *cobra.Command) string {
	return cmd.Annotations[pipelineAnnotation]
}

// writeEmptyOutputs persists empty documents for mode when a run cannot start,
// so a failing invocation never leaves its outputs missing. A nil config
// falls back to the default paths.
func writeEmptyOutputs(mode string, c *config.Config) {
	samOut, spendOut := config.DefaultSAMOutput, config.DefaultSpendOutput
	if c != nil {
		if c.SAM.Output != "" {
			samOut = c.SAM.Output
		}
		if c.Spend.Output != "" {
			spendOut = c.Spend.Output
		}
	}

	if mode == "opportunities" || mode == "all" {
		_ = sink.New(samOut, sink.WithIndent(outputIndent)).WriteEmpty(model.EmptyOpportunities())
	}
	if mode == "spend" || mode == "all" {
		generatedAt := time.Now().UTC().Format(time.RFC3339)
		_ = sink.New(spendOut, sink.WithIndent(outputIndent)).WriteEmpty(model.EmptySpend(generatedAt))
	}
}

// formatSummary writes the post-run summary table to w.
func formatSummary(w io.Writer, rows []summaryRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Pipeline", "Queries", "Failed", "Raw", "Kept", "Output", "Status"})
	for _, r := range rows {
		status := "ok"
		if r.err != nil {
			status = truncate(r.err.Error(), 60)
		}
		t.AppendRow(table.Row{r.pipeline, r.stats.Queries, r.stats.Failed, r.stats.Raw, r.stats.Kept, r.stats.Output, status})
	}
	t.Render()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// firstErr returns the first pipeline error, annotated with how many failed.
func firstErr(rows []summaryRow) error {
	var first error
	failed := 0
	for _, r := range rows {
		if r.err != nil {
			failed++
			if first == nil {
				first = r.err
			}
		}
	}
	if failed > 1 {
		return fmt.Errorf("%d pipelines failed, first: %w", failed, first)
	}
	return first
}
