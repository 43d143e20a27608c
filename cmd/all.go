package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var allCmd = &cobra.Command{
	Use:         "all",
	Short:       "Run the opportunities and spend pipelines",
	Long:        "Runs both pipelines in sequence. A failure in one does not stop the other; the command fails if either did.",
	Annotations: map[string]string{pipelineAnnotation: "all"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAll(cmd)
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := zap.L().With(zap.String("command", "all"))

	if err := cfg.Validate("all"); err != nil {
		writeEmptyOutputs("all", cfg)
		return err
	}

	e := newEnv(ctx, cfg)
	defer e.Close() //nolint:errcheck

	log.Info("starting pipelines",
		zap.String("opportunities_output", cfg.SAM.Output),
		zap.String("spend_output", cfg.Spend.Output),
	)
	rows := []summaryRow{e.opportunities(ctx), e.spend(ctx)}
	formatSummary(cmd.OutOrStdout(), rows)
	return firstErr(rows)
}
