package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var spendCmd = &cobra.Command{
	Use:         "spend",
	Short:       "Rank competitors and agencies by USAspending obligations",
	Long:        "Queries USAspending contract awards for each configured window and state, sums obligations by recipient and awarding agency, and writes the intelligence document.",
	Annotations: map[string]string{pipelineAnnotation: "spend"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "spend"))

		if err := cfg.Validate("spend"); err != nil {
			writeEmptyOutputs("spend", cfg)
			return err
		}

		e := newEnv(ctx, cfg)
		defer e.Close() //nolint:errcheck

		log.Info("starting spend pipeline", zap.String("output", cfg.Spend.Output))
		row := e.spend(ctx)
		formatSummary(cmd.OutOrStdout(), []summaryRow{row})
		return row.err
	},
}

func init() {
	rootCmd.AddCommand(spendCmd)
}
