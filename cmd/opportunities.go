package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var opportunitiesCmd = &cobra.Command{
	Use:         "opportunities",
	Short:       "Fetch open SAM.gov solicitations",
	Long:        "Queries SAM.gov for each configured NAICS code and keyword, deduplicates the results, and writes the opportunities document.",
	Annotations: map[string]string{pipelineAnnotation: "opportunities"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "opportunities"))

		if err := cfg.Validate("opportunities"); err != nil {
			writeEmptyOutputs("opportunities", cfg)
			return err
		}

		e := newEnv(ctx, cfg)
		defer e.Close() //nolint:errcheck

		log.Info("starting opportunities pipeline", zap.String("output", cfg.SAM.Output))
		row := e.opportunities(ctx)
		formatSummary(cmd.OutOrStdout(), []summaryRow{row})
		return row.err
	},
}

func init() {
	rootCmd.AddCommand(opportunitiesCmd)
}
