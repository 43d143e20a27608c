package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "govcon-intel",
	Short: "Government contracting market intelligence",
	Long: "Pulls open solicitations from SAM.gov and historical contract awards from USAspending, " +
		"deduplicates them, ranks competitors and agencies, and writes JSON documents for the site build.",
	Args:         cobra.NoArgs,
	Annotations:  map[string]string{pipelineAnnotation: "all"},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment variables take precedence.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			writeEmptyOutputs(pipelineMode(cmd), nil)
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			writeEmptyOutputs(pipelineMode(cmd), cfg)
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAll(cmd)
	},
}

func main() {
	// Interrupts cancel the run; collected results are still written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
