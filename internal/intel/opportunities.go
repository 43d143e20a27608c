package intel

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/dedupe"
	"github.com/sells-group/govcon-intel/internal/model"
	"github.com/sells-group/govcon-intel/internal/normalize"
	"github.com/sells-group/govcon-intel/internal/planner"
	"github.com/sells-group/govcon-intel/internal/runlog"
	"github.com/sells-group/govcon-intel/internal/source"
)

// Opportunities runs the SAM.gov pipeline and writes the deduplicated
// opportunity list to out. Without an API key it writes an empty document and
// returns source.ErrMissingCredential.
func (r *Runner) Opportunities(ctx context.Context, client OpportunityClient, out Sink) (runlog.Stats, error) {
	return r.run(ctx, PipelineOpportunities, out, model.EmptyOpportunities(), func(ctx context.Context) (any, runlog.Stats, error) {
		queries := planner.New(r.cfg, r.now()).Opportunities()

		if !client.Configured() {
			zap.L().Error("SAM.gov API key missing; writing empty opportunities document",
				zap.String("env", "SAM_API_KEY"))
			return model.EmptyOpportunities(), runlog.Stats{Queries: len(queries), Failed: len(queries)}, source.ErrMissingCredential
		}

		batches := fetchAll(ctx, client, queries, r.cfg.Fetch.Concurrency, r.breaker(PipelineOpportunities), normalize.Opportunities)
		all, stats := collect(batches)

		kept := dedupe.Opportunities(all)
		stats.Kept = len(kept)
		return model.OpportunityDocument(kept), stats, nil
	})
}
