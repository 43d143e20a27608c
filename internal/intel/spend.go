package intel

import (
	"context"
	"strconv"
	"time"

	"github.com/sells-group/govcon-intel/internal/aggregate"
	"github.com/sells-group/govcon-intel/internal/dedupe"
	"github.com/sells-group/govcon-intel/internal/model"
	"github.com/sells-group/govcon-intel/internal/normalize"
	"github.com/sells-group/govcon-intel/internal/planner"
	"github.com/sells-group/govcon-intel/internal/runlog"
	"github.com/sells-group/govcon-intel/internal/source"
)

// Spend runs the USAspending pipeline and writes the ranked competitor and
// agency buckets to out.
func (r *Runner) Spend(ctx context.Context, client source.Client, out Sink) (runlog.Stats, error) {
	now := r.now().UTC()
	generatedAt := now.Format(time.RFC3339)

	return r.run(ctx, PipelineSpend, out, model.EmptySpend(generatedAt), func(ctx context.Context) (any, runlog.Stats, error) {
		p := planner.New(r.cfg, now)
		queries := p.Spend()

		batches := fetchAll(ctx, client, queries, r.cfg.Fetch.Concurrency, r.breaker(PipelineSpend), normalize.Awards)
		all, stats := collect(batches)

		awards := dedupe.Awards(all)
		stats.Kept = len(awards)

		doc := model.SpendDocument{
			Meta: model.SpendMeta{
				GeneratedAt:     generatedAt,
				QueryWindowDays: p.MaxWindowDays(),
				RecordCount:     len(awards),
				NAICSCodes:      r.cfg.Spend.NAICSCodes,
				States:          r.cfg.Spend.States,
			},
			TopCompetitors: aggregate.Top(awards, aggregate.ByRecipient, r.cfg.Spend.TopCompetitors),
			TopAgencies:    aggregate.Top(awards, aggregate.ByAgency, r.cfg.Spend.TopAgencies),
		}
		widest := p.MaxWindowDays()
		for _, q := range queries {
			if days, err := strconv.Atoi(q.Value); err == nil && days == widest {
				doc.Meta.StartDate = q.From
				doc.Meta.EndDate = q.To
				break
			}
		}
		return doc, stats, nil
	})
}
