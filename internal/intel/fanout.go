package intel

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/govcon-intel/internal/model"
	"github.com/sells-group/govcon-intel/internal/resilience"
	"github.com/sells-group/govcon-intel/internal/runlog"
	"github.com/sells-group/govcon-intel/internal/source"
)

// batch is the normalized output of one query.
type batch[T any] struct {
	records []T
	raw     int
	err     error
}

// fetchAll runs every query with at most limit in flight and normalizes each
// result inside its worker. Batches are indexed by Query.Index so the caller
// can merge them in plan order no matter when each one finished.
// A non-nil breaker skips queries once the source has failed repeatedly.
func fetchAll[T any](ctx context.Context, client source.Client, queries []model.Query, limit int, breaker *resilience.Breaker, normalize func([]model.RawRecord) []T) []batch[T] {
	out := make([]batch[T], len(queries))
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for _, q := range queries {
		g.Go(func() error {
			out[q.Index] = fetchOne(ctx, client, q, breaker, normalize)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func fetchOne[T any](ctx context.Context, client source.Client, q model.Query, breaker *resilience.Breaker, normalize func([]model.RawRecord) []T) (b batch[T]) {
	defer func() {
		if p := recover(); p != nil {
			zap.L().Error("query panicked", zap.String("query", q.String()), zap.Any("panic", p))
			b = batch[T]{err: eris.Errorf("query %s panicked: %v", q, p)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return batch[T]{err: eris.Wrap(err, "query not issued")}
	}

	if breaker != nil {
		if err := breaker.Allow(); err != nil {
			zap.L().Warn("query skipped", zap.String("query", q.String()), zap.Error(err))
			return batch[T]{err: err}
		}
	}

	res := client.Fetch(ctx, q)
	if breaker != nil {
		breaker.Record(res.Err)
	}
	if !res.Ok() {
		return batch[T]{err: res.Err}
	}
	return batch[T]{records: normalize(res.Records), raw: len(res.Records)}
}

// collect concatenates batches in plan order and tallies query stats.
func collect[T any](batches []batch[T]) ([]T, runlog.Stats) {
	stats := runlog.Stats{Queries: len(batches)}
	var all []T
	for _, b := range batches {
		if b.err != nil {
			stats.Failed++
			continue
		}
		stats.Raw += b.raw
		all = append(all, b.records...)
	}
	return all, stats
}
