// Package source issues one request per planned query against the upstream
// procurement APIs. Failures never escape a Fetch call: they come back as a
// failed model.Result with no records.
package source

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/model"
)

// Client fetches the raw records for a single query.
type Client interface {
	Fetch(ctx context.Context, q model.Query) model.Result
}

// fetch runs one request and decodes its body, converting every failure into
// a failed result and logging it once.
func fetch(ctx context.Context, q model.Query, open func(context.Context) (io.ReadCloser, error), decode func(io.Reader) ([]model.RawRecord, error)) model.Result {
	log := zap.L().With(zap.String("source", string(q.Source)), zap.String("query", q.String()))

	if err := ctx.Err(); err != nil {
		log.Warn("query skipped", zap.Error(err))
		return model.Failed(q, eris.Wrap(err, "query skipped"))
	}

	body, err := open(ctx)
	if err != nil {
		log.Warn("query failed", zap.Error(err))
		return model.Failed(q, err)
	}
	defer body.Close() //nolint:errcheck

	records, err := decode(body)
	if err != nil {
		log.Warn("malformed response", zap.Error(err))
		return model.Failed(q, err)
	}

	log.Debug("query complete", zap.Int("records", len(records)))
	return model.Result{Query: q, Records: records}
}

// objects keeps the JSON objects in items and drops anything else.
func objects(items []any) []model.RawRecord {
	out := make([]model.RawRecord, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, model.RawRecord(m))
		}
	}
	return out
}
