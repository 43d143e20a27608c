// Package intel runs the opportunity and spend pipelines end to end:
// plan, fetch in parallel, normalize, merge in plan order, and persist.
package intel

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/govcon-intel/internal/config"
	"github.com/sells-group/govcon-intel/internal/resilience"
	"github.com/sells-group/govcon-intel/internal/runlog"
	"github.com/sells-group/govcon-intel/internal/source"
)

// Pipeline names as recorded in the run ledger.
const (
	PipelineOpportunities = "opportunities"
	PipelineSpend         = "spend"
)

// Sink persists a pipeline document.
type Sink interface {
	Path() string
	Write(v any) error
	WriteEmpty(empty any) error
}

// OpportunityClient is a source that needs a credential before it can run.
type OpportunityClient interface {
	source.Client
	Configured() bool
}

// Runner executes pipelines against a fixed configuration.
type Runner struct {
	cfg      config.Config
	recorder runlog.Recorder
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the clock used to anchor date windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRecorder records each run in the given ledger.
func WithRecorder(rec runlog.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// NewRunner creates a Runner. Without WithRecorder runs are not recorded.
func NewRunner(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		recorder: runlog.Nop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// body produces a pipeline document. A nil document means nothing usable was
// produced; the runner then persists the empty document instead.
type body func(ctx context.Context) (any, runlog.Stats, error)

// run wraps a pipeline body with the run deadline, persistence, panic
// recovery, and ledger bookkeeping. The output file is always written before
// run returns, even when it returns an error.
func (r *Runner) run(ctx context.Context, pipeline string, out Sink, empty any, fn body) (stats runlog.Stats, err error) {
	log := zap.L().With(zap.String("pipeline", pipeline))
	start := time.Now()

	id, recErr := r.recorder.Start(ctx, pipeline)
	if recErr != nil {
		log.Warn("runlog: start failed", zap.Error(recErr))
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("pipeline panicked", zap.Any("panic", p))
			err = eris.Errorf("%s: unexpected failure: %v", pipeline, p)
			_ = out.WriteEmpty(empty)
		}
		stats.Output = out.Path()
		// The ledger entry is written even when the caller's context was cancelled.
		r.record(context.WithoutCancel(ctx), log, id, stats, err)

		fields := []zap.Field{
			zap.Int("queries", stats.Queries),
			zap.Int("failed", stats.Failed),
			zap.Int("raw", stats.Raw),
			zap.Int("kept", stats.Kept),
			zap.String("output", stats.Output),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			log.Error("pipeline failed", append(fields, zap.Error(err))...)
			return
		}
		log.Info("pipeline complete", fields...)
	}()

	runCtx := ctx
	if r.cfg.Run.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.Run.Timeout)
		defer cancel()
	}

	doc, stats, bodyErr := fn(runCtx)
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn("run deadline exceeded; persisting partial results", zap.Duration("timeout", r.cfg.Run.Timeout))
	}
	if doc == nil {
		doc = empty
	}

	if werr := out.Write(doc); werr != nil {
		_ = out.WriteEmpty(empty)
		return stats, eris.Wrapf(werr, "%s: persist", pipeline)
	}
	if bodyErr != nil {
		return stats, eris.Wrap(bodyErr, pipeline)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return stats, eris.Wrapf(ctx.Err(), "%s: interrupted, partial results written", pipeline)
	}
	return stats, nil
}

// breaker returns a fresh breaker for one pipeline run, or nil when disabled.
func (r *Runner) breaker(pipeline string) *resilience.Breaker {
	if r.cfg.Fetch.BreakerThreshold <= 0 {
		return nil
	}
	log := zap.L().With(zap.String("pipeline", pipeline))
	return resilience.NewBreaker(resilience.BreakerConfig{
		Threshold: r.cfg.Fetch.BreakerThreshold,
		Cooldown:  r.cfg.Fetch.BreakerCooldown,
		OnStateChange: func(from, to resilience.State) {
			log.Warn("circuit breaker state change", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
}

func (r *Runner) record(ctx context.Context, log *zap.Logger, id string, stats runlog.Stats, runErr error) {
	if id == "" {
		return
	}
	var err error
	if runErr != nil {
		err = r.recorder.Fail(ctx, id, stats, runErr.Error())
	} else {
		err = r.recorder.Complete(ctx, id, stats)
	}
	if err != nil {
		log.Warn("runlog: record failed", zap.Error(err))
	}
}
