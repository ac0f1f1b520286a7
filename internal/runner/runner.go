// Package runner drives one full evaluation pass: load the URL list,
// probe each target, reconcile against the flag store, aggregate a report.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/probe"
	"github.com/pingwatch/pingwatch/internal/reconcile"
	"github.com/pingwatch/pingwatch/internal/source"
)

type Runner struct {
	Logger     *zap.Logger
	Source     source.Loader
	Prober     probe.Prober
	Reconciler *reconcile.Reconciler
	Timeout    time.Duration // per-probe; DefaultTimeout when zero
}

func New(logger *zap.Logger, src source.Loader, p probe.Prober, rec *reconcile.Reconciler) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Logger:     logger,
		Source:     src,
		Prober:     p,
		Reconciler: rec,
		Timeout:    probe.DefaultTimeout,
	}
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return probe.DefaultTimeout
}

// Run performs one sequential pass over the configured targets. Only a
// precondition failure (no notification destination, unloadable URL list)
// fails the whole run; per-target trouble lands on that target's record
// and evaluation continues.
func (r *Runner) Run(ctx context.Context) domain.RunReport {
	if r.Reconciler == nil || r.Reconciler.Notifier == nil {
		r.Logger.Error("run_aborted", zap.String("reason", "notification destination is not set"))
		return domain.RunReport{OK: false, Message: "configuration error: notification destination is not set"}
	}

	urls, err := r.Source.Load(ctx)
	if err != nil {
		r.Logger.Error("run_aborted", zap.Error(err))
		return domain.RunReport{OK: false, Message: fmt.Sprintf("configuration error: %v", err)}
	}

	results := make([]domain.EvaluationRecord, 0, len(urls))
	for _, raw := range urls {
		target := domain.Target(raw)

		pctx, cancel := context.WithTimeout(ctx, r.timeout())
		pr := r.Prober.Probe(pctx, raw)
		cancel()

		rec := r.Reconciler.Evaluate(ctx, target, pr)
		results = append(results, rec)

		r.Logger.Info("target_evaluated",
			zap.String("url", raw),
			zap.String("key", target.Key()),
			zap.Bool("up", pr.Reachable),
			zap.Int("status", pr.StatusCode),
			zap.Bool("flag_existed", rec.FlagExisted),
			zap.String("action", rec.Action.String()),
			zap.Bool("notified", rec.Notified),
			zap.String("error", rec.Err),
		)
	}

	return domain.RunReport{OK: true, Message: "URL ping completed", Results: results}
}
