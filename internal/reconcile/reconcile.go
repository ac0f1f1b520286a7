// Package reconcile holds the state machine that decides, per target,
// whether to raise an alert, clear one, or do nothing. The only state
// carried between runs is the presence of a down-flag in the flag store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore"
	"github.com/pingwatch/pingwatch/internal/notify"
)

// Decide is the pure transition function over (reachable, flagExists):
//
//	down,  no flag -> raise (first observation of the outage)
//	down,  flag    -> none  (already alerted, still down)
//	up,    flag    -> clear (recovered)
//	up,    no flag -> none  (healthy)
func Decide(reachable, flagExists bool) domain.Action {
	switch {
	case !reachable && !flagExists:
		return domain.ActionRaise
	case reachable && flagExists:
		return domain.ActionClear
	default:
		return domain.ActionNone
	}
}

type Reconciler struct {
	Flags    flagstore.Store
	Notifier notify.Notifier
	Now      func() time.Time
}

func New(flags flagstore.Store, notifier notify.Notifier) *Reconciler {
	return &Reconciler{Flags: flags, Notifier: notifier, Now: time.Now}
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Evaluate runs one target through the state machine: a single snapshot
// read of flag state, the pure decision, then the side effects in order —
// flag mutation first, notification second. A notification failure after
// a successful mutation is recorded on the result but the flag state
// stays authoritative.
func (r *Reconciler) Evaluate(ctx context.Context, target domain.Target, pr domain.ProbeResult) domain.EvaluationRecord {
	rec := domain.EvaluationRecord{URL: target.URL(), Probe: pr}
	key := target.Key()

	state, err := r.Flags.State(ctx, key)
	if state == domain.FlagUnknown {
		if err == nil {
			err = errors.New("flag state unknown")
		}
		rec.Err = fmt.Sprintf("flag state for %s: %v", key, err)
		return rec
	}
	rec.FlagExisted = state == domain.FlagPresent
	rec.Action = Decide(pr.Reachable, rec.FlagExisted)

	switch rec.Action {
	case domain.ActionRaise:
		if err := r.Flags.Create(ctx, key, r.now()); err != nil {
			rec.Err = fmt.Sprintf("create flag %s: %v", key, err)
			return rec
		}
		subject, body := notify.DownMessage(target.URL(), pr.StatusCode, pr.Err)
		rec.Notified, rec.Err = r.publish(ctx, subject, body)

	case domain.ActionClear:
		if err := r.Flags.Delete(ctx, key); err != nil {
			rec.Err = fmt.Sprintf("delete flag %s: %v", key, err)
			return rec
		}
		subject, body := notify.RecoveryMessage(target.URL())
		rec.Notified, rec.Err = r.publish(ctx, subject, body)
	}
	return rec
}

func (r *Reconciler) publish(ctx context.Context, subject, body string) (notified bool, errMsg string) {
	if r.Notifier == nil {
		return false, "no notifier configured"
	}
	if err := r.Notifier.Publish(ctx, subject, body); err != nil {
		return false, fmt.Sprintf("notify: %v", err)
	}
	return true, ""
}
