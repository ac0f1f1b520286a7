package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier publishes a fire-and-forget message. Failures are reported to
// the caller but are never fatal to a run.
type Notifier interface {
	Publish(ctx context.Context, subject, body string) error
}

type Multi []Notifier

func (m Multi) Publish(ctx context.Context, subject, body string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Publish(ctx, subject, body))
	}
	return errs
}
