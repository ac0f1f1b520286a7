package flagstore

import (
	"context"
	"time"

	"github.com/pingwatch/pingwatch/internal/domain"
)

// Store is the port for down-flag persistence — swap in any adapter.
//
// "Not found" is a normal outcome everywhere: State reports it as
// FlagAbsent with a nil error and Delete ignores it. Only real storage
// failures surface as errors, in which case State returns FlagUnknown so
// callers never mistake a broken store for a healthy target.
type Store interface {
	State(ctx context.Context, key string) (domain.FlagState, error)
	Create(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, key string) error
}
