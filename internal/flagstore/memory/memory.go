package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore"
)

var _ flagstore.Store = (*Store)(nil)

// Store keeps flags in-process. Used in tests and local dev.
type Store struct {
	mu    sync.RWMutex
	flags map[string]domain.DownFlag
}

func New() *Store {
	return &Store{flags: make(map[string]domain.DownFlag)}
}

func (s *Store) State(ctx context.Context, key string) (domain.FlagState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.flags[key]; ok {
		return domain.FlagPresent, nil
	}
	return domain.FlagAbsent, nil
}

func (s *Store) Create(ctx context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = domain.NewDownFlag(key, at)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, key)
	return nil
}

// Get returns the stored flag, for assertions in tests.
func (s *Store) Get(key string) (domain.DownFlag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flags[key]
	return f, ok
}
