// Package fs stores down-flags as small JSON objects on a filesystem,
// mirroring the "flag object per target" layout of a bucket store.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore"
)

var _ flagstore.Store = (*Store)(nil)

type Store struct {
	fs  afero.Fs
	dir string
}

// New creates a flag store rooted at dir. Pass afero.NewMemMapFs() in
// tests and afero.NewOsFs() in production.
func New(fsys afero.Fs, dir string) (*Store, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create flag dir: %w", err)
	}
	return &Store{fs: fsys, dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".flag")
}

func (s *Store) State(ctx context.Context, key string) (domain.FlagState, error) {
	_, err := s.fs.Stat(s.path(key))
	if err == nil {
		return domain.FlagPresent, nil
	}
	if os.IsNotExist(err) {
		return domain.FlagAbsent, nil
	}
	return domain.FlagUnknown, fmt.Errorf("stat flag %s: %w", key, err)
}

func (s *Store) Create(ctx context.Context, key string, at time.Time) error {
	body, err := json.Marshal(domain.NewDownFlag(key, at))
	if err != nil {
		return fmt.Errorf("encode flag %s: %w", key, err)
	}
	if err := afero.WriteFile(s.fs, s.path(key), body, 0o644); err != nil {
		return fmt.Errorf("write flag %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete flag %s: %w", key, err)
	}
	return nil
}
