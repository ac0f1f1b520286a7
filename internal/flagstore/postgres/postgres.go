package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pingwatch/pingwatch/internal/domain"
	"github.com/pingwatch/pingwatch/internal/flagstore"
)

var _ flagstore.Store = (*Store)(nil)

// Store keeps down-flags in a single table:
//
//	CREATE TABLE down_flags (
//	    key        TEXT PRIMARY KEY,
//	    status     TEXT NOT NULL DEFAULT 'down',
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) State(ctx context.Context, key string) (domain.FlagState, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(1) FROM down_flags WHERE key = $1`, key).Scan(&n)
	if err != nil {
		return domain.FlagUnknown, fmt.Errorf("query flag %s: %w", key, err)
	}
	if n > 0 {
		return domain.FlagPresent, nil
	}
	return domain.FlagAbsent, nil
}

func (s *Store) Create(ctx context.Context, key string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO down_flags (key, status, created_at)
		 VALUES ($1, 'down', $2)
		 ON CONFLICT (key) DO NOTHING`,
		key, at.UTC())
	if err != nil {
		return fmt.Errorf("insert flag %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM down_flags WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete flag %s: %w", key, err)
	}
	return nil
}
