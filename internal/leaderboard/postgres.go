package leaderboard

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victornm/quizboard/internal/domain"
)

// PostgresStore keeps the leaderboard as one row of a key-value table.
type PostgresStore struct {
	db  *pgxpool.Pool
	key string
}

func NewPostgresStore(db *pgxpool.Pool, prefix string) *PostgresStore {
	return &PostgresStore{
		db:  db,
		key: prefixedKey(prefix),
	}
}

// Migrate creates the key-value table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS kv_store (
	key         TEXT PRIMARY KEY,
	value       TEXT NOT NULL,
	update_time TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := s.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}

	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]domain.Result, error) {
	const stmt = `SELECT value FROM kv_store WHERE key = $1;`

	var v string
	err := s.db.QueryRow(ctx, stmt, s.key).Scan(&v)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	return decodeOrEmpty(ctx, []byte(v)), nil
}

func (s *PostgresStore) Append(ctx context.Context, r domain.Result) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback(ctx))
		}
	}()

	const (
		selStmt    = `SELECT value FROM kv_store WHERE key = $1 FOR UPDATE;`
		upsertStmt = `
INSERT INTO kv_store (key, value, update_time) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, update_time = EXCLUDED.update_time;`
	)

	var v string
	err = tx.QueryRow(ctx, selStmt, s.key).Scan(&v)
	if err != nil && !stderrors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("select leaderboard: %w", err)
	}

	b, err := encode(append(decodeOrEmpty(ctx, []byte(v)), r))
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, upsertStmt, s.key, string(b)); err != nil {
		return fmt.Errorf("upsert leaderboard: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	const stmt = `DELETE FROM kv_store WHERE key = $1;`

	if _, err := s.db.Exec(ctx, stmt, s.key); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}

	return nil
}
