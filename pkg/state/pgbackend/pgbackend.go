// Package pgbackend stores ficha payloads in a single Postgres key-value table.
package pgbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-ficha/pkg/state"
)

const DefaultTable = "ficha_kv"

// Backend implements state.Backend on top of a pgx pool.
//
// Table layout:
//   - key text primary key
//   - value text not null
//   - updated_at timestamptz
type Backend struct {
	pool  *pgxpool.Pool
	table string
}

var _ state.Backend = (*Backend)(nil)

// New wraps pool. An empty table name falls back to DefaultTable.
func New(pool *pgxpool.Pool, table string) *Backend {
	if table == "" {
		table = DefaultTable
	}
	return &Backend{pool: pool, table: table}
}

// NewPool creates a pgxpool and verifies connectivity.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	// Writes are single-row upserts at human interaction rate.
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the key-value table when missing.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        text PRIMARY KEY,
	value      text NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`, b.ident())
	if _, err := b.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("pgbackend: ensure schema: %w", err)
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, b.ident()), key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pgbackend: get %q: %w", key, err)
	}
	return value, true, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	_, err := b.pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %s (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, b.ident()),
		key, value,
	)
	if err != nil {
		return fmt.Errorf("pgbackend: set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, b.ident()), key); err != nil {
		return fmt.Errorf("pgbackend: delete %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.pool.Query(ctx,
		fmt.Sprintf(`SELECT key FROM %s WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, b.ident()),
		likePrefix(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("pgbackend: keys %q: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pgbackend: keys %q: %w", prefix, err)
	}
	return keys, nil
}

func (b *Backend) ident() string {
	return pgx.Identifier{b.table}.Sanitize()
}

func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}
