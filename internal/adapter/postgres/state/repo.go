// Package state implements the key-value plugin state store on PostgreSQL.
package state

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/zhuyin-highlighter/internal/adapter/postgres"
	"github.com/heartmarshall/zhuyin-highlighter/internal/domain"
)

const (
	table  = "plugin_state"
	entity = "state"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo stores opaque state values by key in the plugin_state table.
type Repo struct {
	pool *pgxpool.Pool
	q    postgres.Querier
}

// New creates a new state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, q: pool}
}

// Get returns the value stored under key, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("value").From(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte
	if err := r.q.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return value, nil
}

// Put upserts value under key.
func (r *Repo) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	query, args, err := psql.Insert(table).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, entity, key)
	}
	return nil
}

// Ping checks connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (r *Repo) Close() error {
	r.pool.Close()
	return nil
}
