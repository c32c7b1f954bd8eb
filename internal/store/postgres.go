package store

import (
	"context"
	"fmt"

	"egazette/internal/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const collectionsTableName = "egazette.collections"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// PostgresBackend persists each collection as a jsonb document in a single
// keyed table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := psql().Select("value").From(collectionsTableName).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate collection select query: %w", err)
	}

	var value []byte
	err = pgxscan.Get(ctx, b.pool, &value, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, false, err
	}
	if err != nil {
		return nil, false, nil
	}

	return value, true, nil
}

func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := psql().Insert(collectionsTableName).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate collection upsert query: %w", err)
	}

	_, err = b.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to write collection")
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	query, args, err := psql().Delete(collectionsTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate collection delete query: %w", err)
	}

	_, err = b.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete collection")
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
