package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/repo/postgres/migrations"
)

var (
	_ ports.StorageAdapter     = (*KVAdapter)(nil)
	_ ports.AdapterInitializer = (*KVAdapter)(nil)
	_ ports.AdapterCloser      = (*KVAdapter)(nil)
)

// KVAdapter - ключ-значение в таблице storage_kv (pgxpool).
type KVAdapter struct {
	pool *pgxpool.Pool
}

// NewKVAdapter - конструктор KVAdapter. Пул переходит во владение адаптера (закрывается в Close).
func NewKVAdapter(pool *pgxpool.Pool) *KVAdapter { return &KVAdapter{pool: pool} }

func (a *KVAdapter) Name() string { return "postgres" }

func (a *KVAdapter) IsAvailable(ctx context.Context) bool {
	return a.pool.Ping(ctx) == nil
}

// Initialize - применяет встроенные миграции goose через database/sql поверх пула.
func (a *KVAdapter) Initialize(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(a.pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (a *KVAdapter) Close(context.Context) error {
	a.pool.Close()
	return nil
}

// Set - идемпотентный upsert по key.
func (a *KVAdapter) Set(ctx context.Context, key string, value []byte) error {
	if _, err := a.pool.Exec(ctx, `
		INSERT INTO storage_kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, string(value)); err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

func (a *KVAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := a.pool.QueryRow(ctx, `SELECT value FROM storage_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (a *KVAdapter) Remove(ctx context.Context, key string) error {
	if _, err := a.pool.Exec(ctx, `DELETE FROM storage_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (a *KVAdapter) Clear(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, `TRUNCATE storage_kv`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

func (a *KVAdapter) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	if err := a.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM storage_kv WHERE key = $1)`, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return exists, nil
}

func (a *KVAdapter) Keys(ctx context.Context) ([]string, error) {
	rows, err := a.pool.Query(ctx, `SELECT key FROM storage_kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect keys: %w", err)
	}
	return keys, nil
}
