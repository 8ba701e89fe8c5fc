package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // database/sql driver name = "sqlite"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/repo/sqlite/migrations"
)

var (
	_ ports.StorageAdapter     = (*Adapter)(nil)
	_ ports.AdapterInitializer = (*Adapter)(nil)
	_ ports.AdapterCloser      = (*Adapter)(nil)
	_ ports.SyncStorageAdapter = (*Adapter)(nil)
)

// InMemory - путь для базы в памяти.
const InMemory = ":memory:"

// Adapter - ключ-значение поверх SQLite (modernc, без cgo).
type Adapter struct {
	db        *sql.DB
	opTimeout time.Duration
}

// Open - открывает (и создаёт каталог для) файл базы. Миграции применяются в Initialize.
func Open(path string, opTimeout time.Duration) (*Adapter, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if path != InMemory {
		path = filepath.Clean(path)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == InMemory {
		// база в памяти живёт, пока жив хотя бы один коннект
		db.SetMaxOpenConns(1)
	}
	if opTimeout <= 0 {
		opTimeout = 30 * time.Second
	}
	return &Adapter{db: db, opTimeout: opTimeout}, nil
}

func (a *Adapter) Name() string { return "sqlite" }

func (a *Adapter) IsAvailable(ctx context.Context) bool {
	return a.db.PingContext(ctx) == nil
}

// Initialize - применяет встроенные миграции goose.
func (a *Adapter) Initialize(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, a.db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (a *Adapter) Close(context.Context) error { return a.db.Close() }

func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO storage_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := a.db.QueryRowContext(ctx, `SELECT value FROM storage_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM storage_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite remove %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM storage_kv`); err != nil {
		return fmt.Errorf("sqlite clear: %w", err)
	}
	return nil
}

func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := a.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM storage_kv WHERE key = ?)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite has %q: %w", key, err)
	}
	return exists, nil
}

func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT key FROM storage_kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite keys scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// SetSync/GetSync - блокирующие варианты с таймаутом операции.
func (a *Adapter) SetSync(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.opTimeout)
	defer cancel()
	return a.Set(ctx, key, value)
}

func (a *Adapter) GetSync(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.opTimeout)
	defer cancel()
	return a.Get(ctx, key)
}
