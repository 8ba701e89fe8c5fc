package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	goredis "github.com/go-redis/redis/v8"

	"github.com/Gunvolt24/tenderstore/internal/ports"
)

var (
	_ ports.StorageAdapter = (*Adapter)(nil)
	_ ports.AdapterCloser  = (*Adapter)(nil)
)

// scanBatch - подсказка размера страницы для SCAN.
const scanBatch = 200

type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Adapter - ключ-значение в Redis. Все ключи хранятся под префиксом,
// Keys/Clear затрагивают только своё пространство имён.
type Adapter struct {
	client *goredis.Client
	prefix string
}

func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Adapter{client: client, prefix: opts.KeyPrefix}, nil
}

func (a *Adapter) Name() string { return "redis" }

func (a *Adapter) IsAvailable(ctx context.Context) bool {
	return a.client.Ping(ctx).Err() == nil
}

func (a *Adapter) Close(context.Context) error { return a.client.Close() }

func (a *Adapter) key(k string) string { return a.prefix + k }

func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	if err := a.client.Set(ctx, a.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := a.client.Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, true, nil
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Clear - удаляет только ключи под префиксом адаптера.
func (a *Adapter) Clear(ctx context.Context) error {
	full, err := a.scan(ctx)
	if err != nil {
		return err
	}
	for chunk := range slices.Chunk(full, scanBatch) {
		if err := a.client.Del(ctx, chunk...).Err(); err != nil {
			return fmt.Errorf("redis clear: %w", err)
		}
	}
	return nil
}

func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Exists(ctx, a.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %q: %w", key, err)
	}
	return n > 0, nil
}

// Keys - ключи без префикса, отсортированные.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	full, err := a.scan(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, a.prefix))
	}
	slices.Sort(keys)
	return keys, nil
}

func (a *Adapter) scan(ctx context.Context) ([]string, error) {
	var out []string
	it := a.client.Scan(ctx, 0, escapeGlob(a.prefix)+"*", scanBatch).Iterator()
	for it.Next(ctx) {
		out = append(out, it.Val())
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return out, nil
}

// escapeGlob - экранирует спецсимволы шаблона MATCH в префиксе.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
