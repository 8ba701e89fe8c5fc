package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Gunvolt24/tenderstore/internal/ports"
)

var (
	_ ports.StorageAdapter     = (*Adapter)(nil)
	_ ports.SyncStorageAdapter = (*Adapter)(nil)
)

// Adapter - хранилище в памяти процесса. Используется в режиме test и в CLI без бэкенда.
type Adapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewAdapter() *Adapter {
	return &Adapter{data: make(map[string][]byte)}
}

func (a *Adapter) Name() string { return "memory" }

func (a *Adapter) IsAvailable(context.Context) bool { return true }

func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.SetSync(key, value)
}

func (a *Adapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return a.GetSync(key)
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	delete(a.data, key)
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	a.data = make(map[string][]byte)
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Has(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	a.mu.RLock()
	_, ok := a.data[key]
	a.mu.RUnlock()
	return ok, nil
}

// Keys - ключи в лексикографическом порядке.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.RLock()
	keys := make([]string, 0, len(a.data))
	for k := range a.data {
		keys = append(keys, k)
	}
	a.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

func (a *Adapter) SetSync(key string, value []byte) error {
	a.mu.Lock()
	a.data[key] = slices.Clone(value)
	a.mu.Unlock()
	return nil
}

func (a *Adapter) GetSync(key string) ([]byte, bool, error) {
	a.mu.RLock()
	v, ok := a.data[key]
	a.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}
