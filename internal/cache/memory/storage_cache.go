package memory

import (
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// DefaultMaxSize - ёмкость кэша, если не задана.
const DefaultMaxSize = 1000

// ErrNotPointer - приёмник для декодирования должен быть ненулевым указателем.
var ErrNotPointer = errors.New("cache: decode target must be a non-nil pointer")

type entry struct {
	key            string
	raw            []byte
	createdAt      time.Time
	lastAccessedAt time.Time
	hits           int
}

// Source - то, из чего кэш гидратируется (адаптер хранилища).
type Source interface {
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// StorageCache - TTL+LRU кэш перед адаптером хранилища.
//
// Значения хранятся сериализованными: запись и чтение проходят через JSON,
// поэтому вызывающий никогда не держит ссылку на состояние кэша.
// TTL отсчитывается от момента записи; ttl <= 0 отключает истечение.
type StorageCache struct {
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	ll    *list.List // front - самый свежий доступ
	index map[string]*list.Element

	hydrated bool

	mu sync.Mutex
}

type Option func(*StorageCache)

// WithClock - подмена часов (тесты TTL).
func WithClock(now func() time.Time) Option {
	return func(c *StorageCache) { c.now = now }
}

func NewStorageCache(maxSize int, ttl time.Duration, opts ...Option) *StorageCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	c := &StorageCache{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		ll:      list.New(),
		index:   make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set - сериализует value и кладёт в кэш.
func (c *StorageCache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %q: %w", key, err)
	}
	c.SetRaw(key, raw)
	return nil
}

// SetRaw - кладёт копию уже сериализованного значения.
func (c *StorageCache) SetRaw(key string, raw []byte) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*entry)
		ent.raw = cloneBytes(raw)
		ent.createdAt = now
		ent.lastAccessedAt = now
		ent.hits = 0
		c.ll.MoveToFront(elem)
	} else {
		c.index[key] = c.ll.PushFront(&entry{
			key:            key,
			raw:            cloneBytes(raw),
			createdAt:      now,
			lastAccessedAt: now,
		})
	}
	c.enforceMaxSize()
	metrics.CacheSize.Set(float64(len(c.index)))
}

// Get - декодирует значение в out. false при промахе, истечении TTL или ошибке декодирования.
func (c *StorageCache) Get(key string, out any) bool {
	raw, ok := c.GetRaw(key)
	if !ok {
		return false
	}
	return Decode(raw, out) == nil
}

// GetRaw - копия сериализованного значения; обновляет статистику доступа.
func (c *StorageCache) GetRaw(key string) ([]byte, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}

	ent.lastAccessedAt = now
	ent.hits++
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneBytes(ent.raw), true
}

// Has - наличие актуальной записи без изменения статистики доступа.
func (c *StorageCache) Has(key string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		return false
	}
	if c.isExpired(elem.Value.(*entry), now) {
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return false
	}
	return true
}

func (c *StorageCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

// Clear - полная очистка. Флаг гидратации не сбрасывается.
func (c *StorageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.index = make(map[string]*list.Element)
	metrics.CacheSize.Set(0)
}

// Prune - удаляет все записи с истекшим TTL, возвращает их число.
func (c *StorageCache) Prune() int {
	if c.ttl <= 0 {
		return 0
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.ll.Front(); elem != nil; {
		next := elem.Next()
		if c.isExpired(elem.Value.(*entry), now) {
			c.removeElement(elem)
			removed++
		}
		elem = next
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues("expired").Add(float64(removed))
		metrics.CacheSize.Set(float64(len(c.index)))
	}
	return removed
}

// Hydrate - однократная загрузка всех ключей источника.
// Повторные вызовы после успешной гидратации ничего не делают.
// Ошибки чтения отдельных ключей не прерывают загрузку и возвращаются объединёнными.
func (c *StorageCache) Hydrate(ctx context.Context, src Source) (int, error) {
	c.mu.Lock()
	done := c.hydrated
	c.mu.Unlock()
	if done {
		return 0, nil
	}

	keys, err := src.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("cache: hydrate keys: %w", err)
	}

	var (
		loaded int
		errs   []error
	)
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		raw, found, err := src.Get(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
			continue
		}
		if !found {
			continue
		}
		c.SetRaw(key, raw)
		loaded++
	}

	c.mu.Lock()
	c.hydrated = true
	c.mu.Unlock()

	return loaded, errors.Join(errs...)
}

func (c *StorageCache) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}
