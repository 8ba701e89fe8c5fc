package memory

import (
	"container/list"
	"encoding/json"
	"reflect"
	"time"

	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// Stats - снимок состояния кэша.
type Stats struct {
	Size      int           `json:"size"`
	MaxSize   int           `json:"maxSize"`
	TTL       time.Duration `json:"ttl"`
	TotalHits int           `json:"totalHits"`
	Bytes     int           `json:"bytes"`
}

func (c *StorageCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{Size: len(c.index), MaxSize: c.maxSize, TTL: c.ttl}
	for elem := c.ll.Front(); elem != nil; elem = elem.Next() {
		ent := elem.Value.(*entry)
		st.TotalHits += ent.hits
		st.Bytes += len(ent.raw)
	}
	return st
}

func (c *StorageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Keys - ключи актуальных записей, от самых свежих к старым.
func (c *StorageCache) Keys() []string {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.index))
	for elem := c.ll.Front(); elem != nil; elem = elem.Next() {
		ent := elem.Value.(*entry)
		if !c.isExpired(ent, now) {
			keys = append(keys, ent.key)
		}
	}
	return keys
}

// Entries - копии всех актуальных значений (для flush в адаптер).
func (c *StorageCache) Entries() map[string][]byte {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string][]byte, len(c.index))
	for key, elem := range c.index {
		ent := elem.Value.(*entry)
		if !c.isExpired(ent, now) {
			out[key] = cloneBytes(ent.raw)
		}
	}
	return out
}

// Decode - декодирует raw в свежее значение типа *out и только затем присваивает его,
// чтобы прежнее содержимое out не смешивалось с новым.
func Decode(raw []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

// enforceMaxSize - вытесняет записи с самым старым доступом, пока размер выше лимита.
func (c *StorageCache) enforceMaxSize() {
	for len(c.index) > c.maxSize {
		back := c.ll.Back()
		if back == nil {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
	}
}

func (c *StorageCache) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.index, ent.key)
	c.ll.Remove(elem)
}

func (c *StorageCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.Sub(ent.createdAt) > c.ttl
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
