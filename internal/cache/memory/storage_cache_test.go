package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestSetGet_HitMiss(t *testing.T) {
	c := NewStorageCache(2, 5*time.Minute)

	var got doc
	if c.Get("k1", &got) {
		t.Fatalf("expected miss before Set")
	}

	if err := c.Set("k1", doc{Name: "a"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !c.Get("k1", &got) || got.Name != "a" {
		t.Fatalf("expected hit for k1, got %+v", got)
	}
}

func TestTTL_ExpiryEvicts(t *testing.T) {
	clk := newFakeClock()
	c := NewStorageCache(10, time.Minute, WithClock(clk.Now))

	_ = c.Set("ttl", doc{Name: "x"})
	clk.Advance(30 * time.Second)
	var got doc
	if !c.Get("ttl", &got) {
		t.Fatalf("expected hit before TTL")
	}

	// Доступ не продлевает жизнь записи: TTL считается от записи.
	clk.Advance(31 * time.Second)
	if c.Get("ttl", &got) {
		t.Fatalf("expected miss after TTL expires")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be evicted, len=%d", c.Len())
	}
}

func TestTTL_RealClock(t *testing.T) {
	c := NewStorageCache(2, 50*time.Millisecond)
	_ = c.Set("k", doc{})
	time.Sleep(80 * time.Millisecond)
	if c.Has("k") {
		t.Fatalf("expected entry to expire")
	}
}

func TestTTL_ZeroDisablesExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewStorageCache(10, 0, WithClock(clk.Now))

	_ = c.Set("k", doc{Name: "forever"})
	clk.Advance(24 * 365 * time.Hour)

	var got doc
	if !c.Get("k", &got) || got.Name != "forever" {
		t.Fatalf("ttl=0 must disable expiry")
	}
	if n := c.Prune(); n != 0 {
		t.Fatalf("prune with ttl=0 must be noop, removed %d", n)
	}
}

func TestLRUEviction(t *testing.T) {
	clk := newFakeClock()
	c := NewStorageCache(2, 0, WithClock(clk.Now))

	_ = c.Set("A", doc{})
	clk.Advance(time.Second)
	_ = c.Set("B", doc{})
	clk.Advance(time.Second)

	// A становится самым свежим по доступу
	var d doc
	if !c.Get("A", &d) {
		t.Fatalf("expected hit for A")
	}
	clk.Advance(time.Second)
	_ = c.Set("C", doc{})

	if c.Has("B") {
		t.Fatalf("expected B to be evicted")
	}
	if !c.Has("A") || !c.Has("C") || c.Len() != 2 {
		t.Fatalf("expected A & C to stay in cache")
	}
}

func TestHas_DoesNotBumpAccess(t *testing.T) {
	c := NewStorageCache(2, 0)

	_ = c.Set("A", doc{})
	_ = c.Set("B", doc{})
	// Has не должен делать A «свежим»
	if !c.Has("A") {
		t.Fatalf("expected A present")
	}
	_ = c.Set("C", doc{})

	if c.Has("A") {
		t.Fatalf("A must be evicted: Has must not count as access")
	}
	if st := c.Stats(); st.TotalHits != 0 {
		t.Fatalf("Has must not count hits, got %d", st.TotalHits)
	}
}

func TestCloneImmutability(t *testing.T) {
	c := NewStorageCache(1, 0)
	orig := doc{Name: "Z", Items: []string{"x"}}
	_ = c.Set("Z", orig)

	// меняем исходник после записи
	orig.Items[0] = "mutated-source"

	var d1 doc
	_ = c.Get("Z", &d1)
	d1.Items[0] = "changed"

	var d2 doc
	_ = c.Get("Z", &d2)
	if d2.Items[0] != "x" {
		t.Fatalf("cache must not share state with callers, got %q", d2.Items[0])
	}
}

func TestDecode_FreshValue(t *testing.T) {
	// Прежнее содержимое приёмника не смешивается с новым.
	out := map[string]int{"stale": 1}
	if err := Decode([]byte(`{"fresh":2}`), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := out["stale"]; ok || out["fresh"] != 2 {
		t.Fatalf("unexpected result: %v", out)
	}
	if err := Decode([]byte(`{}`), out); !errors.Is(err, ErrNotPointer) {
		t.Fatalf("want ErrNotPointer, got %v", err)
	}
}

func TestPrune_RemovesOnlyExpired(t *testing.T) {
	clk := newFakeClock()
	c := NewStorageCache(10, time.Minute, WithClock(clk.Now))

	_ = c.Set("old1", doc{})
	_ = c.Set("old2", doc{})
	clk.Advance(50 * time.Second)
	_ = c.Set("new", doc{})
	clk.Advance(20 * time.Second)

	if n := c.Prune(); n != 2 {
		t.Fatalf("want 2 pruned, got %d", n)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "new" {
		t.Fatalf("unexpected keys after prune: %v", keys)
	}
}

func TestEntries_And_Stats(t *testing.T) {
	c := NewStorageCache(10, 0)
	_ = c.Set("a", 1)
	_ = c.Set("b", "two")

	var v int
	_ = c.Get("a", &v)
	_ = c.Get("a", &v)

	entries := c.Entries()
	if string(entries["a"]) != "1" || string(entries["b"]) != `"two"` {
		t.Fatalf("unexpected entries: %v", entries)
	}
	st := c.Stats()
	if st.Size != 2 || st.TotalHits != 2 || st.MaxSize != 10 || st.Bytes != len("1")+len(`"two"`) {
		t.Fatalf("unexpected stats: %+v", st)
	}

	c.Delete("a")
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("clear must empty the cache")
	}
}

type fakeSource struct {
	mu        sync.Mutex
	data      map[string][]byte
	keysCalls int
	keysErr   error
	getErr    map[string]error
}

func (f *fakeSource) Keys(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keysCalls++
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeSource) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := f.getErr[key]; err != nil {
		return nil, false, err
	}
	raw, ok := f.data[key]
	return raw, ok, nil
}

func TestHydrate_LoadsOnce(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"a": []byte(`1`), "b": []byte(`2`)}}
	c := NewStorageCache(10, 0)

	n, err := c.Hydrate(context.Background(), src)
	if err != nil || n != 2 {
		t.Fatalf("hydrate: n=%d err=%v", n, err)
	}
	if n, _ := c.Hydrate(context.Background(), src); n != 0 {
		t.Fatalf("second hydrate must be noop, loaded %d", n)
	}
	if src.keysCalls != 1 || !c.Hydrated() {
		t.Fatalf("keys must be enumerated once, got %d", src.keysCalls)
	}
}

func TestHydrate_PartialFailureContinues(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{
		data:   map[string][]byte{"a": []byte(`1`), "b": []byte(`2`)},
		getErr: map[string]error{"b": boom},
	}
	c := NewStorageCache(10, 0)

	n, err := c.Hydrate(context.Background(), src)
	if n != 1 || !errors.Is(err, boom) {
		t.Fatalf("want 1 loaded and joined error, got n=%d err=%v", n, err)
	}
	if !c.Has("a") || c.Has("b") {
		t.Fatalf("only readable key must be cached")
	}
}

func TestHydrate_KeysFailureLeavesNotHydrated(t *testing.T) {
	src := &fakeSource{keysErr: errors.New("down")}
	c := NewStorageCache(10, 0)

	if _, err := c.Hydrate(context.Background(), src); err == nil {
		t.Fatalf("expected error")
	}
	if c.Hydrated() {
		t.Fatalf("failed hydration must not set the flag")
	}
}
