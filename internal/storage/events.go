package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// EventType - тип события шины хранилища.
type EventType string

const (
	EventSet    EventType = "set"
	EventGet    EventType = "get"
	EventRemove EventType = "remove"
	EventClear  EventType = "clear"
	EventError  EventType = "error"
	// EventInitialized - менеджер готов; ключа нет.
	EventInitialized EventType = "initialized"
	// EventAll - подписка на все типы.
	EventAll EventType = "*"
)

// Event - неизменяемое событие; слушатель получает собственную копию Metadata.
type Event struct {
	Type      EventType
	Key       string
	Op        Op
	Timestamp time.Time
	Success   bool
	Err       error
	Metadata  map[string]string
}

type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// eventBus - синхронная in-process шина. Паника слушателя логируется и не выходит наружу.
type eventBus struct {
	mu        sync.RWMutex
	next      uint64
	listeners map[EventType][]subscription
	log       ports.Logger
}

func newEventBus(log ports.Logger) *eventBus {
	return &eventBus{listeners: make(map[EventType][]subscription), log: log}
}

func (b *eventBus) subscribe(t EventType, fn Listener) func() {
	b.mu.Lock()
	b.next++
	id := b.next
	b.listeners[t] = append(b.listeners[t], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.listeners[t] = slices.DeleteFunc(b.listeners[t], func(s subscription) bool { return s.id == id })
		})
	}
}

func (b *eventBus) publish(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	targets := make([]subscription, 0, len(b.listeners[ev.Type])+len(b.listeners[EventAll]))
	targets = append(targets, b.listeners[ev.Type]...)
	if ev.Type != EventAll {
		targets = append(targets, b.listeners[EventAll]...)
	}
	b.mu.RUnlock()

	for _, s := range targets {
		b.dispatch(ctx, s.fn, ev)
	}
}

func (b *eventBus) dispatch(ctx context.Context, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorf(ctx, "storage: event listener panic on %s(%s): %v", ev.Type, ev.Key, r)
		}
	}()
	ev.Metadata = maps.Clone(ev.Metadata)
	fn(ev)
}

func (b *eventBus) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventType][]subscription)
}

func (b *eventBus) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, subs := range b.listeners {
		n += len(subs)
	}
	return n
}
