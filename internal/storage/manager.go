package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Gunvolt24/tenderstore/internal/cache/memory"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// ModeTest - режим, в котором адаптер не выбирается автоматически.
const ModeTest = "test"

// Устаревшие ключи и префиксы, удаляемые при старте.
var (
	DefaultDeprecatedKeys     = []string{"app_pricing_snapshots", "PRICING_SNAPSHOTS"}
	DefaultDeprecatedPrefixes = []string{"tender_snapshot_", "backup-tender-pricing-"}
)

// Config - настройки менеджера; задаются один раз при создании.
type Config struct {
	Mode         string
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheMaxSize int

	// nil - значения по умолчанию, пустой срез - не чистить.
	DeprecatedKeys     []string
	DeprecatedPrefixes []string
}

// State - состояние жизненного цикла менеджера.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// InitReport - итог инициализации: выбранный адаптер, гидратация, результаты очистки.
type InitReport struct {
	Adapter  string       `json:"adapter"`
	Hydrated int          `json:"hydrated"`
	Cleanup  []KeyOutcome `json:"cleanup"`
}

// Failed - записи очистки, завершившиеся ошибкой.
func (r InitReport) Failed() []KeyOutcome {
	var out []KeyOutcome
	for _, o := range r.Cleanup {
		if o.Outcome == OutcomeFailed {
			out = append(out, o)
		}
	}
	return out
}

// Manager - оркестратор хранилища: выбор адаптера, кэш, шина событий, статистика.
// Один экземпляр на процесс создаётся в корне композиции и передаётся потребителям.
//
// Чтения мягкие (ошибка -> false и событие error), записи и инициализация возвращают ошибку.
type Manager struct {
	cfg       Config
	cache     *memory.StorageCache
	log       ports.Logger
	factories []AdapterFactory
	tracer    trace.Tracer
	bus       *eventBus

	mu      sync.RWMutex
	adapter ports.StorageAdapter
	state   State
	report  InitReport

	initGroup singleflight.Group

	// pendingMu упорядочивает pending.Add в SetSync и pending.Wait во flush.
	pendingMu sync.Mutex
	pending   sync.WaitGroup
	closing   bool

	operations atomic.Int64
	errCount   atomic.Int64
	cacheHits  atomic.Int64
	totalKeys  atomic.Int64
}

type Option func(*Manager)

// WithFactories - упорядоченная цепочка кандидатов; побеждает первый доступный.
func WithFactories(factories ...AdapterFactory) Option {
	return func(m *Manager) { m.factories = append(m.factories, factories...) }
}

// WithAdapter - явное внедрение адаптера (режим test, CLI).
func WithAdapter(a ports.StorageAdapter) Option {
	return func(m *Manager) { m.adapter = a }
}

func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) { m.tracer = t }
}

func WithCacheOptions(opts ...memory.Option) Option {
	return func(m *Manager) {
		m.cache = memory.NewStorageCache(m.cfg.CacheMaxSize, m.cfg.CacheTTL, opts...)
	}
}

func NewManager(cfg Config, log ports.Logger, opts ...Option) *Manager {
	if cfg.DeprecatedKeys == nil {
		cfg.DeprecatedKeys = DefaultDeprecatedKeys
	}
	if cfg.DeprecatedPrefixes == nil {
		cfg.DeprecatedPrefixes = DefaultDeprecatedPrefixes
	}
	m := &Manager{
		cfg:    cfg,
		cache:  memory.NewStorageCache(cfg.CacheMaxSize, cfg.CacheTTL),
		log:    log,
		tracer: otel.Tracer("github.com/Gunvolt24/tenderstore/internal/storage"),
		bus:    newEventBus(log),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetAdapter - внедрение адаптера до инициализации.
func (m *Manager) SetAdapter(a ports.StorageAdapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateUninitialized {
		return ErrAdapterLocked
	}
	m.adapter = a
	return nil
}

// Subscribe - подписка на тип события (или EventAll); возвращает функцию отписки.
func (m *Manager) Subscribe(t EventType, l Listener) func() {
	return m.bus.subscribe(t, l)
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Cache - доступ к кэшу (Prune, статистика).
func (m *Manager) Cache() *memory.StorageCache { return m.cache }

// Initialize - идемпотентная инициализация. Конкурентные вызовы разделяют один проход;
// при ошибке состояние возвращается в Uninitialized и ошибка получают все ожидающие.
func (m *Manager) Initialize(ctx context.Context) (InitReport, error) {
	if rep, done, err := m.initState(); done {
		return rep, err
	}
	v, err, _ := m.initGroup.Do("init", func() (any, error) {
		if rep, done, err := m.initState(); done {
			return rep, err
		}
		return m.initialize(ctx)
	})
	if err != nil {
		return InitReport{}, err
	}
	return v.(InitReport), nil
}

func (m *Manager) initState() (InitReport, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.state {
	case StateReady:
		return m.report, true, nil
	case StateClosed:
		return InitReport{}, true, closedError()
	}
	return InitReport{}, false, nil
}

func (m *Manager) initialize(ctx context.Context) (InitReport, error) {
	ctx, span := m.tracer.Start(ctx, "storage.initialize")
	defer span.End()

	m.setState(StateInitializing)

	adapter, err := m.ensureAdapter(ctx)
	if err != nil {
		return InitReport{}, m.failInit(ctx, err)
	}
	if hook, ok := adapter.(ports.AdapterInitializer); ok {
		if err := hook.Initialize(ctx); err != nil {
			return InitReport{}, m.failInit(ctx, opError(OpInit, "", adapter.Name(), err))
		}
	}

	report := InitReport{Adapter: adapter.Name()}
	if m.cfg.CacheEnabled {
		n, err := m.cache.Hydrate(ctx, adapter)
		report.Hydrated = n
		if err != nil {
			m.log.Warnf(ctx, "storage: cache hydration incomplete (%d loaded): %v", n, err)
		}
	}

	report.Cleanup = m.cleanupDeprecatedKeys(ctx, adapter)
	m.refreshStats(ctx, adapter)

	m.mu.Lock()
	m.state = StateReady
	m.report = report
	m.mu.Unlock()

	span.SetAttributes(attribute.String("storage.adapter", report.Adapter), attribute.Int("storage.hydrated", report.Hydrated))
	m.log.Infof(ctx, "storage: ready adapter=%s hydrated=%d cleanup=%d", report.Adapter, report.Hydrated, len(report.Cleanup))
	m.bus.publish(ctx, Event{
		Type:     EventInitialized,
		Op:       OpInit,
		Success:  true,
		Metadata: map[string]string{"adapter": report.Adapter},
	})
	return report, nil
}

func (m *Manager) failInit(ctx context.Context, cause error) error {
	m.setState(StateUninitialized)
	err := initError(cause)
	m.fail(ctx, OpInit, "", err)
	return err
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// ready - адаптер готового менеджера; при необходимости запускает инициализацию.
func (m *Manager) ready(ctx context.Context) (ports.StorageAdapter, error) {
	m.mu.RLock()
	st, a := m.state, m.adapter
	m.mu.RUnlock()
	if st == StateReady {
		return a, nil
	}
	if _, err := m.Initialize(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.adapter, nil
}

// readyNoWait - адаптер без ожидания инициализации (sync-варианты).
func (m *Manager) readyNoWait() (ports.StorageAdapter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.adapter, m.state == StateReady
}

func (m *Manager) startSpan(ctx context.Context, op Op, key string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "storage."+string(op), trace.WithAttributes(attribute.String("storage.key", key)))
}

func (m *Manager) succeed(ctx context.Context, op Op, key string) {
	metrics.StorageOps.WithLabelValues(string(op), "ok").Inc()
	if t, ok := eventTypeFor(op); ok {
		m.bus.publish(ctx, Event{Type: t, Key: key, Op: op, Success: true})
	}
}

// fail - учёт ошибки: счётчик, метрика, спан, лог и событие error.
func (m *Manager) fail(ctx context.Context, op Op, key string, err error) {
	m.errCount.Add(1)
	metrics.StorageOps.WithLabelValues(string(op), "error").Inc()

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(op))

	m.log.Warnf(ctx, "storage: %s %q failed: %v", op, key, err)
	m.bus.publish(ctx, Event{Type: EventError, Key: key, Op: op, Success: false, Err: err})
}

func eventTypeFor(op Op) (EventType, bool) {
	switch op {
	case OpGet:
		return EventGet, true
	case OpSet:
		return EventSet, true
	case OpRemove:
		return EventRemove, true
	case OpClear:
		return EventClear, true
	}
	return "", false
}
