package snapshot

import (
	"time"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// Config - бизнес-конфигурация, действующая при построении снимка.
type Config struct {
	VATRate            float64
	DefaultPercentages domain.Percentages
}

// BuildInput - сырые строки цен тендера. DefaultPercentages переопределяет значения из Config.
type BuildInput struct {
	Pricing            []domain.PricingEntry
	QuantityItems      []domain.QuantityItem
	DefaultPercentages *domain.Percentages
	Source             domain.SnapshotSource
	Notes              string
}

// Builder - детерминированный конвейер: enrich -> dedupe -> normalize -> aggregate -> hash.
type Builder struct {
	engine ports.PricingEngine
	cfg    Config
	now    func() time.Time
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

func NewBuilder(engine ports.PricingEngine, cfg Config, opts ...Option) *Builder {
	b := &Builder{engine: engine, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config - действующая конфигурация (для пересборки и диагностики).
func (b *Builder) Config() Config { return b.cfg }

// Build - новый снимок с новым createdAt. Побочных эффектов, кроме метрики, нет.
func (b *Builder) Build(in BuildInput) domain.PricingSnapshot {
	defaults := b.cfg.DefaultPercentages
	if in.DefaultPercentages != nil {
		defaults = *in.DefaultPercentages
	}
	source := in.Source
	if source == "" {
		source = domain.SourceAuthoring
	}

	enriched := b.engine.Enrich(in.Pricing, in.QuantityItems, defaults)
	deduped := b.engine.Dedupe(enriched)

	items := make([]domain.PricingItem, 0, len(deduped))
	for _, it := range deduped {
		it = NormalizeUnitTotal(it)
		if len(it.Flags) == 0 {
			it.Flags = nil
		}
		items = append(items, it)
	}
	totals := b.engine.Aggregate(items)

	configHash := ConfigHash(b.cfg.VATRate, defaults)
	metrics.SnapshotBuilds.WithLabelValues(string(source)).Inc()

	return domain.PricingSnapshot{
		Meta: domain.SnapshotMeta{
			EngineVersion:   domain.EngineVersion,
			SnapshotVersion: domain.SnapshotVersion,
			ConfigHash:      configHash,
			CreatedAt:       domain.Timestamp(b.now()),
			ItemCount:       len(items),
			TotalsHash:      TotalsHash(items, totals),
			IntegrityHash:   IntegrityHash(domain.EngineVersion, configHash, items, totals.TotalValue),
			Source:          source,
			Notes:           in.Notes,
		},
		Items:  items,
		Totals: totals,
	}
}
