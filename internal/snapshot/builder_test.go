package snapshot_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports/mocks"
	"github.com/Gunvolt24/tenderstore/internal/pricing"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newBuilder(vat float64) *snapshot.Builder {
	return snapshot.NewBuilder(
		pricing.NewEngine(pricing.Config{VATRate: vat}),
		snapshot.Config{VATRate: vat, DefaultPercentages: domain.Percentages{Administrative: 5, Operational: 5, Profit: 10}},
		snapshot.WithClock(func() time.Time { return fixedNow }),
	)
}

func sampleInput() snapshot.BuildInput {
	return snapshot.BuildInput{
		QuantityItems: []domain.QuantityItem{
			{ID: "1", Description: "Excavation", Quantity: 10},
			{ID: "2", Description: "Concrete", Quantity: 4},
			{ID: "3", Description: "Rebar", Quantity: 5},
		},
		Pricing: []domain.PricingEntry{
			{ID: "1", TotalPrice: 1000},
			{ID: "2", UnitPrice: 50},
			{ID: "3", Materials: []domain.PricingResource{{ID: "steel", Total: 16}, {ID: "wire", Quantity: 1, Price: 2}}, Percentages: &domain.Percentages{Profit: 10, Administrative: 1, Operational: 0}},
		},
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()
	s := newBuilder(0.15).Build(sampleInput())

	require.NoError(t, s.Validate())
	require.NoError(t, s.ValidateTotals())

	require.Equal(t, domain.EngineVersion, s.Meta.EngineVersion)
	require.Equal(t, domain.SnapshotVersion, s.Meta.SnapshotVersion)
	require.Equal(t, "2025-03-01T10:00:00.000Z", s.Meta.CreatedAt)
	require.Equal(t, domain.SourceAuthoring, s.Meta.Source)
	require.Equal(t, 3, s.Meta.ItemCount)

	require.Equal(t, 100.0, s.Items[0].UnitPrice)
	require.Equal(t, 1000.0, s.Items[0].TotalPrice)
	require.Equal(t, 200.0, s.Items[1].TotalPrice)
	// 18 * 1.11 = 19.98 за единицу
	require.Equal(t, 19.98, s.Items[2].UnitPrice)
	require.Equal(t, 99.9, s.Items[2].TotalPrice)

	require.Equal(t, 1299.9, s.Totals.TotalValue)
	require.Equal(t, 194.99, s.Totals.VATAmount)

	require.Equal(t, snapshot.IntegrityHash(s.Meta.EngineVersion, s.Meta.ConfigHash, s.Items, s.Totals.TotalValue), s.Meta.IntegrityHash)
	require.Equal(t, snapshot.SnapshotIntegrityHash(s), s.Meta.IntegrityHash)
	require.Equal(t, snapshot.TotalsHash(s.Items, s.Totals), s.Meta.TotalsHash)
}

func TestBuilder_Deterministic(t *testing.T) {
	t.Parallel()
	a := newBuilder(0.15).Build(sampleInput())
	b := newBuilder(0.15).Build(sampleInput())
	require.Equal(t, a, b)
}

// Смена НДС меняет configHash и integrityHash.
func TestBuilder_ConfigSensitivity(t *testing.T) {
	t.Parallel()
	a := newBuilder(0.15).Build(sampleInput())
	b := newBuilder(0.20).Build(sampleInput())

	require.NotEqual(t, a.Meta.ConfigHash, b.Meta.ConfigHash)
	require.NotEqual(t, a.Meta.IntegrityHash, b.Meta.IntegrityHash)
	require.Equal(t, a.Totals.TotalValue, b.Totals.TotalValue)
}

// Переопределённые проценты участвуют в configHash.
func TestBuilder_DefaultPercentagesOverride(t *testing.T) {
	t.Parallel()
	in := sampleInput()
	a := newBuilder(0.15).Build(in)

	in.DefaultPercentages = &domain.Percentages{Profit: 20}
	in.Source = domain.SourceRebuild
	in.Notes = "rebuild after import"
	b := newBuilder(0.15).Build(in)

	require.NotEqual(t, a.Meta.ConfigHash, b.Meta.ConfigHash)
	require.Equal(t, domain.SourceRebuild, b.Meta.Source)
	require.Equal(t, "rebuild after import", b.Meta.Notes)
}

// Снимок переживает JSON-цикл без потерь (включая отсутствие флагов).
func TestBuilder_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	in := sampleInput()
	in.Pricing = append(in.Pricing, domain.PricingEntry{ID: "1", Labor: []domain.PricingResource{{ID: "crew", Total: 5}}})
	s := newBuilder(0.15).Build(in)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var back domain.PricingSnapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, s, back)
	require.True(t, back.Items[0].Flags[pricing.FlagMerged])
}

// Порядок этапов: enrich -> dedupe -> normalize -> aggregate.
func TestBuilder_PipelineOrder(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockPricingEngine(ctrl)

	enriched := []domain.PricingItem{{ID: "a", Quantity: 10, TotalPrice: 1000}, {ID: "a", Quantity: 10}}
	deduped := []domain.PricingItem{{ID: "a", Quantity: 10, TotalPrice: 1000, Flags: map[string]bool{}}}
	normalized := []domain.PricingItem{{ID: "a", Quantity: 10, UnitPrice: 100, TotalPrice: 1000}}

	gomock.InOrder(
		engine.EXPECT().Enrich(gomock.Any(), gomock.Any(), domain.Percentages{Profit: 7}).Return(enriched),
		engine.EXPECT().Dedupe(enriched).Return(deduped),
		engine.EXPECT().Aggregate(normalized).Return(domain.PricingTotals{TotalValue: 1000}),
	)

	b := snapshot.NewBuilder(engine, snapshot.Config{DefaultPercentages: domain.Percentages{Profit: 7}},
		snapshot.WithClock(func() time.Time { return fixedNow }))
	s := b.Build(snapshot.BuildInput{Source: domain.SourceMigration})

	require.Equal(t, normalized, s.Items)
	require.Equal(t, domain.SourceMigration, s.Meta.Source)
	require.Equal(t, 1, s.Meta.ItemCount)
}
