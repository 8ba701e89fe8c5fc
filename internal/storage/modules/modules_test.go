package modules_test

import (
	"context"
	"testing"
	"time"

	jmerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/pricing"
	memrepo "github.com/Gunvolt24/tenderstore/internal/repo/memory"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testLogger(t *testing.T) ports.Logger {
	return logger.FromZap(zaptest.NewLogger(t))
}

func newStore(t *testing.T) *storage.Manager {
	t.Helper()
	m := storage.NewManager(
		storage.Config{Mode: storage.ModeTest, CacheEnabled: true, CacheMaxSize: 100},
		testLogger(t),
		storage.WithAdapter(memrepo.NewAdapter()),
	)
	_, err := m.Initialize(context.Background())
	require.NoError(t, err)
	return m
}

func buildSnapshot(t *testing.T) domain.PricingSnapshot {
	t.Helper()
	b := snapshot.NewBuilder(
		pricing.NewEngine(pricing.Config{VATRate: 0.15}),
		snapshot.Config{VATRate: 0.15, DefaultPercentages: domain.Percentages{Administrative: 5, Operational: 5, Profit: 10}},
		snapshot.WithClock(fixedClock),
	)
	return b.Build(snapshot.BuildInput{
		QuantityItems: []domain.QuantityItem{
			{ID: "1", Description: "Excavation", Quantity: 10},
			{ID: "2", Description: "Concrete", Quantity: 4},
		},
		Pricing: []domain.PricingEntry{
			{ID: "1", TotalPrice: 1000},
			{ID: "2", UnitPrice: 50},
		},
	})
}

func TestSnapshots_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	snaps := modules.NewSnapshots(st, testLogger(t), nil)

	want := buildSnapshot(t)
	require.NoError(t, snaps.Save(ctx, "T-1", want))

	got, ok := snaps.Load(ctx, "T-1")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.True(t, snaps.Exists(ctx, "T-1"))
	require.Equal(t, []string{"T-1"}, snaps.TenderIDs(ctx))

	meta, ok := snaps.Metadata(ctx, "T-1")
	require.True(t, ok)
	require.Equal(t, want.Meta.IntegrityHash, meta.IntegrityHash)
}

func TestSnapshots_IntegrityDetectsTampering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	snaps := modules.NewSnapshots(st, testLogger(t), nil)

	require.NoError(t, snaps.Save(ctx, "T-1", buildSnapshot(t)))
	require.Equal(t, domain.IntegrityResult{OK: true}, snaps.ValidateIntegrity(ctx, "T-1"))

	// правка позиции в обход модуля
	raw := snaps.Export(ctx)
	s := raw["T-1"]
	s.Items[0].TotalPrice += 1
	raw["T-1"] = s
	require.NoError(t, st.Set(ctx, modules.KeySnapshots, raw))

	res := snaps.ValidateIntegrity(ctx, "T-1")
	require.False(t, res.OK)
	require.Equal(t, domain.ReasonHashMismatch, res.Reason)

	res = snaps.ValidateIntegrity(ctx, "absent")
	require.Equal(t, domain.IntegrityResult{Reason: domain.ReasonMissing}, res)
}

func TestSnapshots_SaveRejectsInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	snaps := modules.NewSnapshots(newStore(t), testLogger(t), nil)

	s := buildSnapshot(t)
	s.Totals.TotalValue += 5
	err := snaps.Save(ctx, "T-1", s)
	require.Error(t, err)
	require.Equal(t, jmerrors.CodeInvalidInput, jmerrors.GetCode(err))

	s = buildSnapshot(t)
	s.Meta.ItemCount++
	require.ErrorIs(t, snaps.Save(ctx, "T-1", s), domain.ErrInvalidSnapshot)

	require.Error(t, snaps.Save(ctx, " ", buildSnapshot(t)))
	require.Zero(t, snaps.Count(ctx))
}

func TestSnapshots_UpdateNotesKeepsHashes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	snaps := modules.NewSnapshots(newStore(t), testLogger(t), nil)

	s := buildSnapshot(t)
	require.NoError(t, snaps.Save(ctx, "T-1", s))

	meta, err := snaps.UpdateNotes(ctx, "T-1", "checked by QS")
	require.NoError(t, err)
	require.Equal(t, "checked by QS", meta.Notes)
	require.Equal(t, s.Meta.IntegrityHash, meta.IntegrityHash)
	require.True(t, snaps.ValidateIntegrity(ctx, "T-1").OK)

	_, err = snaps.UpdateNotes(ctx, "absent", "x")
	require.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := snaps.Delete(ctx, "T-1")
	require.NoError(t, err)
	require.True(t, deleted)
	deleted, err = snaps.Delete(ctx, "T-1")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestSnapshots_LoadSkipsStructurallyInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	snaps := modules.NewSnapshots(st, testLogger(t), nil)

	s := buildSnapshot(t)
	s.Meta.Source = "unknown"
	require.NoError(t, st.Set(ctx, modules.KeySnapshots, modules.SnapshotMap{"T-1": s}))

	_, ok := snaps.Load(ctx, "T-1")
	require.False(t, ok)
	require.True(t, snaps.Exists(ctx, "T-1"))
}

func TestMigration_LegacySnapshotsMovedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	snaps := modules.NewSnapshots(st, testLogger(t), nil)

	legacy := modules.SnapshotMap{"T-1": buildSnapshot(t)}
	require.NoError(t, st.Set(ctx, "tender_pricing_snapshots", legacy))

	out := snaps.Initialize(ctx)
	require.Equal(t, modules.MigrationMigrated, out.Status)
	require.Equal(t, "tender_pricing_snapshots", out.From)
	require.False(t, st.Has(ctx, "tender_pricing_snapshots"))

	got, ok := snaps.Load(ctx, "T-1")
	require.True(t, ok)
	require.Equal(t, legacy["T-1"], got)

	// повторная инициализация не меняет данные
	out = snaps.Initialize(ctx)
	require.Equal(t, modules.MigrationSkipped, out.Status)
	require.Equal(t, 1, snaps.Count(ctx))
}

func TestMigration_ModernDataWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	projects := modules.NewProjects(st, testLogger(t))

	require.NoError(t, st.Set(ctx, modules.KeyProjects, domain.ProjectList{{ID: "new", Name: "Modern"}}))
	require.NoError(t, st.Set(ctx, "projects", domain.ProjectList{{ID: "old", Name: "Legacy"}}))

	out := projects.Initialize(ctx)
	require.Equal(t, modules.MigrationSkipped, out.Status)
	require.True(t, st.Has(ctx, "projects"))
	require.Equal(t, []string{"new"}, ids(projects.All(ctx)))
}

func TestMigration_LegacyKeyPriority(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	projects := modules.NewProjects(st, testLogger(t))

	require.NoError(t, st.Set(ctx, "projects", domain.ProjectList{}))
	require.NoError(t, st.Set(ctx, "app_projects", domain.ProjectList{{ID: "b", Name: "Second"}}))

	out := projects.Initialize(ctx)
	require.Equal(t, modules.MigrationMigrated, out.Status)
	require.Equal(t, "app_projects", out.From)
	require.Equal(t, []string{"b"}, ids(projects.All(ctx)))
}

func TestInitializeAll_NothingToMigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newStore(t)
	log := testLogger(t)

	outs := modules.InitializeAll(ctx,
		modules.NewProjects(st, log),
		modules.NewPricing(st, log),
		modules.NewSnapshots(st, log, nil),
		modules.NewBackups(st, log, domain.RetentionRule{}),
	)
	require.Len(t, outs, 4)
	for _, o := range outs {
		require.Equal(t, modules.MigrationNone, o.Status, o.Module)
	}
}

func ids(list []domain.Project) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}
