package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	jmerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/ports/mocks"
	"github.com/Gunvolt24/tenderstore/internal/pricing"
	memrepo "github.com/Gunvolt24/tenderstore/internal/repo/memory"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/internal/usecase"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	mgr       *storage.Manager
	pricing   *modules.Pricing
	snapshots *modules.Snapshots
	backups   *modules.Backups
	projects  *modules.Projects
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := noopLogger{}
	mgr := storage.NewManager(
		storage.Config{Mode: storage.ModeTest, CacheEnabled: true},
		log,
		storage.WithAdapter(memrepo.NewAdapter()),
	)
	_, err := mgr.Initialize(context.Background())
	require.NoError(t, err)

	return fixture{
		mgr:       mgr,
		pricing:   modules.NewPricing(mgr, log),
		snapshots: modules.NewSnapshots(mgr, log, nil),
		backups:   modules.NewBackups(mgr, log, domain.RetentionRule{MaxEntries: 2}),
		projects:  modules.NewProjects(mgr, log),
	}
}

func (f fixture) service(v ports.PricingRequestValidator, b usecase.BackupRepository) *usecase.TenderService {
	if b == nil {
		b = f.backups
	}
	return usecase.NewTenderService(usecase.Deps{
		Pricing:   f.pricing,
		Snapshots: f.snapshots,
		Backups:   b,
		Projects:  f.projects,
		Stats:     f.mgr,
		Builder: snapshot.NewBuilder(
			pricing.NewEngine(pricing.Config{VATRate: 0.15}),
			snapshot.Config{VATRate: 0.15, DefaultPercentages: domain.Percentages{Administrative: 5, Operational: 5, Profit: 10}},
			snapshot.WithClock(func() time.Time { return fixedNow }),
		),
		Validator: v,
		Log:       noopLogger{},
		Retention: domain.RetentionRule{MaxEntries: 2},
	})
}

func requestJSON(t *testing.T, tenderID string) []byte {
	t.Helper()
	raw, err := json.Marshal(domain.PricingRequest{
		TenderID:    tenderID,
		TenderTitle: "Bridge",
		QuantityItems: []domain.QuantityItem{
			{ID: "1", Description: "Excavation", Quantity: 10},
			{ID: "2", Description: "Concrete", Quantity: 4},
		},
		Pricing: []domain.PricingEntry{
			{ID: "1", TotalPrice: 1000},
			{ID: "2", UnitPrice: 50},
		},
		Notes: "initial",
	})
	require.NoError(t, err)
	return raw
}

func TestSaveFromMessage_FullPipeline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, "T-1")))

	rec, ok := f.pricing.Get(ctx, "T-1")
	require.True(t, ok)
	require.Equal(t, 1, rec.Version)

	snap, err := svc.GetSnapshot(ctx, "T-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, domain.SourceAuthoring, snap.Meta.Source)
	require.Equal(t, "initial", snap.Meta.Notes)
	require.Equal(t, 1200.0, snap.Totals.TotalValue)

	res, err := svc.ValidateSnapshot(ctx, "T-1")
	require.NoError(t, err)
	require.True(t, res.OK)

	backups, err := svc.TenderBackups(ctx, "T-1")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.Equal(t, 1200.0, backups[0].TotalValue)
}

func TestSaveFromMessage_RetentionApplied(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	for range 3 {
		require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, "T-1")))
	}
	require.Len(t, f.backups.ListTenderBackups(ctx, "T-1"), 2)

	rec, _ := f.pricing.Get(ctx, "T-1")
	require.Equal(t, 3, rec.Version)
}

func TestSaveFromMessage_InvalidJSON(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	for _, raw := range []string{"{", `{"tenderId":"T-1","unknown":1}`, `{"tenderId":"T-1"} {}`} {
		err := svc.SaveFromMessage(context.Background(), []byte(raw))
		require.ErrorIs(t, err, validate.ErrInvalidRequest, raw)
		require.Equal(t, jmerrors.CodeInvalidInput, jmerrors.GetCode(err))
		require.False(t, jmerrors.IsRetryable(err))
	}
	require.Zero(t, f.pricing.Count(context.Background()))
}

func TestSaveFromMessage_ValidationFailed(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	f := newFixture(t)

	v := mocks.NewMockPricingRequestValidator(ctrl)
	v.EXPECT().Validate(gomock.Any(), gomock.Any()).
		Return(validate.ErrInvalidRequest)

	err := f.service(v, nil).SaveFromMessage(context.Background(), requestJSON(t, "T-1"))
	require.ErrorIs(t, err, validate.ErrInvalidRequest)
	require.False(t, f.snapshots.Exists(context.Background(), "T-1"))
}

// failingBackups - бэкап всегда падает, учёт сбоев работает.
type failingBackups struct {
	*modules.Backups
}

func (failingBackups) SaveTenderBackup(context.Context, modules.BackupInput) (domain.TenderBackupRecord, error) {
	return domain.TenderBackupRecord{}, errors.New("quota exceeded")
}

func TestSaveFromMessage_BackupFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), failingBackups{f.backups})

	require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, "T-1")))
	require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, "T-1")))

	require.True(t, f.snapshots.Exists(ctx, "T-1"))
	st, ok := f.backups.FailureState(ctx, "T-1")
	require.True(t, ok)
	require.Equal(t, 2, st.Count)
	require.Equal(t, "quota exceeded", st.LastError)
}

func TestRebuildSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	_, err := svc.RebuildSnapshot(ctx, "T-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Equal(t, jmerrors.CodeNotFound, jmerrors.GetCode(err))

	require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, "T-1")))
	before, _ := svc.GetSnapshot(ctx, "T-1")

	snap, err := svc.RebuildSnapshot(ctx, "T-1")
	require.NoError(t, err)
	require.Equal(t, domain.SourceRebuild, snap.Meta.Source)
	require.Equal(t, "initial", snap.Meta.Notes)
	require.Equal(t, before.Items, snap.Items)
	require.Equal(t, before.Meta.IntegrityHash, snap.Meta.IntegrityHash)
}

func TestSnapshotReads_Absent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newFixture(t).service(validate.NewPricingValidator(), nil)

	snap, err := svc.GetSnapshot(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, snap)

	meta, err := svc.SnapshotMeta(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, meta)

	res, err := svc.ValidateSnapshot(ctx, "nope")
	require.NoError(t, err)
	require.Equal(t, domain.ReasonMissing, res.Reason)

	require.ErrorIs(t, svc.DeleteSnapshot(ctx, "nope"), domain.ErrNotFound)
}

func TestListSnapshots_Pagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	for _, id := range []string{"C", "A", "B"} {
		require.NoError(t, svc.SaveFromMessage(ctx, requestJSON(t, id)))
	}

	cases := []struct {
		limit, offset int
		want          []string
	}{
		{0, 0, []string{"A", "B", "C"}},
		{2, 0, []string{"A", "B"}},
		{2, 2, []string{"C"}},
		{5, 7, []string{}},
	}
	for _, tc := range cases {
		got, err := svc.ListSnapshots(ctx, tc.limit, tc.offset)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	require.NoError(t, svc.DeleteSnapshot(ctx, "B"))
	got, _ := svc.ListSnapshots(ctx, 0, 0)
	require.Equal(t, []string{"A", "C"}, got)
}

func TestProjectsAndStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(validate.NewPricingValidator(), nil)

	p, err := f.projects.Create(ctx, domain.Project{Name: "Harbour", Client: "Port Authority"})
	require.NoError(t, err)

	got, err := svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Harbour", got.Name)

	got, err = svc.GetProject(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	list, err := svc.SearchProjects(ctx, domain.ProjectQuery{Text: "port", Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	stats := svc.StorageStats(ctx)
	require.Equal(t, "memory", stats.Adapter)
	require.Equal(t, 1, stats.TotalKeys)
}
