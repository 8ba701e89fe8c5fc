//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/pricing"
	pgrepo "github.com/Gunvolt24/tenderstore/internal/repo/postgres"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/internal/testutil"
	rest "github.com/Gunvolt24/tenderstore/internal/transport/http"
	"github.com/Gunvolt24/tenderstore/internal/usecase"
	"github.com/Gunvolt24/tenderstore/pkg/logger"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

type pgStack struct {
	mgr *storage.Manager
	svc *usecase.TenderService
	ts  *httptest.Server
}

// newPGStack - postgres-контейнер, менеджер поверх KV-адаптера и HTTP-сервер.
func newPGStack(t *testing.T) (context.Context, pgStack) {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	t.Cleanup(cancel)

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	pool, err := pgrepo.NewPool(ctx, pg.DSN, 4, 1)
	require.NoError(t, err)

	mgr := storage.NewManager(storage.Config{Mode: storage.ModeTest, CacheEnabled: true}, logg,
		storage.WithAdapter(pgrepo.NewKVAdapter(pool)))
	_, err = mgr.Initialize(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close(context.Background()) })

	svc := usecase.NewTenderService(usecase.Deps{
		Pricing:   modules.NewPricing(mgr, logg),
		Snapshots: modules.NewSnapshots(mgr, logg, nil),
		Backups:   modules.NewBackups(mgr, logg, domain.RetentionRule{MaxEntries: 3}),
		Projects:  modules.NewProjects(mgr, logg),
		Stats:     mgr,
		Builder: snapshot.NewBuilder(pricing.NewEngine(pricing.Config{VATRate: 0.15}),
			snapshot.Config{VATRate: 0.15, DefaultPercentages: domain.Percentages{Administrative: 5, Operational: 5, Profit: 10}}),
		Validator: validate.NewPricingValidator(),
		Log:       logg,
		Retention: domain.RetentionRule{MaxEntries: 3},
	})

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(svc, logg, 2*time.Second), ""))
	t.Cleanup(ts.Close)

	return ctx, pgStack{mgr: mgr, svc: svc, ts: ts}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// 1) Сохранение из сообщения, чтение снимка, метаданных и бэкапов через HTTP
func TestHTTP_SnapshotLifecycle_TC(t *testing.T) {
	ctx, s := newPGStack(t)

	req := testutil.MakePricingRequest()
	require.NoError(t, s.svc.SaveFromMessage(ctx, testutil.MustJSON(req)))
	base := s.ts.URL + "/tenders/" + req.TenderID

	var snap domain.PricingSnapshot
	require.Equal(t, http.StatusOK, getJSON(t, base+"/snapshot", &snap))
	require.InDelta(t, 1200, snap.Totals.TotalValue, 0.001)

	var meta domain.SnapshotMeta
	require.Equal(t, http.StatusOK, getJSON(t, base+"/snapshot/meta", &meta))
	require.Equal(t, snap.Meta.IntegrityHash, meta.IntegrityHash)

	var integrity domain.IntegrityResult
	require.Equal(t, http.StatusOK, getJSON(t, base+"/snapshot/integrity", &integrity))
	require.True(t, integrity.OK)

	var backups []domain.TenderBackupRecord
	require.Equal(t, http.StatusOK, getJSON(t, base+"/backups", &backups))
	require.Len(t, backups, 1)

	var ids []string
	require.Equal(t, http.StatusOK, getJSON(t, s.ts.URL+"/snapshots", &ids))
	require.Contains(t, ids, req.TenderID)
}

// 2) Подмена снимка в хранилище - 409, удаление - 404 на проверке
func TestHTTP_IntegrityMismatchAndDelete_TC(t *testing.T) {
	ctx, s := newPGStack(t)

	req := testutil.MakePricingRequest()
	require.NoError(t, s.svc.SaveFromMessage(ctx, testutil.MustJSON(req)))
	base := s.ts.URL + "/tenders/" + req.TenderID

	var all map[string]domain.PricingSnapshot
	require.True(t, s.mgr.Get(ctx, modules.KeySnapshots, &all))
	tampered := all[req.TenderID]
	tampered.Items[0].TotalPrice += 1
	all[req.TenderID] = tampered
	require.NoError(t, s.mgr.Set(ctx, modules.KeySnapshots, all))

	var res domain.IntegrityResult
	require.Equal(t, http.StatusConflict, getJSON(t, base+"/snapshot/integrity", &res))
	require.Equal(t, domain.ReasonHashMismatch, res.Reason)

	// rebuild пересчитывает снимок из сырых цен
	resp, err := http.Post(base+"/snapshot/rebuild", "application/json", http.NoBody)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, getJSON(t, base+"/snapshot/integrity", &res))

	del, err := http.NewRequest(http.MethodDelete, base+"/snapshot", http.NoBody)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(del)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Equal(t, http.StatusNotFound, getJSON(t, base+"/snapshot/integrity", &res))
	require.Equal(t, domain.ReasonMissing, res.Reason)
}

// 3) Статистика хранилища и пустые выборки
func TestHTTP_StatsAndEmptyReads_TC(t *testing.T) {
	_, s := newPGStack(t)

	var st domain.StorageStats
	require.Equal(t, http.StatusOK, getJSON(t, s.ts.URL+"/storage/stats", &st))
	require.Equal(t, "postgres", st.Adapter)

	var projects []domain.Project
	require.Equal(t, http.StatusOK, getJSON(t, s.ts.URL+"/projects?q=none", &projects))
	require.Empty(t, projects)

	var body map[string]any
	require.Equal(t, http.StatusNotFound, getJSON(t, s.ts.URL+"/projects/none", &body))
	require.Equal(t, "project not found", body["error"])
}

// 4) Таймаут запроса: сервис ждёт ctx.Done() - 500
func TestHTTP_Timeout_500(t *testing.T) {
	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(slowService{}, logg, 10*time.Millisecond), ""))
	defer ts.Close()

	var got map[string]any
	require.Equal(t, http.StatusInternalServerError, getJSON(t, ts.URL+"/tenders/any/snapshot", &got))
	require.Equal(t, "internal server error", got["error"])
}

// slowService - ждёт отмены контекста и возвращает его ошибку.
type slowService struct{ ports.TenderReadService }

func (slowService) GetSnapshot(ctx context.Context, _ string) (*domain.PricingSnapshot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
