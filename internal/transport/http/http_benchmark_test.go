//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// --- Бенчмарки ---

// GetSnapshot: LEAN (без middleware) против полного пайплайна NewRouter.
func BenchmarkHTTP_GetSnapshot(b *testing.B) {
	snap := makeSnapshot(50)
	h := NewHandler(svcStub{snap: &snap}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServeGET(b, lean, "/tenders/T-1/snapshot")
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServeGET(b, full, "/tenders/T-1/snapshot")
	})
}

// Потолок без маршалинга: тот же снимок, заранее закодированный.
func BenchmarkHTTP_GetSnapshot_PreMarshaledBytes(b *testing.B) {
	snap := makeSnapshot(50)
	raw, _ := json.Marshal(snap)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/tenders/:id/snapshot", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", raw)
	})

	benchServeGET(b, r, "/tenders/T-1/snapshot")
}

// Размер снимка: 10/100/1000 позиций.
func BenchmarkHTTP_GetSnapshot_Items(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			snap := makeSnapshot(n)
			h := NewHandler(svcStub{snap: &snap}, nopLogger{}, 2*time.Second)
			benchServeGET(b, makeLeanRouter(h), "/tenders/T-1/snapshot")
		})
	}
}

func BenchmarkHTTP_ListSnapshots(b *testing.B) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = "T-" + strconv.Itoa(i)
	}
	h := NewHandler(svcStub{ids: ids}, nopLogger{}, 2*time.Second)
	benchServeGET(b, makeLeanRouter(h), "/snapshots?limit=100")
}

// Ошибочный путь (404): цена роутера и NoRoute.
func BenchmarkHTTP_404(b *testing.B) {
	h := NewHandler(svcStub{}, nopLogger{}, 2*time.Second)
	r := makeFullRouter(h)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/nope", http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusNotFound {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// svcStub - заготовленные ответы; неиспользуемые методы паникуют через nil-интерфейс.
type svcStub struct {
	ports.TenderReadService
	snap *domain.PricingSnapshot
	ids  []string
}

func (s svcStub) GetSnapshot(context.Context, string) (*domain.PricingSnapshot, error) {
	return s.snap, nil
}

func (s svcStub) ListSnapshots(context.Context, int, int) ([]string, error) { return s.ids, nil }

func makeSnapshot(n int) domain.PricingSnapshot {
	items := make([]domain.PricingItem, n)
	var total float64
	for i := range items {
		items[i] = domain.PricingItem{TotalPrice: float64(i + 1)}
		total += items[i].TotalPrice
	}
	return domain.PricingSnapshot{
		Meta: domain.SnapshotMeta{
			EngineVersion:   domain.EngineVersion,
			SnapshotVersion: domain.SnapshotVersion,
			ConfigHash:      "cfg",
			IntegrityHash:   "int",
			ItemCount:       n,
			Source:          domain.SourceAuthoring,
		},
		Items:  items,
		Totals: domain.PricingTotals{TotalValue: total},
	}
}

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/tenders/:id/snapshot", h.getSnapshot)
	r.GET("/snapshots", h.listSnapshots)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return NewRouter(h, "")
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
