package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	jmerrors "github.com/jmgilman/go/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/pkg/httpx"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	service    ports.TenderReadService
	log        ports.Logger
	reqTimeout time.Duration
}

// NewHandler - reqTimeout <= 0 отключает таймаут запроса.
func NewHandler(service ports.TenderReadService, log ports.Logger, reqTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, reqTimeout: reqTimeout}
}

// NewRouter - пустой otelServiceName отключает трассировку запросов.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/storage/stats", h.storageStats)
	r.GET("/snapshots", h.listSnapshots)

	t := r.Group("/tenders/:id", httpx.TenderContext("id"))
	t.GET("/snapshot", h.getSnapshot)
	t.DELETE("/snapshot", h.deleteSnapshot)
	t.GET("/snapshot/meta", h.snapshotMeta)
	t.GET("/snapshot/integrity", h.snapshotIntegrity)
	t.POST("/snapshot/rebuild", h.rebuildSnapshot)
	t.GET("/backups", h.listBackups)

	r.GET("/projects", h.searchProjects)
	r.GET("/projects/:id", h.getProject)

	return r
}

func (h *Handler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.reqTimeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.reqTimeout)
}

func (h *Handler) storageStats(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()
	c.JSON(http.StatusOK, h.service.StorageStats(ctx))
}

func (h *Handler) listSnapshots(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)
	ids, err := h.service.ListSnapshots(ctx, limit, offset)
	if err != nil {
		h.fail(c, "ListSnapshots", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

func (h *Handler) getSnapshot(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	snap, err := h.service.GetSnapshot(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "GetSnapshot", err)
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) deleteSnapshot(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.service.DeleteSnapshot(ctx, c.Param("id")); err != nil {
		h.fail(c, "DeleteSnapshot", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) snapshotMeta(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	meta, err := h.service.SnapshotMeta(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "SnapshotMeta", err)
		return
	}
	if meta == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// snapshotIntegrity: ok - 200, missing - 404, hash-mismatch - 409. Тело всегда IntegrityResult.
func (h *Handler) snapshotIntegrity(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.service.ValidateSnapshot(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "ValidateSnapshot", err)
		return
	}
	status := http.StatusOK
	switch {
	case res.OK:
	case res.Reason == domain.ReasonMissing:
		status = http.StatusNotFound
	default:
		status = http.StatusConflict
	}
	c.JSON(status, res)
}

func (h *Handler) rebuildSnapshot(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	snap, err := h.service.RebuildSnapshot(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "RebuildSnapshot", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) listBackups(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.service.TenderBackups(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "TenderBackups", err)
		return
	}
	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)
	c.JSON(http.StatusOK, httpx.Page(list, limit, offset))
}

func (h *Handler) searchProjects(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	limit, offset := httpx.ParseLimitOffset(c, defaultLimit, maxLimit)
	sortBy, desc := httpx.ParseSort(c, string(modules.SortByName),
		string(modules.SortByName),
		string(modules.SortByValue),
		string(modules.SortByDeadline),
		string(modules.SortByProgress),
		string(modules.SortByCreatedAt),
	)
	list, err := h.service.SearchProjects(ctx, domain.ProjectQuery{
		Text:   c.Query("q"),
		SortBy: sortBy,
		Desc:   desc,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.fail(c, "SearchProjects", err)
		return
	}
	if list == nil {
		list = []domain.Project{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getProject(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	id := c.Param("id")
	p, err := h.service.GetProject(ctx, id)
	if err != nil {
		h.fail(c, "GetProject", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// fail - ответ по коду ошибки. Внутренние ошибки логируются, клиенту уходит общий текст.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed path=%s err=%v", op, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch jmerrors.GetCode(err) {
	case jmerrors.CodeNotFound:
		return http.StatusNotFound
	case jmerrors.CodeInvalidInput:
		return http.StatusBadRequest
	}
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
