package httpx

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/pkg/ctxmeta"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// HeaderRequestID - заголовок корреляции запросов.
const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware принимает X-Request-ID от клиента или генерирует UUID,
// кладёт его в контекст и возвращает в ответном заголовке.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := ctxmeta.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// TenderContext - переносит path-параметр param (идентификатор тендера) в контекст запроса.
func TenderContext(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.Param(param); id != "" {
			c.Request = c.Request.WithContext(ctxmeta.WithTenderID(c.Request.Context(), id))
		}
		c.Next()
	}
}

// RequestLogger - логирование запросов и гистограмма длительности.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		switch route {
		case "/metrics", "/ping":
			return
		case "":
			route = "unmatched"
		}

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			c.Request.URL.Path,
			status,
			c.ClientIP(),
			elapsed,
			c.Writer.Size(),
		)
	}
}
