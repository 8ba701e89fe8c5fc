// Пакет ctxmeta - метаданные запроса в context.Context (request_id, tender_id, trace/span).
// HTTP-слой, консюмер и логгер зависят от него, но не друг от друга.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	KeyRequestID ctxKey = "request_id"
	KeyTenderID  ctxKey = "tender_id"
)

// WithRequestID кладёт request_id в контекст (если пусто - ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return value(ctx, KeyRequestID)
}

// WithTenderID кладёт идентификатор тендера, с которым работает запрос или сообщение.
func WithTenderID(ctx context.Context, tenderID string) context.Context {
	return withValue(ctx, KeyTenderID, tenderID)
}

func TenderIDFromContext(ctx context.Context) (string, bool) {
	return value(ctx, KeyTenderID)
}

// TraceIDFromContext - trace_id активного спана.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

// SpanIDFromContext - span_id активного спана.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func value(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
