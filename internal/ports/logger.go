package ports

import "context"

// Logger - минимальный контракт логгера для внешних слоёв.
// Реализация обогащает записи request_id/tender_id/trace_id из контекста.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)  // Infof - информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf - предупреждения и проглоченные ошибки.
	Errorf(ctx context.Context, format string, args ...any) // Errorf - ошибки.
}
