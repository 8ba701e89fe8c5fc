package ports

import "context"

// MessageConsumer - фоновый потребитель сообщений авторинга цен.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
