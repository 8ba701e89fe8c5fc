package ports

import "context"

// StorageAdapter - подключаемый бэкенд «ключ -> сырой JSON».
//
// Адаптер не кэширует и не глотает ошибки: любой сбой бэкенда возвращается вызывающему.
// Get возвращает (nil, false, nil), если ключа нет.
type StorageAdapter interface {
	Name() string
	IsAvailable(ctx context.Context) bool

	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
}

// AdapterInitializer - необязательный хук инициализации (миграции схемы, прогрев соединений).
type AdapterInitializer interface {
	Initialize(ctx context.Context) error
}

// AdapterCloser - необязательный хук освобождения ресурсов.
type AdapterCloser interface {
	Close(ctx context.Context) error
}

// SyncStorageAdapter - необязательные синхронные варианты без контекста.
type SyncStorageAdapter interface {
	SetSync(key string, value []byte) error
	GetSync(key string) ([]byte, bool, error)
}
