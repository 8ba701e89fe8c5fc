package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix - префикс переменных окружения сервиса.
const DefaultPrefix = "TENDER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"3s" envconfig:"HANDLER_TIMEOUT"`
	ShutdownTimeout   time.Duration `default:"10s" envconfig:"SHUTDOWN_TIMEOUT"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"tenderstore" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	Insecure    bool    `default:"true" envconfig:"OTEL_INSECURE"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Storage - настройки менеджера хранилища и кэша.
//
// Mode=test отключает автоматический выбор адаптера: адаптер внедряется явно.
type Storage struct {
	Mode         string        `default:"production" envconfig:"MODE"`
	Adapters     []string      `default:"redis,postgres,sqlite" envconfig:"ADAPTERS"`
	CacheEnabled bool          `default:"true" envconfig:"CACHE_ENABLED"`
	CacheTTL     time.Duration `default:"5m" envconfig:"CACHE_TTL"`
	CacheMaxSize int           `default:"1000" envconfig:"CACHE_MAX_SIZE"`
	OpTimeout    time.Duration `default:"30s" envconfig:"OP_TIMEOUT"`
}

type Postgres struct {
	DSN      string `envconfig:"DSN"`
	MaxConns int32  `default:"10" envconfig:"MAX_CONNS"`
	MinConns int32  `default:"1" envconfig:"MIN_CONNS"`
}

type SQLite struct {
	Path string `default:"data/tenderstore.db" envconfig:"DB_PATH"`
}

type Redis struct {
	Addr      string `envconfig:"ADDR"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `default:"0" envconfig:"DB_INDEX"`
	KeyPrefix string `default:"tenderstore:" envconfig:"KEY_PREFIX"`
}

type Kafka struct {
	Enabled        bool          `default:"false" envconfig:"ENABLED"`
	Brokers        []string      `default:"kafka:9092" envconfig:"BROKERS"`
	Topic          string        `default:"tender-pricing" envconfig:"TOPIC"`
	GroupID        string        `default:"tenderstore" envconfig:"GROUP_ID"`
	StartOffset    string        `default:"last" envconfig:"START_OFFSET"`
	EventsTopic    string        `envconfig:"EVENTS_TOPIC"`
	ProcessTimeout time.Duration `default:"5s" envconfig:"PROCESS_TIMEOUT"`
	RetryInitial   time.Duration `default:"1s" envconfig:"RETRY_INITIAL"`
	RetryMax       time.Duration `default:"30s" envconfig:"RETRY_MAX"`
}

// Pricing - бизнес-конфигурация расчёта: НДС (доля) и проценты по умолчанию.
type Pricing struct {
	VATRate               float64 `default:"0.15" envconfig:"VAT_RATE"`
	DefaultAdministrative float64 `default:"5" envconfig:"DEFAULT_ADMINISTRATIVE"`
	DefaultOperational    float64 `default:"5" envconfig:"DEFAULT_OPERATIONAL"`
	DefaultProfit         float64 `default:"10" envconfig:"DEFAULT_PROFIT"`
}

type Backups struct {
	MaxEntries int `default:"10" envconfig:"MAX_ENTRIES"`
	MaxAgeDays int `default:"30" envconfig:"MAX_AGE_DAYS"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP     HTTP
	Tracing  Tracing
	Storage  Storage
	Postgres Postgres
	SQLite   SQLite
	Redis    Redis
	Kafka    Kafka
	Pricing  Pricing
	Backups  Backups
	Logger   Logger
}

// Load - загрузка конфигурации с префиксом по умолчанию.
func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix - загрузка конфигурации с произвольным префиксом (удобно для тестов).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsTestMode - включён ли режим ручного внедрения адаптера.
func (s Storage) IsTestMode() bool { return s.Mode == "test" }
