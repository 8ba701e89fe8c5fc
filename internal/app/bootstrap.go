package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/tenderstore/config"
	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/kafka"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/pricing"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	rest "github.com/Gunvolt24/tenderstore/internal/transport/http"
	"github.com/Gunvolt24/tenderstore/internal/usecase"
	"github.com/Gunvolt24/tenderstore/pkg/logger"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
	"github.com/Gunvolt24/tenderstore/pkg/telemetry"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

// StorageCloser - закрытие хранилища после остановки всех писателей.
type StorageCloser interface {
	Close(ctx context.Context) error
}

// App - собранное приложение и его внешние интерфейсы (HTTP, consumer, публикация событий).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер сообщений; nil - Kafka выключена
	EventPublisher  ports.MessageConsumer // публикация событий хранилища; nil - выключена
	Storage         StorageCloser         // закрывается последним
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup - функция освобождения ресурсов.
type Cleanup func()

// applyGinMode - устанавливает режим Gin по строке;
// неизвестное значение - debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// NewBuilder - сборщик снимков по бизнес-конфигурации.
func NewBuilder(cfg config.Pricing) *snapshot.Builder {
	return snapshot.NewBuilder(
		pricing.NewEngine(pricing.Config{VATRate: cfg.VATRate}),
		snapshot.Config{
			VATRate: cfg.VATRate,
			DefaultPercentages: domain.Percentages{
				Administrative: cfg.DefaultAdministrative,
				Operational:    cfg.DefaultOperational,
				Profit:         cfg.DefaultProfit,
			},
		},
	)
}

// NewService - сценарии поверх открытого хранилища.
func NewService(st *Storage, cfg *config.Config, log ports.Logger) *usecase.TenderService {
	return usecase.NewTenderService(usecase.Deps{
		Pricing:   st.Pricing,
		Snapshots: st.Snapshots,
		Backups:   st.Backups,
		Projects:  st.Projects,
		Stats:     st.Manager,
		Builder:   NewBuilder(cfg.Pricing),
		Validator: validate.NewPricingValidator(),
		Log:       log,
		Retention: Retention(cfg.Backups),
	})
}

// Bootstrap - собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию - no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Хранилище: выбор адаптера, очистка устаревших ключей, миграции модулей.
	st, err := OpenStorage(ctx, cfg, logg)
	if err != nil {
		_ = shutdownTrace(context.Background())
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}
	for _, m := range st.Migrations {
		logg.Infof(ctx, "module %s migration=%s from=%s", m.Module, m.Status, m.From)
	}

	service := NewService(st, cfg, logg)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(service, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Storage:         st,
		gracefulTimeout: cfg.HTTP.ShutdownTimeout,
	}

	if cfg.Kafka.Enabled {
		// Конфигурация и создание консьюмера Kafka.
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		app.KafkaConsumer = kafka.NewConsumer(&kafkaCfg, service, logg)

		if cfg.Kafka.EventsTopic != "" {
			app.EventPublisher = kafka.NewEventPublisher(kafka.PublisherConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.EventsTopic,
			}, st.Manager, logg)
		}
	}

	// Очистка ресурсов, не закрытых в Run.
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run - запускает HTTP-сервер и фоновые компоненты; ждёт отмены контекста или ошибки и останавливает их.
// Порядок остановки: консьюмер, HTTP, хранилище, публикация событий.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	// Фоновые компоненты живут до отмены runCtx.
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	pubCtx, cancelPub := context.WithCancel(context.Background())
	defer cancelPub()
	pubDone := make(chan struct{})

	if a.EventPublisher != nil {
		go func() {
			defer close(pubDone)
			_ = a.EventPublisher.Run(pubCtx)
		}()
	} else {
		close(pubDone)
	}

	// Запуск консьюмера.
	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(runCtx); err != nil {
				errCh <- err
			}
		}()
	}

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	// Остановка Kafka-консьюмера: новых записей больше не будет.
	cancelRun()
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	// Корректная остановка HTTP-сервера.
	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Публикатор дочитывает буфер после закрытия хранилища.
	if a.Storage != nil {
		if err := a.Storage.Close(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "storage close error: %v", err)
		}
	}

	cancelPub()
	<-pubDone
	if a.EventPublisher != nil {
		if err := a.EventPublisher.Close(); err != nil {
			a.Logger.Warnf(ctx, "event publisher close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
