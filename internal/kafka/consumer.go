package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// retryPauseMax - верхняя граница паузы после неудачной обработки сообщения.
const retryPauseMax = 500 * time.Millisecond

// reader - минимальный контракт над kafka.Reader (подменяется моком в тестах).
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageSaver - прикладная логика: разбор, валидация и сохранение запроса цен.
type messageSaver interface {
	SaveFromMessage(ctx context.Context, raw []byte) error
}

// Consumer - потребитель запросов авторинга цен.
type Consumer struct {
	reader         reader
	service        messageSaver
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer - потребитель с ручным коммитом оффсетов; незаданные интервалы
// берутся из ConsumerConfig.WithDefaults.
func NewConsumer(cfg *ConsumerConfig, service messageSaver, log ports.Logger) *Consumer {
	c := cfg.WithDefaults()
	return &Consumer{
		reader:         kafka.NewReader(c.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: c.ProcessTimeout,
		retryInitial:   c.RetryInitial,
		retryMax:       c.RetryMax,
		// источник джиттера для backoff
		jitterRand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run - основной цикл:
// 1) читаем сообщение без авто-коммита;
// 2) успешная обработка -> CommitMessages;
// 3) невалидный запрос -> лог и CommitMessages (пропускаем навсегда);
// 4) временная ошибка -> без коммита (at-least-once).
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	// Задержка повтора FetchMessage: растёт вдвое до retryMax, сбрасывается после успеха
	retry := c.retryInitial

	for {
		// Оффсет не коммитится, пока запрос цен не сохранён
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			// Остановка приложения - штатный выход
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Брокер или сеть недоступны: ждём с джиттером и пробуем снова
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.nextBackoff(retry)
			continue
		}

		// Сообщение получено -> backoff сбрасываем, считаем в метриках
		retry = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		// Сохранение запроса цен (таймаут processTimeout внутри handleMessage)
		if c.handleMessage(ctx, rc.Topic, &msg) {
			// Сохранено или невалидно -> коммит, к сообщению не возвращаемся
			c.commitSafely(ctx, &msg)
		} else {
			// Временная ошибка хранилища: без коммита, короткая пауза перед
			// повторным чтением того же оффсета
			_ = c.sleepWithBackoff(ctx, c.withJitterEqual(min(c.retryInitial, retryPauseMax)))
		}
	}
}

// Close - закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
