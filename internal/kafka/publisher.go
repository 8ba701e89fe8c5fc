package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

const (
	defaultEventBuffer = 1024
	publishBatch       = 100
	writeTimeout       = 5 * time.Second
)

// writer - минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventSource - шина событий менеджера хранилища.
type eventSource interface {
	Subscribe(t storage.EventType, l storage.Listener) func()
}

// PublisherConfig - настройки публикации событий хранилища.
type PublisherConfig struct {
	Brokers []string
	Topic   string
	Buffer  int
}

// StorageEvent - сообщение о событии хранилища в топике.
type StorageEvent struct {
	Type      storage.EventType `json:"type"`
	Key       string            `json:"key,omitempty"`
	Timestamp string            `json:"timestamp"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
}

// EventPublisher - пересылает события шины хранилища в Kafka.
//
// Слушатель шины не блокируется: события кладутся в буфер, а при его
// переполнении отбрасываются. Запись в Kafka идёт из Run.
type EventPublisher struct {
	w      writer
	topic  string
	log    ports.Logger
	events chan StorageEvent

	unsubscribe func()
	closeOnce   sync.Once
}

func NewEventPublisher(cfg PublisherConfig, src eventSource, log ports.Logger) *EventPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newEventPublisher(w, cfg.Topic, cfg.Buffer, src, log)
}

func newEventPublisher(w writer, topic string, buffer int, src eventSource, log ports.Logger) *EventPublisher {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	p := &EventPublisher{
		w:      w,
		topic:  topic,
		log:    log,
		events: make(chan StorageEvent, buffer),
	}
	p.unsubscribe = src.Subscribe(storage.EventAll, p.onEvent)
	return p
}

// onEvent - слушатель шины; чтения и события жизненного цикла без ключа не публикуются.
func (p *EventPublisher) onEvent(ev storage.Event) {
	if ev.Type == storage.EventGet || ev.Type == storage.EventInitialized {
		return
	}
	msg := StorageEvent{
		Type:      ev.Type,
		Key:       ev.Key,
		Timestamp: domain.Timestamp(ev.Timestamp),
		Success:   ev.Success,
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}

	select {
	case p.events <- msg:
	default:
		metrics.KafkaEventsPublished.WithLabelValues(string(ev.Type), "dropped").Inc()
	}
}

// Run - публикация накопленных событий пачками до отмены контекста.
func (p *EventPublisher) Run(ctx context.Context) error {
	p.log.Infof(ctx, "storage event publisher started topic=%s", p.topic)
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return ctx.Err()
		case ev := <-p.events:
			p.publish(ctx, p.collect(ev))
		}
	}
}

// collect - первое событие и всё, что уже лежит в буфере (не больше publishBatch).
func (p *EventPublisher) collect(first StorageEvent) []StorageEvent {
	batch := []StorageEvent{first}
	for len(batch) < publishBatch {
		select {
		case ev := <-p.events:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
	return batch
}

// drain - остаток буфера при остановке, с собственным таймаутом.
func (p *EventPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	for {
		select {
		case ev := <-p.events:
			p.publish(ctx, p.collect(ev))
		default:
			return
		}
	}
}

func (p *EventPublisher) publish(ctx context.Context, batch []StorageEvent) {
	msgs := make([]kafka.Message, 0, len(batch))
	for _, ev := range batch {
		raw, err := json.Marshal(ev)
		if err != nil {
			p.log.Warnf(ctx, "storage event encode failed type=%s key=%s: %v", ev.Type, ev.Key, err)
			continue
		}
		msgs = append(msgs, kafka.Message{Key: []byte(ev.Key), Value: raw})
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	err := p.w.WriteMessages(wctx, msgs...)
	cancel()

	result := "ok"
	if err != nil {
		result = "error"
		p.log.Warnf(ctx, "storage events publish failed count=%d: %v", len(msgs), err)
	}
	for _, ev := range batch {
		metrics.KafkaEventsPublished.WithLabelValues(string(ev.Type), result).Inc()
	}
}

// Close - отписка от шины и закрытие writer.
func (p *EventPublisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		p.unsubscribe()
		retErr = p.w.Close()
	})
	return retErr
}
