package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig - настройки потребителя запросов авторинга цен.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last, по умолчанию last

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// Значения по умолчанию для незаданных полей.
const (
	DefaultTopic          = "tender-pricing"
	DefaultGroupID        = "tenderstore"
	DefaultProcessTimeout = 5 * time.Second
	DefaultRetryInitial   = time.Second
	DefaultRetryMax       = 30 * time.Second
)

// WithDefaults - копия конфигурации с заполненными пустыми полями.
// RetryMax не бывает меньше RetryInitial.
func (c *ConsumerConfig) WithDefaults() ConsumerConfig {
	out := *c
	if strings.TrimSpace(out.Topic) == "" {
		out.Topic = DefaultTopic
	}
	if strings.TrimSpace(out.GroupID) == "" {
		out.GroupID = DefaultGroupID
	}
	if out.ProcessTimeout <= 0 {
		out.ProcessTimeout = DefaultProcessTimeout
	}
	if out.RetryInitial <= 0 {
		out.RetryInitial = DefaultRetryInitial
	}
	if out.RetryMax <= 0 {
		out.RetryMax = DefaultRetryMax
	}
	out.RetryMax = max(out.RetryMax, out.RetryInitial)
	return out
}

// ReaderConfig - конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}
