package kafka

import (
	"context"
	"errors"
	"time"

	jmerrors "github.com/jmgilman/go/errors"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/tenderstore/pkg/ctxmeta"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

// handleMessage - обработка одного сообщения; true - оффсет нужно закоммитить.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	if len(msg.Key) > 0 {
		ctx = ctxmeta.WithTenderID(ctx, string(msg.Key))
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.SaveFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case isPoison(err):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid message offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d code=%s: %v (will retry without commit)",
			msg.Offset, jmerrors.GetCode(err), err)
		return false
	}
}

// isPoison - повтор сообщения бессмысленен: запрос невалиден.
func isPoison(err error) bool {
	return errors.Is(err, validate.ErrInvalidRequest) || jmerrors.GetCode(err) == jmerrors.CodeInvalidInput
}

func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff - ждёт d или отмену контекста.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	return min(current*2, c.retryMax)
}

// withJitterEqual - половина задержки фиксирована, вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(c.jitterRand.Int63n(int64(d-half)+1))
}
