package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Повторный вызов не должен паниковать.
	metrics.MustRegister()
	metrics.MustRegister()
}

func TestKafkaCounters_Inc(t *testing.T) {
	metrics.MustRegister()

	const topic = "tender-pricing"
	beforeConsumed := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues(topic))
	beforeFailed := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues(topic))

	metrics.KafkaMessagesConsumed.WithLabelValues(topic).Inc()
	metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()

	if got := testutil.ToFloat64(metrics.KafkaMessagesConsumed.WithLabelValues(topic)); got != beforeConsumed+1 {
		t.Fatalf("KafkaMessagesConsumed: got=%v want=%v", got, beforeConsumed+1)
	}
	if got := testutil.ToFloat64(metrics.KafkaMessagesFailed.WithLabelValues(topic)); got != beforeFailed+1 {
		t.Fatalf("KafkaMessagesFailed: got=%v want=%v", got, beforeFailed+1)
	}
}

func TestStorageOps_CountersByLabel(t *testing.T) {
	metrics.MustRegister()

	okBefore := testutil.ToFloat64(metrics.StorageOps.WithLabelValues("set", "ok"))
	errBefore := testutil.ToFloat64(metrics.StorageOps.WithLabelValues("set", "error"))

	metrics.StorageOps.WithLabelValues("set", "ok").Inc()
	metrics.StorageOps.WithLabelValues("set", "ok").Inc()

	if got := testutil.ToFloat64(metrics.StorageOps.WithLabelValues("set", "ok")); got != okBefore+2 {
		t.Fatalf("StorageOps(set,ok): got=%v want=%v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(metrics.StorageOps.WithLabelValues("set", "error")); got != errBefore {
		t.Fatalf("StorageOps(set,error): got=%v want=%v", got, errBefore)
	}
}

func TestCacheSize_GaugeSet(t *testing.T) {
	metrics.MustRegister()

	cur := testutil.ToFloat64(metrics.CacheSize)

	metrics.CacheSize.Set(cur + 5)
	if got := testutil.ToFloat64(metrics.CacheSize); got != cur+5 {
		t.Fatalf("CacheSize after +5: got=%v want=%v", got, cur+5)
	}
	metrics.CacheSize.Set(cur)
}
