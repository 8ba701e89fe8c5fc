package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_storage_events_published_total",
			Help: "Storage events handed to the Kafka writer",
		},
		[]string{"type", "result"}, // result: ok|error|dropped
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var (
	StorageOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Storage manager operations by result",
		},
		[]string{"op", "result"}, // result: ok|error
	)
	StorageCleanup = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_deprecated_cleanup_total",
			Help: "Deprecated key cleanup outcomes",
		},
		[]string{"outcome"}, // removed|failed
	)
	SnapshotBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_builds_total",
			Help: "Pricing snapshots built by source",
		},
		[]string{"source"},
	)
	IntegrityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_integrity_checks_total",
			Help: "Snapshot integrity validations by result",
		},
		[]string{"result"}, // ok|missing|hash-mismatch
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// MustRegister - регистрация всех метрик в глобальном реестре; повторные вызовы безопасны.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaEventsPublished,
			CacheOps, CacheSize,
			StorageOps, StorageCleanup, SnapshotBuilds, IntegrityChecks, HTTPRequestDuration,
		)
	})
}
