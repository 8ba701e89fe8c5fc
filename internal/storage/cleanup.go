package storage

import (
	"context"
	"strings"

	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// CleanupReason - почему ключ попал в очистку.
type CleanupReason string

const (
	ReasonDeprecatedKey    CleanupReason = "deprecated-key"
	ReasonDeprecatedPrefix CleanupReason = "deprecated-prefix"
)

// Outcome - результат попытки удаления.
type Outcome string

const (
	OutcomeRemoved Outcome = "removed"
	OutcomeAbsent  Outcome = "absent"
	OutcomeFailed  Outcome = "failed"
)

// KeyOutcome - результат очистки одного ключа. Key пуст, если не удалось перечислить ключи.
type KeyOutcome struct {
	Key     string        `json:"key"`
	Reason  CleanupReason `json:"reason"`
	Outcome Outcome       `json:"outcome"`
	Err     string        `json:"error,omitempty"`
}

// cleanupDeprecatedKeys - удаляет устаревшие ключи и ключи с устаревшими префиксами.
// Каждая попытка независима: сбой фиксируется в отчёте и не прерывает обход.
func (m *Manager) cleanupDeprecatedKeys(ctx context.Context, adapter ports.StorageAdapter) []KeyOutcome {
	var out []KeyOutcome
	for _, key := range m.cfg.DeprecatedKeys {
		out = append(out, m.removeDeprecated(ctx, adapter, key, ReasonDeprecatedKey))
	}

	if len(m.cfg.DeprecatedPrefixes) == 0 {
		return out
	}
	keys, err := adapter.Keys(ctx)
	if err != nil {
		err = opError(OpKeys, "", adapter.Name(), err)
		m.fail(ctx, OpKeys, "", err)
		metrics.StorageCleanup.WithLabelValues(string(OutcomeFailed)).Inc()
		return append(out, KeyOutcome{Reason: ReasonDeprecatedPrefix, Outcome: OutcomeFailed, Err: err.Error()})
	}
	for _, key := range keys {
		if hasAnyPrefix(key, m.cfg.DeprecatedPrefixes) {
			out = append(out, m.removeDeprecated(ctx, adapter, key, ReasonDeprecatedPrefix))
		}
	}
	return out
}

func (m *Manager) removeDeprecated(ctx context.Context, adapter ports.StorageAdapter, key string, reason CleanupReason) KeyOutcome {
	res := KeyOutcome{Key: key, Reason: reason}

	exists, err := adapter.Has(ctx, key)
	if err == nil && !exists {
		m.cache.Delete(key)
		res.Outcome = OutcomeAbsent
		return res
	}
	if err == nil {
		err = adapter.Remove(ctx, key)
	}
	if err != nil {
		err = opError(OpRemove, key, adapter.Name(), err)
		m.fail(ctx, OpRemove, key, err)
		metrics.StorageCleanup.WithLabelValues(string(OutcomeFailed)).Inc()
		res.Outcome, res.Err = OutcomeFailed, err.Error()
		return res
	}

	m.cache.Delete(key)
	metrics.StorageCleanup.WithLabelValues(string(OutcomeRemoved)).Inc()
	m.log.Infof(ctx, "storage: removed deprecated key %q (%s)", key, reason)
	res.Outcome = OutcomeRemoved
	return res
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
