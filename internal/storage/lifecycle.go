package storage

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// GetSync - быстрый путь без ожидания: только готовый менеджер, только кэш
// (или синхронный вариант адаптера, если кэш выключен).
func (m *Manager) GetSync(key string, out any) bool {
	ctx := context.Background()
	m.operations.Add(1)

	adapter, ok := m.readyNoWait()
	if !ok {
		m.log.Warnf(ctx, "storage: getSync %q before initialization", key)
		return false
	}
	if m.cfg.CacheEnabled {
		raw, hit := m.cache.GetRaw(key)
		if hit && decodeValidated(raw, out) == nil {
			m.cacheHits.Add(1)
			return true
		}
		return false
	}
	if s, ok := adapter.(ports.SyncStorageAdapter); ok {
		raw, found, err := s.GetSync(key)
		if err != nil {
			m.fail(ctx, OpGet, key, opError(OpGet, key, adapter.Name(), err))
			return false
		}
		return found && decodeValidated(raw, out) == nil
	}
	return false
}

// SetSync - запись в кэш и запуск записи в адаптер без ожидания результата.
// Ошибка фоновой записи только логируется и публикуется событием error.
func (m *Manager) SetSync(key string, value any) bool {
	ctx := context.Background()
	m.operations.Add(1)

	adapter, ok := m.readyNoWait()
	if !ok {
		m.log.Warnf(ctx, "storage: setSync %q before initialization", key)
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		m.fail(ctx, OpSet, key, encodeError(key, err))
		return false
	}
	m.pendingMu.Lock()
	if m.closing {
		m.pendingMu.Unlock()
		m.log.Warnf(ctx, "storage: setSync %q while closing", key)
		return false
	}
	m.pending.Add(1)
	m.pendingMu.Unlock()

	if m.cfg.CacheEnabled {
		m.cache.SetRaw(key, raw)
	}
	go func() {
		err := adapter.Set(ctx, key, raw)
		// события публикуются после Done: слушатель может снова вызвать SetSync
		m.pending.Done()
		if err != nil {
			m.fail(ctx, OpSet, key, opError(OpSet, key, adapter.Name(), err))
			return
		}
		m.succeed(ctx, OpSet, key)
	}()
	return true
}

// Flush - дожидается фоновых записей и переносит содержимое кэша в адаптер.
func (m *Manager) Flush(ctx context.Context) error {
	adapter, err := m.ready(ctx)
	if err != nil {
		return err
	}
	return m.flush(ctx, adapter)
}

func (m *Manager) flush(ctx context.Context, adapter ports.StorageAdapter) error {
	ctx, span := m.startSpan(ctx, OpFlush, "")
	defer span.End()

	m.pendingMu.Lock()
	m.pending.Wait()
	m.pendingMu.Unlock()
	if !m.cfg.CacheEnabled {
		return nil
	}

	entries := m.cache.Entries()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if err := adapter.Set(ctx, key, entries[key]); err != nil {
			err = opError(OpFlush, key, adapter.Name(), err)
			m.fail(ctx, OpFlush, key, err)
			return err
		}
	}
	return nil
}

// Close - flush, закрытие адаптера, очистка кэша и подписчиков. Закрытый менеджер не переоткрывается.
// Для неинициализированного менеджера - no-op.
func (m *Manager) Close(ctx context.Context) error {
	adapter, ready := m.readyNoWait()
	if !ready {
		return nil
	}

	m.pendingMu.Lock()
	m.closing = true
	m.pendingMu.Unlock()

	if err := m.flush(ctx, adapter); err != nil {
		return err
	}

	var closeErr error
	if c, ok := adapter.(ports.AdapterCloser); ok {
		if err := c.Close(ctx); err != nil {
			closeErr = opError(OpClose, "", adapter.Name(), err)
			m.fail(ctx, OpClose, "", closeErr)
		}
	}

	m.cache.Clear()
	m.bus.clear()
	m.setState(StateClosed)
	m.log.Infof(ctx, "storage: closed adapter=%s", adapter.Name())
	return closeErr
}

// Stats - статистика; число ключей обновляется у адаптера, если менеджер готов.
func (m *Manager) Stats(ctx context.Context) domain.StorageStats {
	adapter, ready := m.readyNoWait()
	name := ""
	if adapter != nil {
		name = adapter.Name()
	}
	if ready {
		m.refreshStats(ctx, adapter)
	}

	ops := m.operations.Load()
	hitRate := 0.0
	if ops > 0 {
		hitRate = float64(m.cacheHits.Load()) / float64(ops)
	}
	cs := m.cache.Stats()
	return domain.StorageStats{
		Adapter:        name,
		State:          m.State().String(),
		TotalKeys:      int(m.totalKeys.Load()),
		TotalSize:      cs.Bytes,
		CacheSize:      cs.Size,
		CacheHitRate:   hitRate,
		OperationCount: ops,
		ErrorCount:     m.errCount.Load(),
	}
}

func (m *Manager) refreshStats(ctx context.Context, adapter ports.StorageAdapter) {
	keys, err := adapter.Keys(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			m.log.Warnf(ctx, "storage: stats refresh failed: %v", err)
		}
		return
	}
	m.totalKeys.Store(int64(len(keys)))
}
