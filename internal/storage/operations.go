package storage

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/Gunvolt24/tenderstore/internal/cache/memory"
)

// validatable - значения, проверяемые на границе адаптера после декодирования.
type validatable interface {
	Validate() error
}

// Get - декодирует значение ключа в out (указатель). Мягкая операция:
// false при отсутствии ключа и при любой ошибке (ошибка уходит в лог и событие error).
// Промах не кэшируется.
func (m *Manager) Get(ctx context.Context, key string, out any) bool {
	found, err := m.Lookup(ctx, key, out)
	return found && err == nil
}

// Lookup - чтение с явной ошибкой: (false, nil) - ключа нет,
// (false, err) - ключ есть, но прочитать или проверить значение не удалось.
func (m *Manager) Lookup(ctx context.Context, key string, out any) (bool, error) {
	ctx, span := m.startSpan(ctx, OpGet, key)
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpGet, key, err)
		return false, err
	}

	if m.cfg.CacheEnabled {
		if raw, ok := m.cache.GetRaw(key); ok {
			if err := decodeValidated(raw, out); err == nil {
				m.cacheHits.Add(1)
				m.succeed(ctx, OpGet, key)
				return true, nil
			}
			m.cache.Delete(key)
		}
	}

	raw, found, err := adapter.Get(ctx, key)
	if err != nil {
		err = opError(OpGet, key, adapter.Name(), err)
		m.fail(ctx, OpGet, key, err)
		return false, err
	}
	if !found {
		m.succeed(ctx, OpGet, key)
		return false, nil
	}
	if err := decodeValidated(raw, out); err != nil {
		err = decodeError(key, err)
		m.fail(ctx, OpGet, key, err)
		return false, err
	}
	if m.cfg.CacheEnabled {
		m.cache.SetRaw(key, raw)
	}
	m.succeed(ctx, OpGet, key)
	return true, nil
}

// Load - типизированное чтение со значением по умолчанию.
func Load[T any](ctx context.Context, m *Manager, key string, def T) T {
	var v T
	if m.Get(ctx, key, &v) {
		return v
	}
	return def
}

// GetRaw - сырой JSON ключа (экспорт, диагностика). Мягкая операция.
func (m *Manager) GetRaw(ctx context.Context, key string) ([]byte, bool) {
	var raw json.RawMessage
	if !m.Get(ctx, key, &raw) {
		return nil, false
	}
	return raw, true
}

// Set - запись через кэш в адаптер. Ошибка возвращается вызывающему.
func (m *Manager) Set(ctx context.Context, key string, value any) error {
	ctx, span := m.startSpan(ctx, OpSet, key)
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpSet, key, err)
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		err = encodeError(key, err)
		m.fail(ctx, OpSet, key, err)
		return err
	}
	if m.cfg.CacheEnabled {
		m.cache.SetRaw(key, raw)
	}
	if err := adapter.Set(ctx, key, raw); err != nil {
		// кэш не должен отдавать то, чего нет в адаптере
		m.cache.Delete(key)
		err = opError(OpSet, key, adapter.Name(), err)
		m.fail(ctx, OpSet, key, err)
		return err
	}
	m.succeed(ctx, OpSet, key)
	return nil
}

// Remove - удаление из кэша, затем из адаптера.
func (m *Manager) Remove(ctx context.Context, key string) error {
	ctx, span := m.startSpan(ctx, OpRemove, key)
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpRemove, key, err)
		return err
	}

	m.cache.Delete(key)
	if err := adapter.Remove(ctx, key); err != nil {
		err = opError(OpRemove, key, adapter.Name(), err)
		m.fail(ctx, OpRemove, key, err)
		return err
	}
	m.succeed(ctx, OpRemove, key)
	return nil
}

// Clear - полная очистка кэша и адаптера.
func (m *Manager) Clear(ctx context.Context) error {
	ctx, span := m.startSpan(ctx, OpClear, "")
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpClear, "", err)
		return err
	}

	m.cache.Clear()
	if err := adapter.Clear(ctx); err != nil {
		err = opError(OpClear, "", adapter.Name(), err)
		m.fail(ctx, OpClear, "", err)
		return err
	}
	m.totalKeys.Store(0)
	m.succeed(ctx, OpClear, "")
	return nil
}

// Has - наличие ключа: сначала кэш, затем адаптер. Мягкая операция.
func (m *Manager) Has(ctx context.Context, key string) bool {
	ctx, span := m.startSpan(ctx, OpHas, key)
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpHas, key, err)
		return false
	}
	if m.cfg.CacheEnabled && m.cache.Has(key) {
		return true
	}
	ok, err := adapter.Has(ctx, key)
	if err != nil {
		m.fail(ctx, OpHas, key, opError(OpHas, key, adapter.Name(), err))
		return false
	}
	return ok
}

// Keys - все ключи адаптера.
func (m *Manager) Keys(ctx context.Context) ([]string, error) {
	ctx, span := m.startSpan(ctx, OpKeys, "")
	defer span.End()

	m.operations.Add(1)
	adapter, err := m.ready(ctx)
	if err != nil {
		m.fail(ctx, OpKeys, "", err)
		return nil, err
	}
	keys, err := adapter.Keys(ctx)
	if err != nil {
		err = opError(OpKeys, "", adapter.Name(), err)
		m.fail(ctx, OpKeys, "", err)
		return nil, err
	}
	return keys, nil
}

// decodeValidated - декодирование в свежее значение и проверка Validate() до присваивания в out.
func decodeValidated(raw []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return memory.ErrNotPointer
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	if v, ok := fresh.Interface().(validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
