package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// AdapterFactory - кандидат в цепочке выбора адаптера.
type AdapterFactory struct {
	Name string
	New  func(ctx context.Context) (ports.StorageAdapter, error)
}

// ensureAdapter - внедрённый адаптер либо первый доступный из цепочки.
// В режиме test автоматический выбор отключён.
func (m *Manager) ensureAdapter(ctx context.Context) (ports.StorageAdapter, error) {
	m.mu.RLock()
	a := m.adapter
	m.mu.RUnlock()
	if a != nil {
		return a, nil
	}
	if m.cfg.Mode == ModeTest {
		return nil, unavailableError(errors.New("test mode requires an injected adapter"))
	}

	a, err := SelectAdapter(ctx, m.log, m.factories...)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.adapter = a
	m.mu.Unlock()
	return a, nil
}

// SelectAdapter - обходит фабрики по порядку, возвращает первый адаптер с IsAvailable() == true.
// Недоступные кандидаты закрываются.
func SelectAdapter(ctx context.Context, log ports.Logger, factories ...AdapterFactory) (ports.StorageAdapter, error) {
	var errs []error
	for _, f := range factories {
		a, err := f.New(ctx)
		if err != nil {
			log.Warnf(ctx, "storage: adapter %s skipped: %v", f.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}
		if !a.IsAvailable(ctx) {
			log.Warnf(ctx, "storage: adapter %s not available", f.Name)
			errs = append(errs, fmt.Errorf("%s: not available", f.Name))
			if c, ok := a.(ports.AdapterCloser); ok {
				_ = c.Close(ctx)
			}
			continue
		}
		log.Infof(ctx, "storage: selected adapter %s", a.Name())
		return a, nil
	}
	if len(factories) == 0 {
		errs = append(errs, errors.New("no adapter candidates configured"))
	}
	return nil, unavailableError(errs...)
}
