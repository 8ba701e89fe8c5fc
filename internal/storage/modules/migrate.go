package modules

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// Store - операции менеджера хранилища, нужные модулям.
type Store interface {
	Get(ctx context.Context, key string, out any) bool
	Lookup(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// MigrationStatus - итог миграции модуля.
type MigrationStatus string

const (
	// MigrationSkipped - актуальный ключ уже содержит данные.
	MigrationSkipped MigrationStatus = "skipped"
	// MigrationMigrated - данные перенесены из устаревшего ключа.
	MigrationMigrated MigrationStatus = "migrated"
	// MigrationNone - переносить нечего.
	MigrationNone MigrationStatus = "none"
	// MigrationFailed - перенос не удался; модуль работает с пустым состоянием.
	MigrationFailed MigrationStatus = "failed"
)

type MigrationOutcome struct {
	Module string          `json:"module"`
	Status MigrationStatus `json:"status"`
	From   string          `json:"from,omitempty"`
	Err    string          `json:"error,omitempty"`
}

// Module - общий контракт модулей.
type Module interface {
	Name() string
	Keys() []string
	Initialize(ctx context.Context) MigrationOutcome
}

// migration - описание переноса данных типа L из устаревших ключей в актуальный ключ типа T.
type migration[T, L any] struct {
	module  string
	modern  string
	legacy  []string
	empty   func(T) bool
	convert func(L) (T, bool)
}

// run - проверяет актуальный ключ, затем устаревшие по порядку; первый непустой
// переносится, после чего устаревший ключ удаляется. Ошибки не пробрасываются.
func (m migration[T, L]) run(ctx context.Context, st Store, log ports.Logger) MigrationOutcome {
	out := MigrationOutcome{Module: m.module}

	var current T
	found, err := st.Lookup(ctx, m.modern, &current)
	if err != nil {
		// актуальный ключ не читается - переносить поверх него нельзя
		log.Warnf(ctx, "%s: modern key %q unreadable, migration skipped: %v", m.module, m.modern, err)
		out.Status, out.Err = MigrationFailed, err.Error()
		return out
	}
	if found && !m.empty(current) {
		out.Status = MigrationSkipped
		return out
	}

	for _, key := range m.legacy {
		var old L
		if !st.Get(ctx, key, &old) {
			continue
		}
		value, ok := m.convert(old)
		if !ok || m.empty(value) {
			continue
		}

		out.From = key
		if err := st.Set(ctx, m.modern, value); err != nil {
			log.Warnf(ctx, "%s: migration from %q failed: %v", m.module, key, err)
			out.Status, out.Err = MigrationFailed, err.Error()
			return out
		}
		if err := st.Remove(ctx, key); err != nil {
			// данные уже перенесены; повторная миграция будет пропущена
			log.Warnf(ctx, "%s: legacy key %q not removed: %v", m.module, key, err)
			out.Err = fmt.Sprintf("remove legacy key: %v", err)
		}
		log.Infof(ctx, "%s: migrated data from legacy key %q", m.module, key)
		out.Status = MigrationMigrated
		return out
	}

	out.Status = MigrationNone
	return out
}

func identity[T any](v T) (T, bool) { return v, true }

// InitializeAll - миграции всех модулей по порядку.
func InitializeAll(ctx context.Context, mods ...Module) []MigrationOutcome {
	out := make([]MigrationOutcome, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Initialize(ctx))
	}
	return out
}

// clock - общий источник времени модулей.
type clock func() time.Time

func (c clock) stamp() string { return domain.Timestamp(c()) }
