package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/tenderstore/config"
	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	memrepo "github.com/Gunvolt24/tenderstore/internal/repo/memory"
	"github.com/Gunvolt24/tenderstore/internal/repo/postgres"
	"github.com/Gunvolt24/tenderstore/internal/repo/redis"
	sqliterepo "github.com/Gunvolt24/tenderstore/internal/repo/sqlite"
	"github.com/Gunvolt24/tenderstore/internal/storage"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
)

// Storage - менеджер и модули поверх него. Один экземпляр на процесс.
type Storage struct {
	Manager   *storage.Manager
	Projects  *modules.Projects
	Pricing   *modules.Pricing
	Snapshots *modules.Snapshots
	Backups   *modules.Backups

	Report     storage.InitReport
	Migrations []modules.MigrationOutcome
}

// Retention - правило хранения бэкапов из конфигурации.
func Retention(cfg config.Backups) domain.RetentionRule {
	return domain.RetentionRule{MaxEntries: cfg.MaxEntries, MaxAgeDays: cfg.MaxAgeDays}
}

// Factories - цепочка кандидатов в порядке cfg.Storage.Adapters.
// Кандидаты без настроек (пустой адрес Redis, пустой DSN) пропускаются.
func Factories(cfg *config.Config) ([]storage.AdapterFactory, error) {
	var out []storage.AdapterFactory
	for _, name := range cfg.Storage.Adapters {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "redis":
			if cfg.Redis.Addr == "" {
				continue
			}
			out = append(out, storage.AdapterFactory{Name: "redis", New: func(context.Context) (ports.StorageAdapter, error) {
				return redis.New(redis.Options{
					Addr:      cfg.Redis.Addr,
					Password:  cfg.Redis.Password,
					DB:        cfg.Redis.DB,
					KeyPrefix: cfg.Redis.KeyPrefix,
				})
			}})
		case "postgres":
			if cfg.Postgres.DSN == "" {
				continue
			}
			out = append(out, storage.AdapterFactory{Name: "postgres", New: func(ctx context.Context) (ports.StorageAdapter, error) {
				pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, cfg.Postgres.MinConns)
				if err != nil {
					return nil, err
				}
				return postgres.NewKVAdapter(pool), nil
			}})
		case "sqlite":
			if cfg.SQLite.Path == "" {
				continue
			}
			out = append(out, storage.AdapterFactory{Name: "sqlite", New: func(context.Context) (ports.StorageAdapter, error) {
				if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return nil, err
					}
				}
				return sqliterepo.Open(cfg.SQLite.Path, cfg.Storage.OpTimeout)
			}})
		case "memory":
			out = append(out, storage.AdapterFactory{Name: "memory", New: func(context.Context) (ports.StorageAdapter, error) {
				return memrepo.NewAdapter(), nil
			}})
		default:
			return nil, fmt.Errorf("unknown storage adapter %q", name)
		}
	}
	return out, nil
}

// OpenStorage - менеджер с выбором адаптера, инициализация и миграция модулей.
// opts дополняют цепочку фабрик (например, WithAdapter в режиме test).
func OpenStorage(ctx context.Context, cfg *config.Config, log ports.Logger, opts ...storage.Option) (*Storage, error) {
	factories, err := Factories(cfg)
	if err != nil {
		return nil, err
	}

	mgr := storage.NewManager(storage.Config{
		Mode:         cfg.Storage.Mode,
		CacheEnabled: cfg.Storage.CacheEnabled,
		CacheTTL:     cfg.Storage.CacheTTL,
		CacheMaxSize: cfg.Storage.CacheMaxSize,
	}, log, append([]storage.Option{storage.WithFactories(factories...)}, opts...)...)

	report, err := mgr.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof(ctx, "storage ready adapter=%s hydrated=%d cleanup=%d", report.Adapter, report.Hydrated, len(report.Cleanup))
	for _, f := range report.Failed() {
		log.Warnf(ctx, "storage: deprecated key cleanup failed key=%s err=%s", f.Key, f.Err)
	}

	s := &Storage{
		Manager:   mgr,
		Projects:  modules.NewProjects(mgr, log),
		Pricing:   modules.NewPricing(mgr, log),
		Snapshots: modules.NewSnapshots(mgr, log, nil),
		Backups:   modules.NewBackups(mgr, log, Retention(cfg.Backups)),
		Report:    report,
	}
	s.Migrations = modules.InitializeAll(ctx, s.Projects, s.Pricing, s.Snapshots, s.Backups)
	return s, nil
}

// Close - сброс и закрытие менеджера.
func (s *Storage) Close(ctx context.Context) error {
	return s.Manager.Close(ctx)
}
