package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	jmerrors "github.com/jmgilman/go/errors"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	"github.com/Gunvolt24/tenderstore/internal/storage/modules"
	"github.com/Gunvolt24/tenderstore/pkg/validate"
)

var _ ports.TenderReadService = (*TenderService)(nil)

// PricingRepository - хранилище сырых данных ценообразования.
type PricingRepository interface {
	Get(ctx context.Context, tenderID string) (domain.PricingRecord, bool)
	Save(ctx context.Context, rec domain.PricingRecord) (domain.PricingRecord, error)
}

// SnapshotRepository - хранилище снимков.
type SnapshotRepository interface {
	Save(ctx context.Context, tenderID string, snap domain.PricingSnapshot) error
	Load(ctx context.Context, tenderID string) (domain.PricingSnapshot, bool)
	Delete(ctx context.Context, tenderID string) (bool, error)
	Metadata(ctx context.Context, tenderID string) (domain.SnapshotMeta, bool)
	ValidateIntegrity(ctx context.Context, tenderID string) domain.IntegrityResult
	TenderIDs(ctx context.Context) []string
}

// BackupRepository - бэкапы цен тендеров.
type BackupRepository interface {
	SaveTenderBackup(ctx context.Context, in modules.BackupInput) (domain.TenderBackupRecord, error)
	ApplyRetention(ctx context.Context, tenderID string, rule domain.RetentionRule) ([]domain.TenderBackupRecord, error)
	RecordFailure(ctx context.Context, tenderID string, cause error) (domain.BackupFailureState, error)
	ResetFailures(ctx context.Context, tenderID string) error
	ListTenderBackups(ctx context.Context, tenderID string) []domain.TenderBackupRecord
}

// ProjectRepository - портфель проектов (только чтение).
type ProjectRepository interface {
	Get(ctx context.Context, id string) (domain.Project, error)
	Search(ctx context.Context, query string) []domain.Project
}

// StatsSource - статистика хранилища.
type StatsSource interface {
	Stats(ctx context.Context) domain.StorageStats
}

// SnapshotBuilder - конвейер построения снимков.
type SnapshotBuilder interface {
	Build(in snapshot.BuildInput) domain.PricingSnapshot
}

// Deps - зависимости TenderService.
type Deps struct {
	Pricing   PricingRepository
	Snapshots SnapshotRepository
	Backups   BackupRepository
	Projects  ProjectRepository
	Stats     StatsSource
	Builder   SnapshotBuilder
	Validator ports.PricingRequestValidator
	Log       ports.Logger
	Retention domain.RetentionRule
}

// TenderService - прикладная логика цен тендеров (без знаний о транспорте).
type TenderService struct {
	pricing   PricingRepository
	snapshots SnapshotRepository
	backups   BackupRepository
	projects  ProjectRepository
	stats     StatsSource
	builder   SnapshotBuilder
	validator ports.PricingRequestValidator
	log       ports.Logger
	retention domain.RetentionRule
}

// NewTenderService - DI-конструктор.
func NewTenderService(d Deps) *TenderService {
	return &TenderService{
		pricing:   d.Pricing,
		snapshots: d.Snapshots,
		backups:   d.Backups,
		projects:  d.Projects,
		stats:     d.Stats,
		builder:   d.Builder,
		validator: d.Validator,
		log:       d.Log,
		retention: d.Retention,
	}
}

// SaveFromMessage - сохранить запрос авторинга цен (raw JSON из Kafka или файла).
// Шаги:
//  1. строгий разбор JSON и валидация (validate.ErrInvalidRequest при проблемах);
//  2. сохранение сырых данных ценообразования;
//  3. построение и сохранение снимка;
//  4. бэкап и retention - сбои только логируются и учитываются.
func (s *TenderService) SaveFromMessage(ctx context.Context, raw []byte) error {
	req, err := validate.PricingRequestFromJSON(ctx, s.validator, raw)
	if err != nil {
		s.log.Warnf(ctx, "pricing request rejected: %v", err)
		return jmerrors.Wrap(err, jmerrors.CodeInvalidInput, "pricing request")
	}

	rec, err := s.pricing.Save(ctx, domain.PricingRecord{
		TenderID:           req.TenderID,
		TenderTitle:        req.TenderTitle,
		Pricing:            req.Pricing,
		QuantityItems:      req.QuantityItems,
		DefaultPercentages: req.DefaultPercentages,
	})
	if err != nil {
		s.log.Errorf(ctx, "pricing.Save failed tender_id=%s err=%v", req.TenderID, err)
		return fmt.Errorf("save pricing: %w", err)
	}

	snap, err := s.buildAndSave(ctx, rec, req.Source, req.Notes)
	if err != nil {
		return err
	}

	s.backup(ctx, rec, snap.Totals.TotalValue)

	s.log.Infof(ctx, "pricing saved tender_id=%s version=%d items=%d total=%.2f",
		rec.TenderID, rec.Version, snap.Meta.ItemCount, snap.Totals.TotalValue)
	return nil
}

func (s *TenderService) buildAndSave(ctx context.Context, rec domain.PricingRecord, source domain.SnapshotSource, notes string) (domain.PricingSnapshot, error) {
	start := time.Now()
	snap := s.builder.Build(snapshot.BuildInput{
		Pricing:            rec.Pricing,
		QuantityItems:      rec.QuantityItems,
		DefaultPercentages: rec.DefaultPercentages,
		Source:             source,
		Notes:              notes,
	})
	if err := s.snapshots.Save(ctx, rec.TenderID, snap); err != nil {
		s.log.Errorf(ctx, "snapshots.Save failed tender_id=%s err=%v", rec.TenderID, err)
		return domain.PricingSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.log.Infof(ctx, "snapshot built tender_id=%s source=%s hash=%s took=%s",
		rec.TenderID, snap.Meta.Source, snap.Meta.IntegrityHash, time.Since(start))
	return snap, nil
}

// backup - бэкап с последующим retention; ошибки не пробрасываются.
func (s *TenderService) backup(ctx context.Context, rec domain.PricingRecord, total float64) {
	_, err := s.backups.SaveTenderBackup(ctx, modules.BackupInput{
		TenderID:      rec.TenderID,
		TenderTitle:   rec.TenderTitle,
		Pricing:       rec.Pricing,
		QuantityItems: rec.QuantityItems,
		TotalValue:    total,
	})
	if err != nil {
		s.log.Warnf(ctx, "backup failed tender_id=%s err=%v", rec.TenderID, err)
		if st, ferr := s.backups.RecordFailure(ctx, rec.TenderID, err); ferr != nil {
			s.log.Warnf(ctx, "backup failure not recorded tender_id=%s err=%v", rec.TenderID, ferr)
		} else {
			s.log.Warnf(ctx, "backup failures tender_id=%s count=%d", rec.TenderID, st.Count)
		}
		return
	}
	if err := s.backups.ResetFailures(ctx, rec.TenderID); err != nil {
		s.log.Warnf(ctx, "backup failures not reset tender_id=%s err=%v", rec.TenderID, err)
	}

	pruned, err := s.backups.ApplyRetention(ctx, rec.TenderID, s.retention)
	if err != nil {
		s.log.Warnf(ctx, "backup retention failed tender_id=%s err=%v", rec.TenderID, err)
		return
	}
	if len(pruned) > 0 {
		s.log.Infof(ctx, "backup retention tender_id=%s pruned=%d", rec.TenderID, len(pruned))
	}
}

// RebuildSnapshot - пересчёт снимка из сохранённых данных ценообразования.
func (s *TenderService) RebuildSnapshot(ctx context.Context, tenderID string) (*domain.PricingSnapshot, error) {
	rec, ok := s.pricing.Get(ctx, tenderID)
	if !ok {
		return nil, jmerrors.Wrapf(domain.ErrNotFound, jmerrors.CodeNotFound, "pricing for tender %q", tenderID)
	}
	var notes string
	if meta, found := s.snapshots.Metadata(ctx, tenderID); found {
		notes = meta.Notes
	}
	snap, err := s.buildAndSave(ctx, rec, domain.SourceRebuild, notes)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetSnapshot - (nil, nil), если снимка нет.
func (s *TenderService) GetSnapshot(ctx context.Context, tenderID string) (*domain.PricingSnapshot, error) {
	snap, ok := s.snapshots.Load(ctx, tenderID)
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *TenderService) SnapshotMeta(ctx context.Context, tenderID string) (*domain.SnapshotMeta, error) {
	meta, ok := s.snapshots.Metadata(ctx, tenderID)
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func (s *TenderService) ValidateSnapshot(ctx context.Context, tenderID string) (domain.IntegrityResult, error) {
	res := s.snapshots.ValidateIntegrity(ctx, tenderID)
	if !res.OK {
		s.log.Warnf(ctx, "snapshot integrity failed tender_id=%s reason=%s", tenderID, res.Reason)
	}
	return res, nil
}

func (s *TenderService) DeleteSnapshot(ctx context.Context, tenderID string) error {
	deleted, err := s.snapshots.Delete(ctx, tenderID)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if !deleted {
		return jmerrors.Wrapf(domain.ErrNotFound, jmerrors.CodeNotFound, "snapshot %q", tenderID)
	}
	return nil
}

// ListSnapshots - страница идентификаторов тендеров со снимками.
func (s *TenderService) ListSnapshots(ctx context.Context, limit, offset int) ([]string, error) {
	return page(s.snapshots.TenderIDs(ctx), limit, offset), nil
}

func (s *TenderService) TenderBackups(ctx context.Context, tenderID string) ([]domain.TenderBackupRecord, error) {
	return s.backups.ListTenderBackups(ctx, tenderID), nil
}

// SearchProjects - поиск, затем сортировка (по умолчанию по имени), затем страница.
func (s *TenderService) SearchProjects(ctx context.Context, q domain.ProjectQuery) ([]domain.Project, error) {
	found := modules.SortProjects(s.projects.Search(ctx, q.Text), modules.ProjectSortField(q.SortBy), q.Desc)
	return page(found, q.Limit, q.Offset), nil
}

// GetProject - (nil, nil), если проекта нет.
func (s *TenderService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *TenderService) StorageStats(ctx context.Context) domain.StorageStats {
	return s.stats.Stats(ctx)
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
