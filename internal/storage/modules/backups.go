package modules

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

const (
	// DatasetTenderPricing - набор данных бэкапа цен тендера.
	DatasetTenderPricing = "tender-pricing"
	// RetentionTenderPricing - ключ правила хранения для бэкапов цен.
	RetentionTenderPricing = "tenderPricing"
)

// BackupInput - данные для бэкапа цен тендера.
type BackupInput struct {
	TenderID      string
	TenderTitle   string
	Pricing       []domain.PricingEntry
	QuantityItems []domain.QuantityItem
	TotalValue    float64
}

// legacyBackups - старый формат: записи по тендерам без обёртки.
type legacyBackups map[string][]domain.TenderBackupRecord

// Backups - бэкапы цен тендеров под ключом KeyBackups.
type Backups struct {
	st        Store
	log       ports.Logger
	now       clock
	retention domain.RetentionRule
	mu        sync.Mutex
}

var _ Module = (*Backups)(nil)

// NewBackups - retention задаёт срок истечения записей (retentionExpiresAt).
func NewBackups(st Store, log ports.Logger, retention domain.RetentionRule, opts ...Option) *Backups {
	o := buildOptions(opts)
	return &Backups{st: st, log: log, now: o.now, retention: retention}
}

func (b *Backups) Name() string { return "backups" }

func (b *Backups) Keys() []string {
	return append([]string{KeyBackups, KeyGeneralBackupList}, LegacyBackupKeys...)
}

func (b *Backups) Initialize(ctx context.Context) MigrationOutcome {
	return migration[domain.BackupStore, legacyBackups]{
		module: b.Name(),
		modern: KeyBackups,
		legacy: LegacyBackupKeys,
		empty: func(s domain.BackupStore) bool {
			return len(s.Tenders) == 0 && len(s.FailureCounters) == 0
		},
		convert: func(old legacyBackups) (domain.BackupStore, bool) {
			s := b.emptyStore()
			for id, recs := range old {
				if id == "" || len(recs) == 0 {
					continue
				}
				s.Tenders[id] = sortNewestFirst(recs)
			}
			return s, true
		},
	}.run(ctx, b.st, b.log)
}

func (b *Backups) emptyStore() domain.BackupStore {
	return domain.BackupStore{
		Version:         domain.BackupStoreVersion,
		UpdatedAt:       b.now.stamp(),
		Tenders:         map[string][]domain.TenderBackupRecord{},
		FailureCounters: map[string]domain.BackupFailureState{},
	}
}

// load - хранилище бэкапов; отсутствующее или не прошедшее проверку читается как пустое.
func (b *Backups) load(ctx context.Context) domain.BackupStore {
	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return b.emptyStore()
	}
	return s
}

// loadForUpdate - как load, но хранилище, которое есть и не читается, - ошибка.
func (b *Backups) loadForUpdate(ctx context.Context) (domain.BackupStore, error) {
	var s domain.BackupStore
	found, err := b.st.Lookup(ctx, KeyBackups, &s)
	if err != nil {
		return domain.BackupStore{}, unreadable(b.Name(), KeyBackups, err)
	}
	if !found {
		return b.emptyStore(), nil
	}
	if s.Tenders == nil {
		s.Tenders = map[string][]domain.TenderBackupRecord{}
	}
	if s.FailureCounters == nil {
		s.FailureCounters = map[string]domain.BackupFailureState{}
	}
	return s, nil
}

func (b *Backups) save(ctx context.Context, s domain.BackupStore) error {
	s.Version = domain.BackupStoreVersion
	s.UpdatedAt = b.now.stamp()
	return b.st.Set(ctx, KeyBackups, s)
}

// SaveTenderBackup - новая запись бэкапа в начало списка тендера.
func (b *Backups) SaveTenderBackup(ctx context.Context, in BackupInput) (domain.TenderBackupRecord, error) {
	if strings.TrimSpace(in.TenderID) == "" {
		return domain.TenderBackupRecord{}, invalidInput("backup: tenderId is required")
	}

	now := b.now().UTC()
	ts := domain.Timestamp(now)
	priced := countPriced(in.Pricing, in.QuantityItems)
	completion := 0.0
	if n := len(in.QuantityItems); n > 0 {
		completion = float64(int(float64(priced)/float64(n)*10000+0.5)) / 100
	}

	rec := domain.TenderBackupRecord{
		ID:                   uuid.NewString(),
		TenderID:             in.TenderID,
		TenderTitle:          in.TenderTitle,
		Timestamp:            ts,
		CompletionPercentage: completion,
		TotalValue:           in.TotalValue,
		ItemsTotal:           len(in.QuantityItems),
		ItemsPriced:          priced,
		Dataset:              DatasetTenderPricing,
		RetentionKey:         RetentionTenderPricing,
		Version:              domain.BackupStoreVersion,
		Payload: domain.TenderPricingBackupPayload{
			TenderID:             in.TenderID,
			TenderTitle:          in.TenderTitle,
			Pricing:              in.Pricing,
			QuantityItems:        in.QuantityItems,
			CompletionPercentage: completion,
			TotalValue:           in.TotalValue,
			Timestamp:            ts,
			Version:              domain.BackupStoreVersion,
		},
	}
	if b.retention.MaxAgeDays > 0 {
		rec.RetentionExpiresAt = domain.Timestamp(now.AddDate(0, 0, b.retention.MaxAgeDays))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return domain.TenderBackupRecord{}, err
	}
	s.Tenders[in.TenderID] = append([]domain.TenderBackupRecord{rec}, s.Tenders[in.TenderID]...)
	if err := b.save(ctx, s); err != nil {
		return domain.TenderBackupRecord{}, err
	}
	return rec, nil
}

// ListTenderBackups - записи тендера, новые первыми.
func (b *Backups) ListTenderBackups(ctx context.Context, tenderID string) []domain.TenderBackupRecord {
	return slices.Clone(b.load(ctx).Tenders[tenderID])
}

func (b *Backups) GetLatest(ctx context.Context, tenderID string) (domain.TenderBackupRecord, bool) {
	recs := b.load(ctx).Tenders[tenderID]
	if len(recs) == 0 {
		return domain.TenderBackupRecord{}, false
	}
	return recs[0], true
}

func (b *Backups) GetBackup(ctx context.Context, tenderID, backupID string) (domain.TenderBackupRecord, bool) {
	for _, r := range b.load(ctx).Tenders[tenderID] {
		if r.ID == backupID {
			return r, true
		}
	}
	return domain.TenderBackupRecord{}, false
}

func (b *Backups) DeleteTenderBackups(ctx context.Context, tenderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	if _, ok := s.Tenders[tenderID]; !ok {
		return nil
	}
	delete(s.Tenders, tenderID)
	return b.save(ctx, s)
}

// DeleteBackup - удаляет одну запись; false, если её не было.
func (b *Backups) DeleteBackup(ctx context.Context, tenderID, backupID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	recs := s.Tenders[tenderID]
	kept := slices.DeleteFunc(slices.Clone(recs), func(r domain.TenderBackupRecord) bool { return r.ID == backupID })
	if len(kept) == len(recs) {
		return false, nil
	}
	if len(kept) == 0 {
		delete(s.Tenders, tenderID)
	} else {
		s.Tenders[tenderID] = kept
	}
	return true, b.save(ctx, s)
}

// ApplyRetention - оставляет не более MaxEntries свежих записей и удаляет записи
// старше MaxAgeDays. Самая свежая запись сохраняется всегда. Возвращает удалённые.
func (b *Backups) ApplyRetention(ctx context.Context, tenderID string, rule domain.RetentionRule) ([]domain.TenderBackupRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	recs := sortNewestFirst(s.Tenders[tenderID])
	if len(recs) == 0 {
		return nil, nil
	}

	var cutoff time.Time
	if rule.MaxAgeDays > 0 {
		cutoff = b.now().UTC().AddDate(0, 0, -rule.MaxAgeDays)
	}

	kept := recs[:1]
	var pruned []domain.TenderBackupRecord
	for _, r := range recs[1:] {
		tooMany := rule.MaxEntries > 0 && len(kept) >= rule.MaxEntries
		tooOld := false
		if !cutoff.IsZero() {
			if ts, err := domain.ParseTimestamp(r.Timestamp); err == nil && ts.Before(cutoff) {
				tooOld = true
			}
		}
		if tooMany || tooOld {
			pruned = append(pruned, r)
			continue
		}
		kept = append(kept, r)
	}
	if len(pruned) == 0 {
		return nil, nil
	}

	s.Tenders[tenderID] = kept
	if err := b.save(ctx, s); err != nil {
		return nil, err
	}
	return pruned, nil
}

// RecordFailure - учёт неудачной попытки бэкапа.
func (b *Backups) RecordFailure(ctx context.Context, tenderID string, cause error) (domain.BackupFailureState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return domain.BackupFailureState{}, err
	}
	st := s.FailureCounters[tenderID]
	st.Count++
	st.LastFailureAt = b.now.stamp()
	if cause != nil {
		st.LastError = cause.Error()
	}
	s.FailureCounters[tenderID] = st
	if err := b.save(ctx, s); err != nil {
		return domain.BackupFailureState{}, err
	}
	return st, nil
}

func (b *Backups) ResetFailures(ctx context.Context, tenderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	if _, ok := s.FailureCounters[tenderID]; !ok {
		return nil
	}
	delete(s.FailureCounters, tenderID)
	return b.save(ctx, s)
}

func (b *Backups) FailureState(ctx context.Context, tenderID string) (domain.BackupFailureState, bool) {
	st, ok := b.load(ctx).FailureCounters[tenderID]
	return st, ok
}

func (b *Backups) ExportTender(ctx context.Context, tenderID string) domain.TenderBackupExport {
	recs := b.ListTenderBackups(ctx, tenderID)
	if recs == nil {
		recs = []domain.TenderBackupRecord{}
	}
	return domain.TenderBackupExport{
		Version:    domain.BackupStoreVersion,
		ExportedAt: b.now.stamp(),
		TenderID:   tenderID,
		Backups:    recs,
	}
}

// Export - выгрузка всего хранилища: записи тендеров (новые первыми) как summary + payload,
// правило хранения, итоги и счётчики сбоев.
func (b *Backups) Export(ctx context.Context) domain.BackupExport {
	s := b.load(ctx)
	out := domain.BackupExport{
		Version:     domain.BackupStoreVersion,
		GeneratedAt: b.now.stamp(),
		Retention:   map[string]domain.RetentionRule{RetentionTenderPricing: b.retention},
		Tenders:     make(map[string][]domain.BackupExportEntry, len(s.Tenders)),
		Failures:    maps.Clone(s.FailureCounters),
	}
	for id, recs := range s.Tenders {
		entries := make([]domain.BackupExportEntry, 0, len(recs))
		for _, r := range sortNewestFirst(recs) {
			entries = append(entries, domain.BackupExportEntry{Summary: r.Summary(), Payload: r.Payload})
		}
		out.Tenders[id] = entries
		out.Totals.Entries += len(entries)
	}
	out.Totals.Tenders = len(out.Tenders)
	return out
}

// Import - загрузка выгрузки Export. Слияние: записи с тем же id заменяются,
// счётчики сбоев из выгрузки побеждают. replace - хранилище собирается заново.
// Возвращает число импортированных записей.
func (b *Backups) Import(ctx context.Context, in domain.BackupExport, replace bool) (int, error) {
	for id, entries := range in.Tenders {
		if id == "" {
			return 0, invalidInput("import backups: empty tender id")
		}
		for i, e := range entries {
			if e.Summary.ID == "" || e.Summary.TenderID != id {
				return 0, invalidInput("import backups: tender %q entry %d: bad id or tenderId", id, i)
			}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.emptyStore()
	if !replace {
		var err error
		if s, err = b.loadForUpdate(ctx); err != nil {
			return 0, err
		}
	}

	n := 0
	for id, entries := range in.Tenders {
		recs := s.Tenders[id]
		for _, e := range entries {
			rec := e.Summary.Record(e.Payload)
			if i := slices.IndexFunc(recs, func(r domain.TenderBackupRecord) bool { return r.ID == rec.ID }); i >= 0 {
				recs[i] = rec
			} else {
				recs = append(recs, rec)
			}
			n++
		}
		if len(recs) > 0 {
			s.Tenders[id] = sortNewestFirst(recs)
		}
	}
	maps.Copy(s.FailureCounters, in.Failures)

	if err := b.save(ctx, s); err != nil {
		return 0, err
	}
	return n, nil
}

// Count - общее число записей бэкапов.
func (b *Backups) Count(ctx context.Context) int {
	n := 0
	for _, recs := range b.load(ctx).Tenders {
		n += len(recs)
	}
	return n
}

func (b *Backups) Clear(ctx context.Context) error { return b.st.Remove(ctx, KeyBackups) }

func generalBackupKey(id string) string { return GeneralBackupPrefix + id }

func checkGeneralBackupID(id string) error {
	if strings.TrimSpace(id) == "" || generalBackupKey(id) == KeyGeneralBackupList {
		return invalidInput("general backup: invalid id %q", id)
	}
	return nil
}

// SaveGeneralBackup - системный бэкап под backup_<id>; метаданные попадают в список
// (запись с тем же id заменяется).
func (b *Backups) SaveGeneralBackup(ctx context.Context, backup domain.GeneralBackup) error {
	id := backup.Metadata.ID
	if err := checkGeneralBackupID(id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.loadGeneralListForUpdate(ctx)
	if err != nil {
		return err
	}
	if err := b.st.Set(ctx, generalBackupKey(id), backup); err != nil {
		return err
	}
	list = slices.DeleteFunc(list, func(m domain.GeneralBackupMetadata) bool { return m.ID == id })
	return b.st.Set(ctx, KeyGeneralBackupList, append(list, backup.Metadata))
}

// LoadGeneralBackup - false, если бэкапа нет или он не читается.
func (b *Backups) LoadGeneralBackup(ctx context.Context, id string) (domain.GeneralBackup, bool) {
	if checkGeneralBackupID(id) != nil {
		return domain.GeneralBackup{}, false
	}
	var backup domain.GeneralBackup
	if !b.st.Get(ctx, generalBackupKey(id), &backup) {
		return domain.GeneralBackup{}, false
	}
	return backup, true
}

// DeleteGeneralBackup - удаляет бэкап и его строку в списке.
func (b *Backups) DeleteGeneralBackup(ctx context.Context, id string) error {
	if err := checkGeneralBackupID(id); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.loadGeneralListForUpdate(ctx)
	if err != nil {
		return err
	}
	if err := b.st.Remove(ctx, generalBackupKey(id)); err != nil {
		return err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(m domain.GeneralBackupMetadata) bool { return m.ID == id })
	if len(list) == n {
		return nil
	}
	return b.st.Set(ctx, KeyGeneralBackupList, list)
}

// GeneralBackups - список системных бэкапов в порядке сохранения.
func (b *Backups) GeneralBackups(ctx context.Context) []domain.GeneralBackupMetadata {
	var list []domain.GeneralBackupMetadata
	if !b.st.Get(ctx, KeyGeneralBackupList, &list) || list == nil {
		return []domain.GeneralBackupMetadata{}
	}
	return list
}

// SaveGeneralBackupList - полная замена списка системных бэкапов.
func (b *Backups) SaveGeneralBackupList(ctx context.Context, list []domain.GeneralBackupMetadata) error {
	if list == nil {
		list = []domain.GeneralBackupMetadata{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st.Set(ctx, KeyGeneralBackupList, list)
}

func (b *Backups) loadGeneralListForUpdate(ctx context.Context) ([]domain.GeneralBackupMetadata, error) {
	var list []domain.GeneralBackupMetadata
	if _, err := b.st.Lookup(ctx, KeyGeneralBackupList, &list); err != nil {
		return nil, unreadable(b.Name(), KeyGeneralBackupList, err)
	}
	return list, nil
}

// countPriced - позиции ведомости, для которых есть строка с ценой или ресурсами.
func countPriced(rows []domain.PricingEntry, items []domain.QuantityItem) int {
	priced := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.UnitPrice > 0 || r.TotalPrice > 0 ||
			len(r.Materials)+len(r.Labor)+len(r.Equipment)+len(r.Subcontractors) > 0 {
			priced[r.ID] = true
		}
	}
	n := 0
	for _, it := range items {
		if priced[it.ID] {
			n++
		}
	}
	return n
}

// sortNewestFirst - устойчивая сортировка копии по убыванию timestamp.
func sortNewestFirst(recs []domain.TenderBackupRecord) []domain.TenderBackupRecord {
	out := slices.Clone(recs)
	slices.SortStableFunc(out, func(a, b domain.TenderBackupRecord) int {
		return strings.Compare(b.Timestamp, a.Timestamp)
	})
	return out
}
