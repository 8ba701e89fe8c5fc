package modules

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	jmerrors "github.com/jmgilman/go/errors"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
	"github.com/Gunvolt24/tenderstore/internal/snapshot"
	"github.com/Gunvolt24/tenderstore/pkg/metrics"
)

// SnapshotMap - снимки по tenderId; один снимок на тендер, запись заменяет предыдущий.
type SnapshotMap map[string]domain.PricingSnapshot

// IntegrityHashFunc - пересчёт integrityHash по сохранённому снимку.
type IntegrityHashFunc func(domain.PricingSnapshot) string

// Snapshots - хранилище снимков цен под ключом KeySnapshots.
type Snapshots struct {
	st   Store
	log  ports.Logger
	hash IntegrityHashFunc
	mu   sync.Mutex
}

var _ Module = (*Snapshots)(nil)

// NewSnapshots - hash == nil означает snapshot.SnapshotIntegrityHash.
func NewSnapshots(st Store, log ports.Logger, hash IntegrityHashFunc) *Snapshots {
	if hash == nil {
		hash = snapshot.SnapshotIntegrityHash
	}
	return &Snapshots{st: st, log: log, hash: hash}
}

func (s *Snapshots) Name() string { return "snapshots" }

func (s *Snapshots) Keys() []string { return append([]string{KeySnapshots}, LegacySnapshotKeys...) }

func (s *Snapshots) Initialize(ctx context.Context) MigrationOutcome {
	return migration[SnapshotMap, SnapshotMap]{
		module:  s.Name(),
		modern:  KeySnapshots,
		legacy:  LegacySnapshotKeys,
		empty:   func(m SnapshotMap) bool { return len(m) == 0 },
		convert: identity[SnapshotMap],
	}.run(ctx, s.st, s.log)
}

func (s *Snapshots) load(ctx context.Context) SnapshotMap {
	var m SnapshotMap
	if !s.st.Get(ctx, KeySnapshots, &m) || m == nil {
		return SnapshotMap{}
	}
	return m
}

// loadForUpdate - как load, но ключ, который есть и не читается, - ошибка.
func (s *Snapshots) loadForUpdate(ctx context.Context) (SnapshotMap, error) {
	var m SnapshotMap
	if _, err := s.st.Lookup(ctx, KeySnapshots, &m); err != nil {
		return nil, unreadable(s.Name(), KeySnapshots, err)
	}
	if m == nil {
		m = SnapshotMap{}
	}
	return m, nil
}

// Save - проверка формы и сходимости итогов, затем полная замена снимка тендера.
func (s *Snapshots) Save(ctx context.Context, tenderID string, snap domain.PricingSnapshot) error {
	if strings.TrimSpace(tenderID) == "" {
		return invalidInput("snapshot: tenderId is required")
	}
	if err := snap.Validate(); err != nil {
		return jmerrors.Wrapf(err, jmerrors.CodeInvalidInput, "snapshot %q", tenderID)
	}
	if err := snap.ValidateTotals(); err != nil {
		return jmerrors.Wrapf(err, jmerrors.CodeInvalidInput, "snapshot %q", tenderID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	m[tenderID] = snap
	return s.st.Set(ctx, KeySnapshots, m)
}

// Load - снимок тендера. Снимок, не прошедший структурную проверку, считается отсутствующим.
func (s *Snapshots) Load(ctx context.Context, tenderID string) (domain.PricingSnapshot, bool) {
	snap, ok := s.load(ctx)[tenderID]
	if !ok {
		return domain.PricingSnapshot{}, false
	}
	if err := snap.Validate(); err != nil {
		s.log.Warnf(ctx, "snapshots: stored snapshot %q is invalid: %v", tenderID, err)
		return domain.PricingSnapshot{}, false
	}
	return snap, true
}

// Delete - удаляет снимок; false, если его не было.
func (s *Snapshots) Delete(ctx context.Context, tenderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := m[tenderID]; !ok {
		return false, nil
	}
	delete(m, tenderID)
	return true, s.st.Set(ctx, KeySnapshots, m)
}

func (s *Snapshots) Exists(ctx context.Context, tenderID string) bool {
	_, ok := s.load(ctx)[tenderID]
	return ok
}

func (s *Snapshots) Metadata(ctx context.Context, tenderID string) (domain.SnapshotMeta, bool) {
	snap, ok := s.Load(ctx, tenderID)
	return snap.Meta, ok
}

// UpdateNotes - единственное изменяемое поле метаданных; хеши не затрагиваются.
func (s *Snapshots) UpdateNotes(ctx context.Context, tenderID, notes string) (domain.SnapshotMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadForUpdate(ctx)
	if err != nil {
		return domain.SnapshotMeta{}, err
	}
	snap, ok := m[tenderID]
	if !ok {
		return domain.SnapshotMeta{}, notFound("snapshot", tenderID)
	}
	snap.Meta.Notes = notes
	m[tenderID] = snap
	if err := s.st.Set(ctx, KeySnapshots, m); err != nil {
		return domain.SnapshotMeta{}, err
	}
	return snap.Meta, nil
}

// ValidateIntegrity - пересчитывает integrityHash и сравнивает с сохранённым.
func (s *Snapshots) ValidateIntegrity(ctx context.Context, tenderID string) domain.IntegrityResult {
	res := s.validateIntegrity(ctx, tenderID)
	label := "ok"
	if !res.OK {
		label = string(res.Reason)
	}
	metrics.IntegrityChecks.WithLabelValues(label).Inc()
	return res
}

func (s *Snapshots) validateIntegrity(ctx context.Context, tenderID string) domain.IntegrityResult {
	snap, ok := s.load(ctx)[tenderID]
	if !ok {
		return domain.IntegrityResult{Reason: domain.ReasonMissing}
	}
	if s.hash(snap) != snap.Meta.IntegrityHash {
		return domain.IntegrityResult{Reason: domain.ReasonHashMismatch}
	}
	return domain.IntegrityResult{OK: true}
}

// TenderIDs - идентификаторы тендеров со снимками в лексикографическом порядке.
func (s *Snapshots) TenderIDs(ctx context.Context) []string {
	return slices.Sorted(maps.Keys(s.load(ctx)))
}

func (s *Snapshots) Count(ctx context.Context) int { return len(s.load(ctx)) }

// Import - полная замена карты снимков. Каждый снимок проверяется до записи.
func (s *Snapshots) Import(ctx context.Context, in SnapshotMap) error {
	for id, snap := range in {
		if err := snap.Validate(); err != nil {
			return jmerrors.Wrapf(err, jmerrors.CodeInvalidInput, "import snapshot %q", id)
		}
	}
	if in == nil {
		in = SnapshotMap{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Set(ctx, KeySnapshots, in)
}

func (s *Snapshots) Export(ctx context.Context) SnapshotMap { return s.load(ctx) }

func (s *Snapshots) Clear(ctx context.Context) error { return s.st.Remove(ctx, KeySnapshots) }
