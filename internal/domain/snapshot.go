package domain

import (
	"fmt"
	"math"
)

const (
	// EngineVersion - версия расчётного движка, участвует в integrityHash.
	EngineVersion = "1.0.0"
	// SnapshotVersion - версия формата снимка.
	SnapshotVersion = 1
	// TotalsEpsilon - допуск расхождения суммы позиций и totalValue.
	TotalsEpsilon = 0.01
)

// SnapshotSource - происхождение снимка.
type SnapshotSource string

const (
	SourceAuthoring SnapshotSource = "authoring"
	SourceMigration SnapshotSource = "migration"
	SourceRebuild   SnapshotSource = "rebuild"
)

// Valid - известен ли источник.
func (s SnapshotSource) Valid() bool {
	switch s {
	case SourceAuthoring, SourceMigration, SourceRebuild:
		return true
	}
	return false
}

// SnapshotMeta - метаданные снимка. CreatedAt - RFC3339 (UTC, миллисекунды).
type SnapshotMeta struct {
	EngineVersion   string         `json:"engineVersion"`
	SnapshotVersion int            `json:"snapshotVersion"`
	ConfigHash      string         `json:"configHash"`
	CreatedAt       string         `json:"createdAt"`
	ItemCount       int            `json:"itemCount"`
	TotalsHash      string         `json:"totalsHash"`
	IntegrityHash   string         `json:"integrityHash"`
	Source          SnapshotSource `json:"source"`
	Notes           string         `json:"notes,omitempty"`
}

// PricingSnapshot - неизменяемый хешированный снимок цен тендера.
type PricingSnapshot struct {
	Meta   SnapshotMeta  `json:"meta"`
	Items  []PricingItem `json:"items"`
	Totals PricingTotals `json:"totals"`
}

// Validate - структурная проверка формы снимка.
func (s PricingSnapshot) Validate() error {
	if s.Meta.ItemCount != len(s.Items) {
		return fmt.Errorf("%w: itemCount %d != items %d", ErrInvalidSnapshot, s.Meta.ItemCount, len(s.Items))
	}
	if !s.Meta.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidSnapshot, s.Meta.Source)
	}
	if s.Meta.IntegrityHash == "" || s.Meta.ConfigHash == "" {
		return fmt.Errorf("%w: missing hashes", ErrInvalidSnapshot)
	}
	return nil
}

// ValidateTotals - сумма totalPrice позиций совпадает с totalValue в пределах эпсилон.
func (s PricingSnapshot) ValidateTotals() error {
	var sum float64
	for _, it := range s.Items {
		sum += it.TotalPrice
	}
	if math.Abs(sum-s.Totals.TotalValue) > TotalsEpsilon {
		return fmt.Errorf("%w: items sum %.2f != totalValue %.2f", ErrInvalidSnapshot, sum, s.Totals.TotalValue)
	}
	return nil
}

// IntegrityReason - причина провала проверки целостности.
type IntegrityReason string

const (
	ReasonMissing      IntegrityReason = "missing"
	ReasonHashMismatch IntegrityReason = "hash-mismatch"
)

// IntegrityResult - результат проверки целостности (не ошибка).
type IntegrityResult struct {
	OK     bool            `json:"ok"`
	Reason IntegrityReason `json:"reason,omitempty"`
}
