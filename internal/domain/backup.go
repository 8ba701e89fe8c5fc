package domain

import (
	"encoding/json"
	"errors"
)

// BackupStoreVersion - версия формата хранилища бэкапов.
const BackupStoreVersion = "1.0.0"

// TenderPricingBackupPayload - содержимое бэкапа цен тендера.
type TenderPricingBackupPayload struct {
	TenderID             string         `json:"tenderId"`
	TenderTitle          string         `json:"tenderTitle,omitempty"`
	Pricing              []PricingEntry `json:"pricing"`
	QuantityItems        []QuantityItem `json:"quantityItems"`
	CompletionPercentage float64        `json:"completionPercentage"`
	TotalValue           float64        `json:"totalValue"`
	Timestamp            string         `json:"timestamp"`
	Version              string         `json:"version"`
}

// TenderBackupRecord - запись бэкапа с метаданными хранения.
type TenderBackupRecord struct {
	ID                   string                     `json:"id"`
	TenderID             string                     `json:"tenderId"`
	TenderTitle          string                     `json:"tenderTitle,omitempty"`
	Timestamp            string                     `json:"timestamp"`
	CompletionPercentage float64                    `json:"completionPercentage"`
	TotalValue           float64                    `json:"totalValue"`
	ItemsTotal           int                        `json:"itemsTotal"`
	ItemsPriced          int                        `json:"itemsPriced"`
	Dataset              string                     `json:"dataset"`
	RetentionKey         string                     `json:"retentionKey"`
	RetentionExpiresAt   string                     `json:"retentionExpiresAt,omitempty"`
	Version              string                     `json:"version"`
	Payload              TenderPricingBackupPayload `json:"payload"`
}

// BackupFailureState - счётчик неудачных попыток бэкапа по тендеру.
type BackupFailureState struct {
	Count         int    `json:"count"`
	LastFailureAt string `json:"lastFailureAt,omitempty"`
	LastError     string `json:"lastError,omitempty"`
}

// BackupStore - всё хранилище бэкапов под одним ключом.
type BackupStore struct {
	Version         string                          `json:"version"`
	UpdatedAt       string                          `json:"updatedAt"`
	Tenders         map[string][]TenderBackupRecord `json:"tenders"`
	FailureCounters map[string]BackupFailureState   `json:"failureCounters"`
}

// Validate - признаки актуального формата хранилища.
func (s BackupStore) Validate() error {
	if s.Version == "" || s.UpdatedAt == "" {
		return errors.New("backup store: missing version or updatedAt")
	}
	return nil
}

// RetentionRule - правило хранения бэкапов тендера.
type RetentionRule struct {
	MaxEntries int `json:"maxEntries"`
	MaxAgeDays int `json:"maxAgeDays"`
}

// TenderBackupExport - выгрузка бэкапов одного тендера.
type TenderBackupExport struct {
	Version    string               `json:"version"`
	ExportedAt string               `json:"exportedAt"`
	TenderID   string               `json:"tenderId"`
	Backups    []TenderBackupRecord `json:"backups"`
}

// BackupSummary - метаданные записи бэкапа без содержимого.
type BackupSummary struct {
	ID                   string  `json:"id"`
	TenderID             string  `json:"tenderId"`
	TenderTitle          string  `json:"tenderTitle,omitempty"`
	Timestamp            string  `json:"timestamp"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalValue           float64 `json:"totalValue"`
	ItemsTotal           int     `json:"itemsTotal"`
	ItemsPriced          int     `json:"itemsPriced"`
	Dataset              string  `json:"dataset"`
	RetentionKey         string  `json:"retentionKey"`
	RetentionExpiresAt   string  `json:"retentionExpiresAt,omitempty"`
	Version              string  `json:"version"`
}

// Summary - запись без payload.
func (r TenderBackupRecord) Summary() BackupSummary {
	return BackupSummary{
		ID:                   r.ID,
		TenderID:             r.TenderID,
		TenderTitle:          r.TenderTitle,
		Timestamp:            r.Timestamp,
		CompletionPercentage: r.CompletionPercentage,
		TotalValue:           r.TotalValue,
		ItemsTotal:           r.ItemsTotal,
		ItemsPriced:          r.ItemsPriced,
		Dataset:              r.Dataset,
		RetentionKey:         r.RetentionKey,
		RetentionExpiresAt:   r.RetentionExpiresAt,
		Version:              r.Version,
	}
}

// Record - обратная сборка записи из метаданных и содержимого.
func (s BackupSummary) Record(payload TenderPricingBackupPayload) TenderBackupRecord {
	return TenderBackupRecord{
		ID:                   s.ID,
		TenderID:             s.TenderID,
		TenderTitle:          s.TenderTitle,
		Timestamp:            s.Timestamp,
		CompletionPercentage: s.CompletionPercentage,
		TotalValue:           s.TotalValue,
		ItemsTotal:           s.ItemsTotal,
		ItemsPriced:          s.ItemsPriced,
		Dataset:              s.Dataset,
		RetentionKey:         s.RetentionKey,
		RetentionExpiresAt:   s.RetentionExpiresAt,
		Version:              s.Version,
		Payload:              payload,
	}
}

type BackupExportEntry struct {
	Summary BackupSummary              `json:"summary"`
	Payload TenderPricingBackupPayload `json:"payload"`
}

type BackupExportTotals struct {
	Tenders int `json:"tenders"`
	Entries int `json:"entries"`
}

// BackupExport - выгрузка всего хранилища бэкапов тендеров.
type BackupExport struct {
	Version     string                         `json:"version"`
	GeneratedAt string                         `json:"generatedAt"`
	Retention   map[string]RetentionRule       `json:"retention"`
	Totals      BackupExportTotals             `json:"totals"`
	Tenders     map[string][]BackupExportEntry `json:"tenders"`
	Failures    map[string]BackupFailureState  `json:"failures"`
}

// GeneralBackupType - ручной или автоматический системный бэкап.
type GeneralBackupType string

const (
	GeneralBackupManual    GeneralBackupType = "manual"
	GeneralBackupAutomatic GeneralBackupType = "automatic"
)

// GeneralBackupMetadata - описание системного бэкапа в списке.
type GeneralBackupMetadata struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Version     string            `json:"version"`
	UserID      string            `json:"userId"`
	UserName    string            `json:"userName"`
	Type        GeneralBackupType `json:"type"`
	Size        int64             `json:"size"`
	Encrypted   bool              `json:"encrypted"`
	Description string            `json:"description,omitempty"`
	Tables      []string          `json:"tables"`
}

// GeneralBackup - системный бэкап: таблицы хранятся как есть.
type GeneralBackup struct {
	Metadata GeneralBackupMetadata        `json:"metadata"`
	Data     map[string][]json.RawMessage `json:"data"`
}

// Validate - у бэкапа есть id.
func (b GeneralBackup) Validate() error {
	if b.Metadata.ID == "" {
		return errors.New("general backup: missing metadata.id")
	}
	return nil
}
