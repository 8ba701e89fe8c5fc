package modules

// Актуальные ключи модулей.
const (
	KeyProjects  = "app_projects_data"
	KeyPricing   = "app_pricing_data"
	KeySnapshots = "app_tender_pricing_snapshots"
	KeyBackups   = "app_tender_backups"

	// KeyGeneralBackupList - список системных бэкапов.
	KeyGeneralBackupList = "backup_list"
	// GeneralBackupPrefix - префикс ключа системного бэкапа (backup_<id>).
	GeneralBackupPrefix = "backup_"
)

// Устаревшие имена, из которых выполняется одноразовая миграция (по приоритету).
var (
	LegacyProjectKeys  = []string{"projects", "app_projects"}
	LegacyPricingKeys  = []string{"tender_pricing_data", "pricing_data"}
	LegacySnapshotKeys = []string{"tender_pricing_snapshots"}
	LegacyBackupKeys   = []string{"tender_backups", "tenderBackups"}
)
