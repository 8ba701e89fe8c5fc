package domain

// StorageStats - статистика менеджера хранилища.
type StorageStats struct {
	Adapter        string  `json:"adapter"`
	State          string  `json:"state"`
	TotalKeys      int     `json:"totalKeys"`
	TotalSize      int     `json:"totalSize"`
	CacheSize      int     `json:"cacheSize"`
	CacheHitRate   float64 `json:"cacheHitRate"`
	OperationCount int64   `json:"operationCount"`
	ErrorCount     int64   `json:"errorCount"`
}
