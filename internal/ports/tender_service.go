package ports

import (
	"context"

	"github.com/Gunvolt24/tenderstore/internal/domain"
)

// TenderReadService - операции, доступные HTTP-слою.
type TenderReadService interface {
	// GetSnapshot - снимок тендера; (nil, nil), если снимка нет.
	GetSnapshot(ctx context.Context, tenderID string) (*domain.PricingSnapshot, error)
	SnapshotMeta(ctx context.Context, tenderID string) (*domain.SnapshotMeta, error)
	ValidateSnapshot(ctx context.Context, tenderID string) (domain.IntegrityResult, error)
	RebuildSnapshot(ctx context.Context, tenderID string) (*domain.PricingSnapshot, error)
	DeleteSnapshot(ctx context.Context, tenderID string) error
	ListSnapshots(ctx context.Context, limit, offset int) ([]string, error)

	TenderBackups(ctx context.Context, tenderID string) ([]domain.TenderBackupRecord, error)

	SearchProjects(ctx context.Context, q domain.ProjectQuery) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)

	StorageStats(ctx context.Context) domain.StorageStats
}
