package service

import (
	"context"
	"time"

	"github.com/lifeceo/backend/internal/models"
)

// BackupRepository defines the snapshot operations needed by the backup
// service.
type BackupRepository interface {
	// Snapshot reads all tables into a Backup.
	Snapshot(ctx context.Context) (*models.Backup, error)
	// Restore replaces the whole store with the snapshot, atomically.
	Restore(ctx context.Context, b *models.Backup) error
}

// BackupService exports and imports full snapshots of the store.
type BackupService struct {
	repo BackupRepository
	now  func() time.Time
}

// NewBackupService constructs a BackupService with the provided repository.
func NewBackupService(repo BackupRepository) *BackupService {
	return &BackupService{repo: repo, now: time.Now}
}

// Export takes a full snapshot stamped with the schema version and the
// current time.
func (s *BackupService) Export(ctx context.Context) (*models.Backup, error) {
	b, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	b.Version = models.BackupVersion
	b.Timestamp = s.now().UTC().Format(time.RFC3339)
	return b, nil
}

// Import replaces the store with the snapshot. A version mismatch is
// rejected with models.ErrVersionMismatch before any write happens, and the
// repository restores within one transaction, so a failed import never
// leaves partial state behind.
func (s *BackupService) Import(ctx context.Context, b *models.Backup) error {
	if b.Version != models.BackupVersion {
		return models.ErrVersionMismatch
	}
	return s.repo.Restore(ctx, b)
}
