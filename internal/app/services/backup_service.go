package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
)

// SlotClearer removes every persisted slot
type SlotClearer interface {
	Clear(ctx context.Context) error
}

// BackupService handles export, restore and reset of the whole record
type BackupService struct {
	store  *tracker.Store
	slots  SlotClearer
	logger zerolog.Logger
}

// NewBackupService creates a new backup service instance. slots may be nil.
func NewBackupService(store *tracker.Store, slots SlotClearer, lgr zerolog.Logger) *BackupService {
	return &BackupService{
		store:  store,
		slots:  slots,
		logger: lgr,
	}
}

// Export returns the backup document and its suggested file name
func (s *BackupService) Export() (models.Backup, string) {
	backup := s.store.Export()
	return backup, models.BackupFileName(backup.ExportedAt)
}

// Restore replaces the record with a backup document
func (s *BackupService) Restore(ctx context.Context, backup models.Backup) error {
	if err := s.store.Restore(ctx, backup); err != nil {
		s.logger.Warn().Err(err).Str("version", backup.Version).Msg("Backup rejected")
		return err
	}
	s.logger.Info().Int("courses", len(backup.Courses)).Int("areas", len(backup.Areas)).Msg("Backup restored")
	return nil
}

// Reset clears every stored value, cached lookups included, and restores
// the defaults
func (s *BackupService) Reset(ctx context.Context) error {
	if s.slots != nil {
		// Pending writes land before the slots are wiped
		if err := s.store.Flush(ctx); err != nil {
			return err
		}
		if err := s.slots.Clear(ctx); err != nil {
			return err
		}
	}
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.logger.Warn().Msg("All data reset to defaults")
	return nil
}
