package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// Export produces the portable backup document of the current state.
func (s *Store) Export() models.Backup {
	snap := s.Snapshot()
	if snap.Courses == nil {
		snap.Courses = []models.Course{}
	}
	if snap.Areas == nil {
		snap.Areas = []models.Area{}
	}
	return models.Backup{
		UserProfile: snap.Profile,
		Courses:     snap.Courses,
		Areas:       snap.Areas,
		ExportedAt:  s.now().UTC(),
		Version:     models.BackupVersion,
	}
}

// Restore replaces profile, courses and areas with the backup content. The
// view mode is kept. Courses without an id get one.
func (s *Store) Restore(ctx context.Context, backup models.Backup) error {
	if backup.Version != models.BackupVersion {
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedBackup, backup.Version)
	}
	for _, a := range backup.Areas {
		if a.ID == "" {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "backup contains an area without id")
		}
		if !a.Behavior.Valid() {
			return apperrors.ErrInvalidBehavior
		}
	}
	courses := models.CloneCourses(backup.Courses)
	for i := range courses {
		if courses[i].ID == "" {
			courses[i].ID = uuid.NewString()
		}
		if !courses[i].Status.Valid() {
			return apperrors.ErrInvalidStatus
		}
	}
	if courses == nil {
		courses = []models.Course{}
	}
	areas := models.CloneAreas(backup.Areas)
	if areas == nil {
		areas = []models.Area{}
	}
	profile := backup.UserProfile.Clone()

	return s.mutate(ctx, "backup.restored", func(snap *Snapshot) (bool, error) {
		snap.Courses = courses
		snap.Areas = areas
		snap.Profile = profile
		return true, nil
	})
}

// Reset discards all data and returns to the built-in defaults.
func (s *Store) Reset(ctx context.Context) error {
	return s.mutate(ctx, "data.reset", func(snap *Snapshot) (bool, error) {
		*snap = DefaultSnapshot()
		return true, nil
	})
}
