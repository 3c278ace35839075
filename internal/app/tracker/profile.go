package tracker

import (
	"context"
	"strings"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// Profile returns a copy of the user profile.
func (s *Store) Profile() models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Profile.Clone()
}

// ViewMode returns the persisted view selection.
func (s *Store) ViewMode() models.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.ViewMode
}

// UpdateProfile replaces the profile record.
func (s *Store) UpdateProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	profile = profile.Clone()
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Program = strings.TrimSpace(profile.Program)
	profile.MatriculationNumber = strings.TrimSpace(profile.MatriculationNumber)
	profile.DegreeType = strings.TrimSpace(profile.DegreeType)
	profile.EnrollmentDate = strings.TrimSpace(profile.EnrollmentDate)
	profile.TargetGraduation = blankToNil(profile.TargetGraduation)

	err := s.mutate(ctx, "profile.updated", func(snap *Snapshot) (bool, error) {
		snap.Profile = profile.Clone()
		return true, nil
	})
	return profile, err
}

// SetViewMode persists the dashboard view. Setting the current mode is a no-op.
func (s *Store) SetViewMode(ctx context.Context, mode models.ViewMode) error {
	if !mode.Valid() {
		return apperrors.ErrInvalidViewMode
	}
	return s.mutate(ctx, "view.changed", func(snap *Snapshot) (bool, error) {
		if snap.ViewMode == mode {
			return false, nil
		}
		snap.ViewMode = mode
		return true, nil
	})
}
