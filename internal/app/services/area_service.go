package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/progress"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// AreaService handles module area operations
type AreaService struct {
	store  *tracker.Store
	policy progress.Policy
	logger zerolog.Logger
}

// NewAreaService creates a new area service instance
func NewAreaService(store *tracker.Store, policy progress.Policy, lgr zerolog.Logger) *AreaService {
	return &AreaService{
		store:  store,
		policy: policy,
		logger: lgr,
	}
}

// List returns the configured areas in curriculum order
func (s *AreaService) List() []models.Area {
	return s.store.Areas()
}

// Create adds an area
func (s *AreaService) Create(ctx context.Context, in tracker.AreaInput) (models.Area, error) {
	area, err := s.store.CreateArea(ctx, in)
	if err != nil {
		return models.Area{}, err
	}
	s.logger.Info().Str("id", area.ID).Str("behavior", string(area.Behavior)).Msg("Area created")
	return area, nil
}

// Update changes an area's metadata
func (s *AreaService) Update(ctx context.Context, id string, in tracker.AreaInput) (models.Area, error) {
	return s.store.UpdateArea(ctx, id, in)
}

// Replace swaps in a whole curriculum
func (s *AreaService) Replace(ctx context.Context, inputs []tracker.AreaInput) ([]models.Area, error) {
	areas, err := s.store.ReplaceAreas(ctx, inputs)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(areas)).Msg("Curriculum replaced")
	return areas, nil
}

// Delete removes an unreferenced area
func (s *AreaService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteArea(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Area deleted")
	return nil
}

// Progress evaluates every area against the current course list
func (s *AreaService) Progress() []progress.AreaProgress {
	snap := s.store.Snapshot()
	return progress.EvaluateAreas(snap.Areas, snap.Courses, s.policy.Catalog)
}

// ProgressOf evaluates one area
func (s *AreaService) ProgressOf(id string) (progress.AreaProgress, error) {
	snap := s.store.Snapshot()
	i := models.FindArea(snap.Areas, id)
	if i < 0 {
		return progress.AreaProgress{}, apperrors.ErrAreaNotFound
	}
	return progress.EvaluateArea(snap.Areas[i], snap.Courses, s.policy.Catalog), nil
}
