package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/validation"
	"github.com/yigit/unitrack/internal/seed"
)

// CustomAreaPrefix starts generated area ids.
const CustomAreaPrefix = "custom_"

// AreaInput is the editable part of an area. ID is only read on create.
type AreaInput struct {
	ID          string
	Name        string
	Description string
	Required    int
	Color       string
	Behavior    models.AreaBehavior
}

// CreateArea adds an area. An empty id is generated; a taken id is rejected.
// Area names need not be unique.
func (s *Store) CreateArea(ctx context.Context, in AreaInput) (models.Area, error) {
	var created models.Area
	err := s.mutate(ctx, "area.created", func(snap *Snapshot) (bool, error) {
		area, err := buildArea(in, len(snap.Areas))
		if err != nil {
			return false, err
		}
		if models.FindArea(snap.Areas, area.ID) >= 0 {
			return false, apperrors.ErrAreaAlreadyExists
		}
		snap.Areas = append(snap.Areas, area)
		created = area
		return true, nil
	})
	return created, err
}

// UpdateArea changes the metadata of an area. The id never changes.
func (s *Store) UpdateArea(ctx context.Context, id string, in AreaInput) (models.Area, error) {
	var updated models.Area
	err := s.mutate(ctx, "area.updated", func(snap *Snapshot) (bool, error) {
		i := models.FindArea(snap.Areas, id)
		if i < 0 {
			return false, apperrors.ErrAreaNotFound
		}
		in.ID = id
		if in.Color == "" {
			in.Color = snap.Areas[i].Color
		}
		area, err := buildArea(in, i)
		if err != nil {
			return false, err
		}
		snap.Areas[i] = area
		updated = area
		return true, nil
	})
	return updated, err
}

// DeleteArea removes an area that no course references.
func (s *Store) DeleteArea(ctx context.Context, id string) error {
	return s.mutate(ctx, "area.deleted", func(snap *Snapshot) (bool, error) {
		i := models.FindArea(snap.Areas, id)
		if i < 0 {
			return false, apperrors.ErrAreaNotFound
		}
		if n := countReferences(snap.Courses, id); n > 0 {
			return false, &apperrors.AreaInUseError{AreaID: id, Count: n}
		}
		snap.Areas = append(snap.Areas[:i:i], snap.Areas[i+1:]...)
		return true, nil
	})
}

// ReplaceAreas swaps in a whole curriculum. It is rejected when an id
// repeats or when any course would be left pointing at a removed area.
func (s *Store) ReplaceAreas(ctx context.Context, inputs []AreaInput) ([]models.Area, error) {
	var result []models.Area
	err := s.mutate(ctx, "areas.replaced", func(snap *Snapshot) (bool, error) {
		areas := make([]models.Area, 0, len(inputs))
		seen := make(map[string]struct{}, len(inputs))
		for i, in := range inputs {
			area, err := buildArea(in, i)
			if err != nil {
				return false, err
			}
			if _, dup := seen[area.ID]; dup {
				return false, apperrors.ErrAreaAlreadyExists
			}
			seen[area.ID] = struct{}{}
			areas = append(areas, area)
		}

		missing := make(map[string]int)
		for _, c := range snap.Courses {
			if _, ok := seen[c.Area]; !ok {
				missing[c.Area]++
			}
		}
		if len(missing) > 0 {
			ids := make([]string, 0, len(missing))
			total := 0
			for id, n := range missing {
				ids = append(ids, id)
				total += n
			}
			slices.Sort(ids)
			return false, &apperrors.AreaInUseError{AreaID: strings.Join(ids, ", "), Count: total}
		}

		snap.Areas = areas
		result = models.CloneAreas(areas)
		return true, nil
	})
	return result, err
}

// CountCoursesInArea reports how many courses reference id.
func (s *Store) CountCoursesInArea(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countReferences(s.snap.Courses, id)
}

func buildArea(in AreaInput, position int) (models.Area, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Area{}, apperrors.ErrAreaNameRequired
	}
	if !validation.NonNegative(in.Required) {
		return models.Area{}, apperrors.ErrInvalidRequired
	}
	if !in.Behavior.Valid() {
		return models.Area{}, apperrors.ErrInvalidBehavior
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = CustomAreaPrefix + uuid.NewString()
	}
	color := in.Color
	if color == "" {
		color = seed.AreaColors[position%len(seed.AreaColors)]
	}

	return models.Area{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Required:    in.Required,
		Color:       color,
		Behavior:    in.Behavior,
	}, nil
}

func countReferences(courses []models.Course, areaID string) int {
	n := 0
	for _, c := range courses {
		if c.Area == areaID {
			n++
		}
	}
	return n
}
