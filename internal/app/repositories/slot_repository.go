package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
)

// Slot keys
const (
	SlotCourses = "tracker_courses"
	SlotAreas   = "tracker_areas"
	SlotProfile = "tracker_profile"
	SlotView    = "tracker_view"
	SlotWeather = "tracker_weather"
)

// Slot error types
var (
	ErrSlotEmpty   = errors.New("slot is empty")
	ErrSlotCorrupt = errors.New("slot content is corrupt")
)

// SlotRepository reads and writes the tracker's independent persisted slots
type SlotRepository struct {
	store blobstore.Store
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(store blobstore.Store) *SlotRepository {
	return &SlotRepository{store: store}
}

// LoadJSON decodes the slot into v. A missing slot (or a literal null) gives
// ErrSlotEmpty, undecodable content gives ErrSlotCorrupt.
func (r *SlotRepository) LoadJSON(ctx context.Context, key string, v any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, blobstore.ErrNotFound) {
		return ErrSlotEmpty
	}
	if err != nil {
		return fmt.Errorf("error reading slot %s: %w", key, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrSlotEmpty
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSlotCorrupt, key, err)
	}
	return nil
}

// SaveJSON encodes v into the slot
func (r *SlotRepository) SaveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding slot %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("error writing slot %s: %w", key, err)
	}
	return nil
}

// LoadCourses reads the course slot
func (r *SlotRepository) LoadCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.LoadJSON(ctx, SlotCourses, &courses); err != nil {
		return nil, err
	}
	for i, c := range courses {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: %s: course %d has no id", ErrSlotCorrupt, SlotCourses, i)
		}
		if !c.Status.Valid() {
			return nil, fmt.Errorf("%w: %s: course %s has no valid status", ErrSlotCorrupt, SlotCourses, c.ID)
		}
	}
	return courses, nil
}

// LoadAreas reads the area slot
func (r *SlotRepository) LoadAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := r.LoadJSON(ctx, SlotAreas, &areas); err != nil {
		return nil, err
	}
	for i, a := range areas {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: %s: area %d has no id", ErrSlotCorrupt, SlotAreas, i)
		}
		// Areas saved before behaviors existed are plain credit buckets
		if a.Behavior == "" {
			areas[i].Behavior = models.BehaviorStandard
		}
	}
	return areas, nil
}

// LoadProfile reads the profile slot
func (r *SlotRepository) LoadProfile(ctx context.Context) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.LoadJSON(ctx, SlotProfile, &profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

// LoadViewMode reads the view mode slot
func (r *SlotRepository) LoadViewMode(ctx context.Context) (models.ViewMode, error) {
	var mode models.ViewMode
	if err := r.LoadJSON(ctx, SlotView, &mode); err != nil {
		return "", err
	}
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %s: unknown view mode %q", ErrSlotCorrupt, SlotView, mode)
	}
	return mode, nil
}

// SaveSnapshot writes the four tracker slots. Every slot is attempted; the
// returned error joins the individual failures.
func (r *SlotRepository) SaveSnapshot(ctx context.Context, courses []models.Course, areas []models.Area, profile models.UserProfile, mode models.ViewMode) error {
	if courses == nil {
		courses = []models.Course{}
	}
	if areas == nil {
		areas = []models.Area{}
	}
	return errors.Join(
		r.SaveJSON(ctx, SlotCourses, courses),
		r.SaveJSON(ctx, SlotAreas, areas),
		r.SaveJSON(ctx, SlotProfile, profile),
		r.SaveJSON(ctx, SlotView, mode),
	)
}

// Clear removes every tracker slot, including caches
func (r *SlotRepository) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{SlotCourses, SlotAreas, SlotProfile, SlotView, SlotWeather} {
		if err := r.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
