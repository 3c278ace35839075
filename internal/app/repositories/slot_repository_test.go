package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
)

func TestSlotRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository(blobstore.NewMemory())

	grade := 1.3
	courses := []models.Course{{ID: "c1", Name: "Econometrics", ECTS: 5, Semester: 2, Area: "B", Status: models.StatusPassed, Grade: &grade}}
	areas := []models.Area{{ID: "B", Name: "Research", Required: 25, Behavior: models.BehaviorStandard}}
	profile := models.UserProfile{FullName: "Ada Lovelace", Program: "M.A."}

	require.NoError(t, repo.SaveSnapshot(ctx, courses, areas, profile, models.ViewTimetable))

	gotCourses, err := repo.LoadCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, courses, gotCourses)

	gotAreas, err := repo.LoadAreas(ctx)
	require.NoError(t, err)
	assert.Equal(t, areas, gotAreas)

	gotProfile, err := repo.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, gotProfile)

	mode, err := repo.LoadViewMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ViewTimetable, mode)
}

func TestSlotRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()
	repo := NewSlotRepository(store)

	_, err := repo.LoadCourses(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, store.Put(ctx, SlotCourses, []byte("null")))
	_, err = repo.LoadCourses(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, store.Put(ctx, SlotCourses, []byte("{not json")))
	_, err = repo.LoadCourses(ctx)
	assert.ErrorIs(t, err, ErrSlotCorrupt)

	require.NoError(t, store.Put(ctx, SlotCourses, []byte(`[{"id":"1","status":"Graduated"}]`)))
	_, err = repo.LoadCourses(ctx)
	assert.ErrorIs(t, err, ErrSlotCorrupt)

	require.NoError(t, store.Put(ctx, SlotAreas, []byte(`[{"id":"X","behavior":"bonus"}]`)))
	_, err = repo.LoadAreas(ctx)
	assert.ErrorIs(t, err, ErrSlotCorrupt)

	require.NoError(t, store.Put(ctx, SlotView, []byte(`"kanban"`)))
	_, err = repo.LoadViewMode(ctx)
	assert.ErrorIs(t, err, ErrSlotCorrupt)

	// An empty list is a valid state, not a missing slot
	require.NoError(t, store.Put(ctx, SlotCourses, []byte(`[]`)))
	courses, err := repo.LoadCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestSlotRepositoryClear(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()
	repo := NewSlotRepository(store)

	require.NoError(t, repo.SaveSnapshot(ctx, nil, nil, models.UserProfile{}, models.ViewAnalytics))
	require.NoError(t, repo.SaveJSON(ctx, SlotWeather, map[string]any{"temp": 10}))
	require.NoError(t, repo.Clear(ctx))

	for _, key := range []string{SlotCourses, SlotAreas, SlotProfile, SlotView, SlotWeather} {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, blobstore.ErrNotFound, key)
	}
}
