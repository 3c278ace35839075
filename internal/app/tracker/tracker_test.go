package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/repositories"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/blobstore"
	"github.com/yigit/unitrack/internal/seed"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *blobstore.Memory) {
	t.Helper()
	mem := blobstore.NewMemory()
	store := New(repositories.NewSlotRepository(mem), opts...)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Load(context.Background()))
	return store, mem
}

func ptr[T any](v T) *T { return &v }

func seminar(name string, ects int, g *float64) CourseInput {
	return CourseInput{
		Name:     name,
		ECTS:     ects,
		Semester: 1,
		Area:     seed.AreaFoundation,
		Status:   models.StatusPassed,
		Grade:    g,
	}
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	snap := store.Snapshot()
	assert.Equal(t, seed.Courses(), snap.Courses)
	assert.Equal(t, seed.Areas(), snap.Areas)
	assert.Equal(t, seed.DefaultProgram, snap.Profile.Program)
	assert.Equal(t, models.ViewAnalytics, snap.ViewMode)
}

func TestLoadFallsBackPerSlot(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemory()
	require.NoError(t, mem.Put(ctx, repositories.SlotCourses, []byte(`[{"id":"x","name":"Kept","ects":5,"semester":2,"area":"A: Foundation","status":"Passed"}]`)))
	require.NoError(t, mem.Put(ctx, repositories.SlotAreas, []byte(`{{corrupt`)))
	require.NoError(t, mem.Put(ctx, repositories.SlotProfile, []byte(`{"fullName":"Grace"}`)))
	require.NoError(t, mem.Put(ctx, repositories.SlotView, []byte(`"spreadsheet"`)))

	store := New(repositories.NewSlotRepository(mem))
	defer store.Close()
	require.NoError(t, store.Load(ctx))

	snap := store.Snapshot()
	require.Len(t, snap.Courses, 1)
	assert.Equal(t, "Kept", snap.Courses[0].Name)
	assert.Equal(t, seed.Areas(), snap.Areas, "corrupt areas fall back to defaults")
	assert.Equal(t, "Grace", snap.Profile.FullName)
	assert.Equal(t, models.ViewAnalytics, snap.ViewMode, "unknown view falls back to analytics")
}

func TestSnapshotIsDetached(t *testing.T) {
	store, _ := newTestStore(t)
	snap := store.Snapshot()
	snap.Courses[0].Name = "mutated"
	*snap.Courses[0].Grade = 5.0
	snap.Areas[0].Required = 999

	fresh := store.Snapshot()
	assert.Equal(t, seed.Courses(), fresh.Courses)
	assert.Equal(t, seed.Areas(), fresh.Areas)
}

func TestCreateCourseScenarios(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.Restore(ctx, models.Backup{Version: models.BackupVersion, Areas: seed.Areas()}))

	a, err := store.CreateCourse(ctx, seminar("Seminar A", 10, ptr(1.7)))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)

	_, err = store.CreateCourse(ctx, seminar("Seminar B", 5, nil))
	require.NoError(t, err)

	_, err = store.CreateCourse(ctx, seminar("  seminar a ", 5, nil))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCourseName)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Len(t, store.Courses(), 2)
}

func TestCourseValidationOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	existing := seed.Courses()[0].Name

	tests := []struct {
		name string
		in   CourseInput
		want error
	}{
		{
			name: "semester checked before duplicate and area",
			in:   CourseInput{Name: existing, Semester: 13, Area: "nope", Status: models.StatusPlanned},
			want: apperrors.ErrSemesterOutOfRange,
		},
		{
			name: "zero semester",
			in:   CourseInput{Name: "New", Semester: 0, Area: seed.AreaResearch, Status: models.StatusPlanned},
			want: apperrors.ErrSemesterOutOfRange,
		},
		{
			name: "duplicate checked before area",
			in:   CourseInput{Name: existing, Semester: 1, Area: "nope", Status: models.StatusPlanned},
			want: apperrors.ErrDuplicateCourseName,
		},
		{
			name: "unknown area",
			in:   CourseInput{Name: "New", Semester: 1, Area: "nope", Status: models.StatusPlanned},
			want: apperrors.ErrInvalidArea,
		},
		{
			name: "blank name",
			in:   CourseInput{Name: "   ", Semester: 1, Area: seed.AreaResearch, Status: models.StatusPlanned},
			want: apperrors.ErrCourseNameRequired,
		},
		{
			name: "negative ects",
			in:   CourseInput{Name: "New", ECTS: -5, Semester: 1, Area: seed.AreaResearch, Status: models.StatusPlanned},
			want: apperrors.ErrInvalidECTS,
		},
		{
			name: "grade off scale",
			in:   CourseInput{Name: "New", Semester: 1, Area: seed.AreaResearch, Status: models.StatusPassed, Grade: ptr(0.7)},
			want: apperrors.ErrGradeOutOfRange,
		},
		{
			name: "unknown status",
			in:   CourseInput{Name: "New", Semester: 1, Area: seed.AreaResearch, Status: "Graduated"},
			want: apperrors.ErrInvalidStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := store.Snapshot()
			_, err := store.CreateCourse(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
			if diff := cmp.Diff(before, store.Snapshot()); diff != "" {
				t.Fatalf("rejected create changed the store:\n%s", diff)
			}
		})
	}
}

func TestCreateCourseNormalizesOptionals(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	plain, err := store.CreateCourse(ctx, CourseInput{
		Name: "Colloquium I", ECTS: 5, Semester: 2, Area: seed.AreaResearch,
		Status: models.StatusPlanned, SubGroup: ptr("Economics"), ExamDate: &time.Time{},
	})
	require.NoError(t, err)
	assert.Nil(t, plain.SubGroup, "sub-group dropped outside groups areas")
	assert.Nil(t, plain.ExamDate, "zero exam date stored as absent")
	assert.Nil(t, plain.Grade)

	grouped, err := store.CreateCourse(ctx, CourseInput{
		Name: "Development Economics", ECTS: 10, Semester: 2, Area: seed.AreaSpecialisation,
		Status: models.StatusPassed, SubGroup: ptr("  Economics "),
	})
	require.NoError(t, err)
	require.NotNil(t, grouped.SubGroup)
	assert.Equal(t, "Economics", *grouped.SubGroup)

	blank, err := store.CreateCourse(ctx, CourseInput{
		Name: "Field Study", ECTS: 10, Semester: 3, Area: seed.AreaSpecialisation,
		Status: models.StatusPlanned, SubGroup: ptr("  "),
	})
	require.NoError(t, err)
	assert.Nil(t, blank.SubGroup)
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	first := seed.Courses()[0]

	// Keeping its own name is not a duplicate
	in := CourseInput{Name: first.Name, ECTS: 6, Semester: 2, Area: first.Area, Status: models.StatusInProgress}
	updated, err := store.UpdateCourse(ctx, first.ID, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 6, updated.ECTS)
	assert.Nil(t, updated.Grade)

	// Renaming onto another course is
	in.Name = seed.Courses()[1].Name
	_, err = store.UpdateCourse(ctx, first.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCourseName)

	_, err = store.UpdateCourse(ctx, "missing", in)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.DeleteCourse(ctx, "1"))
	assert.Len(t, store.Courses(), 1)
	assert.ErrorIs(t, store.DeleteCourse(ctx, "1"), apperrors.ErrCourseNotFound)
}

func TestSetCourseStatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	require.NoError(t, store.Flush(ctx))

	var events []EventType
	var mu sync.Mutex
	store.OnChange(func(e Event) {
		mu.Lock()
		events = append(events, e.Type)
		mu.Unlock()
	})

	before, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)

	course, err := store.SetCourseStatus(ctx, "1", models.StatusPassed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, course.Status)

	after, err := json.Marshal(store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	require.NoError(t, store.Flush(ctx))
	mu.Lock()
	assert.Empty(t, events, "no-op status change must not notify or persist")
	mu.Unlock()
	_, err = mem.Get(ctx, repositories.SlotCourses)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	// Every status is reachable from every other one
	for _, from := range models.CourseStatuses {
		for _, to := range models.CourseStatuses {
			_, err := store.SetCourseStatus(ctx, "1", from)
			require.NoError(t, err)
			got, err := store.SetCourseStatus(ctx, "1", to)
			require.NoError(t, err)
			assert.Equal(t, to, got.Status)
		}
	}

	c, _ := store.Course("1")
	assert.Equal(t, seed.Courses()[0].Name, c.Name, "status change leaves other fields alone")

	_, err = store.SetCourseStatus(ctx, "1", "Graduated")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	_, err = store.SetCourseStatus(ctx, "missing", models.StatusFailed)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestImportCoursesDefaults(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	planned := models.StatusPlanned
	imported, err := store.ImportCourses(ctx, []models.PartialCourse{
		{},
		{Name: ptr(seed.Courses()[0].Name), ECTS: ptr(5), Semester: ptr(14), Status: &planned, Grade: ptr(9.0)},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)

	d := imported[0]
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, ImportDefaultName, d.Name)
	assert.Equal(t, 0, d.ECTS)
	assert.Equal(t, 1, d.Semester)
	assert.Equal(t, seed.AreaFoundation, d.Area)
	assert.Equal(t, models.StatusPassed, d.Status)

	// Batches bypass duplicate and range checks
	dup := imported[1]
	assert.Equal(t, 14, dup.Semester)
	assert.Equal(t, models.StatusPlanned, dup.Status)
	assert.NotEqual(t, d.ID, dup.ID)
	assert.Len(t, store.Courses(), 4)
}

func TestImportUsesFirstConfiguredArea(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.ReplaceAreas(ctx, []AreaInput{
		{ID: "Z", Name: "Zeta", Required: 10, Behavior: models.BehaviorStandard},
		{ID: seed.AreaFoundation, Name: "A", Required: 15, Behavior: models.BehaviorStandard},
	})
	require.NoError(t, err)

	imported, err := store.ImportCourses(ctx, []models.PartialCourse{{Name: ptr("Transcript row")}})
	require.NoError(t, err)
	assert.Equal(t, "Z", imported[0].Area)

	none, err := store.ImportCourses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAreaReferentialIntegrity(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	err := store.DeleteArea(ctx, seed.AreaFoundation)
	var inUse *apperrors.AreaInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.Count)
	assert.ErrorIs(t, err, apperrors.ErrAreaInUse)
	assert.Len(t, store.Areas(), 5)

	require.NoError(t, store.DeleteArea(ctx, seed.AreaTransfer))
	assert.Len(t, store.Areas(), 4)
	assert.ErrorIs(t, store.DeleteArea(ctx, seed.AreaTransfer), apperrors.ErrAreaNotFound)
}

func TestCreateAndUpdateArea(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	created, err := store.CreateArea(ctx, AreaInput{Name: "E: Electives", Required: 10, Behavior: models.BehaviorStandard})
	require.NoError(t, err)
	assert.Contains(t, created.ID, CustomAreaPrefix)
	assert.Equal(t, seed.AreaColors[5], created.Color)

	// Names may repeat, ids may not
	_, err = store.CreateArea(ctx, AreaInput{Name: "E: Electives", Required: 5, Behavior: models.BehaviorStandard})
	require.NoError(t, err)
	_, err = store.CreateArea(ctx, AreaInput{ID: seed.AreaResearch, Name: "Dup", Behavior: models.BehaviorStandard})
	assert.ErrorIs(t, err, apperrors.ErrAreaAlreadyExists)

	_, err = store.CreateArea(ctx, AreaInput{Name: "Bad", Behavior: "bonus"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidBehavior)
	_, err = store.CreateArea(ctx, AreaInput{Name: "Bad", Required: -1, Behavior: models.BehaviorStandard})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequired)

	updated, err := store.UpdateArea(ctx, created.ID, AreaInput{ID: "ignored", Name: "E: Free Electives", Required: 12, Behavior: models.BehaviorGroups})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Color, updated.Color)
	assert.Equal(t, models.BehaviorGroups, updated.Behavior)

	_, err = store.UpdateArea(ctx, "missing", AreaInput{Name: "x", Behavior: models.BehaviorStandard})
	assert.ErrorIs(t, err, apperrors.ErrAreaNotFound)
}

func TestReplaceAreasRejectsOrphans(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	before := store.Areas()

	_, err := store.ReplaceAreas(ctx, []AreaInput{{ID: "X", Name: "X", Behavior: models.BehaviorStandard}})
	var inUse *apperrors.AreaInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.Count)
	assert.Equal(t, before, store.Areas())

	_, err = store.ReplaceAreas(ctx, []AreaInput{
		{ID: seed.AreaFoundation, Name: "A", Behavior: models.BehaviorStandard},
		{ID: seed.AreaFoundation, Name: "A again", Behavior: models.BehaviorStandard},
	})
	assert.ErrorIs(t, err, apperrors.ErrAreaAlreadyExists)
}

func TestProfileAndViewMode(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	p, err := store.UpdateProfile(ctx, models.UserProfile{FullName: "  Ada Lovelace ", TargetGraduation: ptr(" ")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Nil(t, p.TargetGraduation)
	assert.Equal(t, "AL", store.Profile().Initials())

	require.NoError(t, store.SetViewMode(ctx, models.ViewTimetable))
	assert.Equal(t, models.ViewTimetable, store.ViewMode())
	assert.ErrorIs(t, store.SetViewMode(ctx, "kanban"), apperrors.ErrInvalidViewMode)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, WithClock(func() time.Time { return clock }))

	exam := time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC)
	_, err := store.CreateCourse(ctx, CourseInput{
		Name: "Econ", ECTS: 10, Semester: 2, Area: seed.AreaSpecialisation, Status: models.StatusInProgress,
		SubGroup: ptr("Economics"), ExamDate: &exam,
	})
	require.NoError(t, err)
	_, err = store.UpdateProfile(ctx, models.UserProfile{FullName: "Ada", ProfilePicture: []byte{0x89, 0x50}})
	require.NoError(t, err)

	backup := store.Export()
	assert.Equal(t, "1.0", backup.Version)
	assert.Equal(t, clock, backup.ExportedAt)

	// Through JSON, as a downloaded file would be
	raw, err := json.Marshal(backup)
	require.NoError(t, err)
	var decoded models.Backup
	require.NoError(t, json.Unmarshal(raw, &decoded))

	want := store.Snapshot()
	require.NoError(t, store.Reset(ctx))
	require.NotEqual(t, want.Courses, store.Courses())

	require.NoError(t, store.Restore(ctx, decoded))
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	decoded.Version = "2.0"
	assert.ErrorIs(t, store.Restore(ctx, decoded), apperrors.ErrUnsupportedBackup)
}

func TestPersistenceWritesLatestState(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	for i, name := range []string{"One", "Two", "Three"} {
		_, err := store.CreateCourse(ctx, CourseInput{Name: name, ECTS: i, Semester: 1, Area: seed.AreaResearch, Status: models.StatusPlanned})
		require.NoError(t, err)
	}
	require.NoError(t, store.Flush(ctx))

	reloaded := New(repositories.NewSlotRepository(mem))
	defer reloaded.Close()
	require.NoError(t, reloaded.Load(ctx))
	if diff := cmp.Diff(store.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Fatalf("persisted state differs (-memory +reloaded):\n%s", diff)
	}

	status := store.SaveStatus()
	assert.False(t, status.Saving)
	assert.Zero(t, status.PendingWrites)
	assert.NotNil(t, status.LastSavedAt)
	assert.Empty(t, status.LastError)
}

type failingRepo struct {
	*repositories.SlotRepository
}

func (failingRepo) SaveSnapshot(context.Context, []models.Course, []models.Area, models.UserProfile, models.ViewMode) error {
	return errors.New("disk full")
}

func TestPersistenceFailureIsNotAMutationFailure(t *testing.T) {
	ctx := context.Background()
	store := New(failingRepo{repositories.NewSlotRepository(blobstore.NewMemory())})
	defer store.Close()
	require.NoError(t, store.Load(ctx))

	failed := make(chan Event, 4)
	store.OnChange(func(e Event) {
		if e.Type == EventSaveFailed {
			failed <- e
		}
	})

	_, err := store.CreateCourse(ctx, seminar("Still works", 5, nil))
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx))

	select {
	case e := <-failed:
		assert.Equal(t, "disk full", e.Error)
	case <-time.After(time.Second):
		t.Fatal("expected a save.failed event")
	}

	assert.Len(t, store.Courses(), 3, "in-memory state stays authoritative")
	status := store.SaveStatus()
	assert.Equal(t, "disk full", status.LastError)
	assert.NotNil(t, status.LastErrorAt)
	assert.Nil(t, status.LastSavedAt)
}

func TestSaveIndicatorMinimumDisplay(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	store, _ := newTestStore(t, WithClock(clock), WithSaveIndicatorDelay(500*time.Millisecond))

	assert.False(t, store.SaveStatus().Saving)

	_, err := store.CreateCourse(ctx, seminar("Fresh", 5, nil))
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx))
	assert.True(t, store.SaveStatus().Saving, "indicator stays on for the minimum delay")

	mu.Lock()
	now = now.Add(time.Second)
	mu.Unlock()
	assert.False(t, store.SaveStatus().Saving)
}

func TestCloseStopsWriter(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemory()
	store := New(repositories.NewSlotRepository(mem))
	require.NoError(t, store.Load(ctx))

	_, err := store.CreateCourse(ctx, seminar("Before close", 5, nil))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	// The pending write was drained on close
	_, err = mem.Get(ctx, repositories.SlotCourses)
	require.NoError(t, err)

	// Later mutations still apply in memory
	_, err = store.CreateCourse(ctx, seminar("After close", 5, nil))
	require.NoError(t, err)
	assert.Len(t, store.Courses(), 4)
	require.NoError(t, store.Flush(ctx))
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.CreateCourse(ctx, CourseInput{
				Name: "Parallel", ECTS: i, Semester: 1, Area: seed.AreaResearch, Status: models.StatusPlanned,
			})
		}(i)
	}
	wg.Wait()

	// Exactly one of the identically named creates wins
	count := 0
	for _, c := range store.Courses() {
		if c.Name == "Parallel" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	require.NoError(t, store.Flush(ctx))
}
