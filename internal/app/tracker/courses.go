package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/validation"
)

// CourseInput is the editable part of a course.
type CourseInput struct {
	Name     string
	ECTS     int
	Semester int
	Area     string
	Status   models.CourseStatus
	Grade    *float64
	SubGroup *string
	ExamDate *time.Time
}

// CreateCourse validates the input against the current state and appends a
// new course with a fresh id.
func (s *Store) CreateCourse(ctx context.Context, in CourseInput) (models.Course, error) {
	var created models.Course
	err := s.mutate(ctx, "course.created", func(snap *Snapshot) (bool, error) {
		course, err := buildCourse(snap, in, "")
		if err != nil {
			return false, err
		}
		course.ID = uuid.NewString()
		snap.Courses = append(snap.Courses, course)
		created = course.Clone()
		return true, nil
	})
	return created, err
}

// UpdateCourse replaces every editable field of an existing course. The id
// is preserved.
func (s *Store) UpdateCourse(ctx context.Context, id string, in CourseInput) (models.Course, error) {
	var updated models.Course
	err := s.mutate(ctx, "course.updated", func(snap *Snapshot) (bool, error) {
		i := indexOfCourse(snap.Courses, id)
		if i < 0 {
			return false, apperrors.ErrCourseNotFound
		}
		course, err := buildCourse(snap, in, id)
		if err != nil {
			return false, err
		}
		course.ID = id
		snap.Courses[i] = course
		updated = course.Clone()
		return true, nil
	})
	return updated, err
}

// DeleteCourse removes a course. Nothing references courses, so no further
// checks apply.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.mutate(ctx, "course.deleted", func(snap *Snapshot) (bool, error) {
		i := indexOfCourse(snap.Courses, id)
		if i < 0 {
			return false, apperrors.ErrCourseNotFound
		}
		snap.Courses = append(snap.Courses[:i:i], snap.Courses[i+1:]...)
		return true, nil
	})
}

// SetCourseStatus changes only the status of one course. The rest of the
// record is not re-validated. Setting the current status is a no-op and
// does not trigger a save.
func (s *Store) SetCourseStatus(ctx context.Context, id string, status models.CourseStatus) (models.Course, error) {
	var result models.Course
	err := s.mutate(ctx, "course.status", func(snap *Snapshot) (bool, error) {
		if !status.Valid() {
			return false, apperrors.ErrInvalidStatus
		}
		i := indexOfCourse(snap.Courses, id)
		if i < 0 {
			return false, apperrors.ErrCourseNotFound
		}
		if snap.Courses[i].Status == status {
			result = snap.Courses[i].Clone()
			return false, nil
		}
		snap.Courses[i].Status = status
		result = snap.Courses[i].Clone()
		return true, nil
	})
	return result, err
}

// buildCourse validates in against snap and returns the normalized record.
// selfID excludes the edited course from the duplicate-name check.
func buildCourse(snap *Snapshot, in CourseInput, selfID string) (models.Course, error) {
	name := strings.TrimSpace(in.Name)

	if !validation.ValidSemester(in.Semester) {
		return models.Course{}, apperrors.ErrSemesterOutOfRange
	}

	key := models.NormalizeName(name)
	for _, c := range snap.Courses {
		if c.ID != selfID && c.NameKey() == key {
			return models.Course{}, apperrors.ErrDuplicateCourseName
		}
	}

	areaIdx := models.FindArea(snap.Areas, in.Area)
	if areaIdx < 0 {
		return models.Course{}, apperrors.ErrInvalidArea
	}

	if name == "" {
		return models.Course{}, apperrors.ErrCourseNameRequired
	}
	if !validation.NonNegative(in.ECTS) {
		return models.Course{}, apperrors.ErrInvalidECTS
	}
	if in.Grade != nil && !validation.ValidGrade(*in.Grade) {
		return models.Course{}, apperrors.ErrGradeOutOfRange
	}
	if !in.Status.Valid() {
		return models.Course{}, apperrors.ErrInvalidStatus
	}

	course := models.Course{
		Name:     name,
		ECTS:     in.ECTS,
		Semester: in.Semester,
		Area:     in.Area,
		Status:   in.Status,
		Grade:    copyFloat(in.Grade),
		ExamDate: copyTime(in.ExamDate),
	}
	if snap.Areas[areaIdx].Behavior == models.BehaviorGroups {
		course.SubGroup = blankToNil(in.SubGroup)
	}
	return course, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyTime(v *time.Time) *time.Time {
	if v == nil || v.IsZero() {
		return nil
	}
	out := *v
	return &out
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
