package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/progress"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// CourseService handles course operations
type CourseService struct {
	store  *tracker.Store
	logger zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(store *tracker.Store, lgr zerolog.Logger) *CourseService {
	return &CourseService{
		store:  store,
		logger: lgr,
	}
}

// ParseQuery builds a list query from raw request parameters
func (s *CourseService) ParseQuery(sort, order, semester, area string) (progress.Query, error) {
	field, err := progress.ParseSortField(sort)
	if err != nil {
		return progress.Query{}, err
	}
	dir, err := progress.ParseSortOrder(order)
	if err != nil {
		return progress.Query{}, err
	}
	sem, err := progress.ParseSemesterFilter(semester)
	if err != nil {
		return progress.Query{}, err
	}
	return progress.Query{Field: field, Order: dir, Semester: sem, Area: area}, nil
}

// List returns the filtered, sorted course list
func (s *CourseService) List(q progress.Query) []models.Course {
	return progress.SortCourses(s.store.Courses(), q)
}

// Count returns the number of stored courses
func (s *CourseService) Count() int {
	return len(s.store.Courses())
}

// Get returns one course
func (s *CourseService) Get(id string) (models.Course, error) {
	course, ok := s.store.Course(id)
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// Create adds a course
func (s *CourseService) Create(ctx context.Context, in tracker.CourseInput) (models.Course, error) {
	course, err := s.store.CreateCourse(ctx, in)
	if err != nil {
		s.logger.Debug().Err(err).Str("name", in.Name).Msg("Course rejected")
		return models.Course{}, err
	}
	s.logger.Info().Str("id", course.ID).Str("name", course.Name).Msg("Course created")
	return course, nil
}

// Update replaces the editable fields of a course
func (s *CourseService) Update(ctx context.Context, id string, in tracker.CourseInput) (models.Course, error) {
	course, err := s.store.UpdateCourse(ctx, id, in)
	if err != nil {
		s.logger.Debug().Err(err).Str("id", id).Msg("Course update rejected")
		return models.Course{}, err
	}
	s.logger.Info().Str("id", id).Msg("Course updated")
	return course, nil
}

// Delete removes a course
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Course deleted")
	return nil
}

// SetStatus changes only the status of a course. Common spellings such as
// "in_progress" are accepted.
func (s *CourseService) SetStatus(ctx context.Context, id, raw string) (models.Course, error) {
	status, err := models.ParseCourseStatus(raw)
	if err != nil {
		return models.Course{}, apperrors.ErrInvalidStatus
	}
	return s.store.SetCourseStatus(ctx, id, status)
}

// Import appends externally produced records
func (s *CourseService) Import(ctx context.Context, partials []models.PartialCourse) ([]models.Course, error) {
	imported, err := s.store.ImportCourses(ctx, partials)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(imported)).Msg("Courses imported")
	return imported, nil
}
