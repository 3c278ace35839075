package tracker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/seed"
)

// Import defaults
const (
	ImportDefaultName     = "Unknown Course"
	ImportDefaultSemester = 1
	ImportDefaultECTS     = 0
	ImportDefaultStatus   = models.StatusPassed
)

// ImportCourses appends externally produced course records. Missing fields
// get defaults and every record gets a fresh id. Imported records skip the
// duplicate-name and range checks of CreateCourse, so a batch is taken as is.
func (s *Store) ImportCourses(ctx context.Context, partials []models.PartialCourse) ([]models.Course, error) {
	var imported []models.Course
	err := s.mutate(ctx, "course.imported", func(snap *Snapshot) (bool, error) {
		if len(partials) == 0 {
			return false, nil
		}
		defaultArea := seed.FirstAreaID()
		if len(snap.Areas) > 0 {
			defaultArea = snap.Areas[0].ID
		}
		for _, p := range partials {
			c := fromPartial(p, defaultArea)
			c.ID = uuid.NewString()
			snap.Courses = append(snap.Courses, c)
			imported = append(imported, c.Clone())
		}
		return true, nil
	})
	if imported == nil {
		imported = []models.Course{}
	}
	return imported, err
}

func fromPartial(p models.PartialCourse, defaultArea string) models.Course {
	c := models.Course{
		Name:     ImportDefaultName,
		ECTS:     ImportDefaultECTS,
		Semester: ImportDefaultSemester,
		Area:     defaultArea,
		Status:   ImportDefaultStatus,
		Grade:    copyFloat(p.Grade),
		SubGroup: blankToNil(p.SubGroup),
		ExamDate: copyTime(p.ExamDate),
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.ECTS != nil {
		c.ECTS = *p.ECTS
	}
	if p.Semester != nil {
		c.Semester = *p.Semester
	}
	if p.Area != nil && strings.TrimSpace(*p.Area) != "" {
		c.Area = strings.TrimSpace(*p.Area)
	}
	if p.Status != nil && p.Status.Valid() {
		c.Status = *p.Status
	}
	return c
}
