package models

import (
	"strings"
	"time"
)

// Course represents a single academic unit the student has taken or plans to take.
type Course struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	ECTS     int          `json:"ects"`
	Semester int          `json:"semester"`
	Area     string       `json:"area"` // References Area.ID
	Status   CourseStatus `json:"status"`

	// Optional fields. nil means absent, which is not the same as zero.
	Grade    *float64   `json:"grade,omitempty"`
	SubGroup *string    `json:"subGroup,omitempty"` // Only meaningful for "groups" areas
	ExamDate *time.Time `json:"examDate,omitempty"`
}

// IsPassed reports whether the course counts towards earned credits.
func (c Course) IsPassed() bool {
	return c.Status == StatusPassed
}

// HasGrade reports whether a result exists.
func (c Course) HasGrade() bool {
	return c.Grade != nil
}

// NameKey is the normalized form used for the uniqueness check.
func (c Course) NameKey() string {
	return NormalizeName(c.Name)
}

// Clone returns a deep copy; the optional fields are re-allocated so that the
// copy never aliases the original.
func (c Course) Clone() Course {
	out := c
	if c.Grade != nil {
		g := *c.Grade
		out.Grade = &g
	}
	if c.SubGroup != nil {
		s := *c.SubGroup
		out.SubGroup = &s
	}
	if c.ExamDate != nil {
		d := *c.ExamDate
		out.ExamDate = &d
	}
	return out
}

// NormalizeName trims and case-folds a course name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CloneCourses deep-copies a course slice.
func CloneCourses(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, len(courses))
	for i, c := range courses {
		out[i] = c.Clone()
	}
	return out
}

// PartialCourse is a course record as produced by an external transcription
// service: every field may be missing.
type PartialCourse struct {
	Name     *string       `json:"name,omitempty"`
	ECTS     *int          `json:"ects,omitempty"`
	Semester *int          `json:"semester,omitempty"`
	Area     *string       `json:"area,omitempty"`
	Status   *CourseStatus `json:"status,omitempty"`
	Grade    *float64      `json:"grade,omitempty"`
	SubGroup *string       `json:"subGroup,omitempty"`
	ExamDate *time.Time    `json:"examDate,omitempty"`
}
