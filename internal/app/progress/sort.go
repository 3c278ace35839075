package progress

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// SortField selects the primary comparator.
type SortField string

const (
	SortByName     SortField = "name"
	SortBySemester SortField = "semester"
	SortByECTS     SortField = "ects"
	SortByGrade    SortField = "grade"
	SortByExamDate SortField = "examDate"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Query describes a filtered, ordered view of the course list.
type Query struct {
	Field    SortField
	Order    SortOrder
	Semester *int   // nil keeps every semester
	Area     string // empty keeps every area
}

// DefaultQuery sorts by semester ascending without filters.
func DefaultQuery() Query {
	return Query{Field: SortBySemester, Order: Asc}
}

// SortCourses returns a filtered, sorted copy of courses. Ties on the primary
// field resolve by name ascending, also when the order is desc. The sort is
// stable so fully equal records keep their input order.
func SortCourses(courses []models.Course, q Query) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if q.Semester != nil && c.Semester != *q.Semester {
			continue
		}
		if q.Area != "" && c.Area != q.Area {
			continue
		}
		out = append(out, c.Clone())
	}

	byName := nameComparator()

	primary := primaryComparator(q.Field, byName)
	sign := 1
	if q.Order == Desc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b models.Course) int {
		if c := primary(a, b); c != 0 {
			return sign * c
		}
		return byName(a, b)
	})
	return out
}

func primaryComparator(field SortField, byName func(a, b models.Course) int) func(a, b models.Course) int {
	switch field {
	case SortBySemester:
		return func(a, b models.Course) int { return cmp.Compare(a.Semester, b.Semester) }
	case SortByECTS:
		return func(a, b models.Course) int { return cmp.Compare(a.ECTS, b.ECTS) }
	case SortByGrade:
		return func(a, b models.Course) int { return cmp.Compare(gradeKey(a), gradeKey(b)) }
	case SortByExamDate:
		return func(a, b models.Course) int {
			switch {
			case a.ExamDate == nil && b.ExamDate == nil:
				return 0
			case a.ExamDate == nil:
				return 1
			case b.ExamDate == nil:
				return -1
			}
			return a.ExamDate.Compare(*b.ExamDate)
		}
	}
	return byName
}

// gradeKey places ungraded courses after every real grade.
func gradeKey(c models.Course) float64 {
	if c.Grade == nil {
		return math.Inf(1)
	}
	return *c.Grade
}

// ParseSortField parses a field name; empty means semester.
func ParseSortField(raw string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return SortBySemester, nil
	case "name":
		return SortByName, nil
	case "semester":
		return SortBySemester, nil
	case "ects", "credits":
		return SortByECTS, nil
	case "grade":
		return SortByGrade, nil
	case "examdate", "exam_date", "exam":
		return SortByExamDate, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSortField, raw)
}

// ParseSortOrder parses asc/desc; empty means asc.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSortOrder, raw)
}

// ParseSemesterFilter accepts "all" (or empty) for no filter, or a semester number.
func ParseSemesterFilter(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidSemesterArg, raw)
	}
	return &n, nil
}

// nameComparator orders courses by name with locale-aware collation. A
// collator keeps internal buffers, so each sort gets its own.
func nameComparator() func(a, b models.Course) int {
	col := collate.New(language.Und)
	return func(a, b models.Course) int {
		return col.CompareString(a.Name, b.Name)
	}
}
