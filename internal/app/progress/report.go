package progress

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

// ReportOrder selects the grouping of the transcript report.
type ReportOrder string

const (
	ReportBySemester ReportOrder = "semester"
	ReportByArea     ReportOrder = "area"
)

// ParseReportOrder parses semester/area; empty means semester.
func ParseReportOrder(raw string) (ReportOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "semester":
		return ReportBySemester, nil
	case "area":
		return ReportByArea, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidReportOrder, raw)
}

// ReportEntry is one line of the transcript report.
type ReportEntry struct {
	Course   models.Course `json:"course"`
	AreaName string        `json:"areaName"`
	Grade    string        `json:"grade"`
}

// Report is the data behind the exported transcript document.
type Report struct {
	Order          ReportOrder   `json:"order"`
	Entries        []ReportEntry `json:"entries"`
	TotalECTS      int           `json:"totalEcts"`
	Average        *float64      `json:"average"`
	AverageDisplay string        `json:"averageDisplay"`
}

// BuildReport lists passed courses ordered by semester, then area position,
// then name (or area position, semester, name for ReportByArea). Courses
// whose area is unknown sort after every configured area.
func BuildReport(courses []models.Course, areas []models.Area, order ReportOrder) Report {
	areaIndex := make(map[string]int, len(areas))
	areaName := make(map[string]string, len(areas))
	for i, a := range areas {
		areaIndex[a.ID] = i
		areaName[a.ID] = a.Name
	}
	indexOf := func(id string) int {
		if i, ok := areaIndex[id]; ok {
			return i
		}
		return len(areas)
	}

	var passed []models.Course
	for _, c := range courses {
		if c.IsPassed() {
			passed = append(passed, c.Clone())
		}
	}

	byName := nameComparator()
	slices.SortStableFunc(passed, func(a, b models.Course) int {
		bySemester := cmp.Compare(a.Semester, b.Semester)
		byArea := cmp.Compare(indexOf(a.Area), indexOf(b.Area))
		first, second := bySemester, byArea
		if order == ReportByArea {
			first, second = byArea, bySemester
		}
		return cmp.Or(first, second, byName(a, b))
	})

	r := Report{Order: order, Entries: make([]ReportEntry, 0, len(passed))}
	for _, c := range passed {
		name, ok := areaName[c.Area]
		if !ok {
			name = c.Area
		}
		r.Entries = append(r.Entries, ReportEntry{Course: c, AreaName: name, Grade: FormatGrade(c.Grade)})
		r.TotalECTS += c.ECTS
	}
	r.Average = AveragePtr(passed)
	r.AverageDisplay = FormatGrade(r.Average)
	return r
}
