// Package progress derives degree progress from a course list. Every
// function here is pure: inputs are never mutated and results depend only
// on the arguments.
package progress

import (
	"slices"
	"strings"

	"github.com/yigit/unitrack/internal/app/models"
)

// Catalog is the expected sub-group list of a groups-behavior area plus the
// number of distinct groups the curriculum asks for.
type Catalog struct {
	Groups []string
	Target int
}

// GroupCoverage reports which sub-groups the passed courses of an area cover.
// MeetsTarget is a hint for display; it never affects completion.
type GroupCoverage struct {
	Distinct       []string `json:"distinct"`
	CoveredCount   int      `json:"coveredCount"`
	Catalog        []string `json:"catalog"`
	CatalogCovered []string `json:"catalogCovered"`
	Target         int      `json:"target"`
	MeetsTarget    bool     `json:"meetsTarget"`
}

// AreaProgress is the evaluation of one area.
type AreaProgress struct {
	Area             models.Area    `json:"area"`
	PassedCredits    int            `json:"passedCredits"`
	PendingCredits   int            `json:"pendingCredits"`
	Required         int            `json:"required"`
	IsComplete       bool           `json:"isComplete"`
	Fraction         float64        `json:"fraction"`
	CourseCount      int            `json:"courseCount"`
	CompletedCourses int            `json:"completedCourses"`
	Groups           *GroupCoverage `json:"groups,omitempty"`
}

// EvaluateArea applies the area's completion rule to the courses assigned to it.
// Courses belonging to other areas are ignored.
func EvaluateArea(area models.Area, courses []models.Course, catalog Catalog) AreaProgress {
	p := AreaProgress{Area: area, Required: area.Required}

	var passed []models.Course
	for _, c := range courses {
		if c.Area != area.ID {
			continue
		}
		p.CourseCount++
		switch c.Status {
		case models.StatusPassed:
			p.PassedCredits += c.ECTS
			p.CompletedCourses++
			passed = append(passed, c)
		case models.StatusInProgress:
			p.PendingCredits += c.ECTS
		}
	}

	p.IsComplete = p.PassedCredits >= area.Required
	p.Fraction = fraction(p.PassedCredits, area.Required)

	switch area.Behavior {
	case models.BehaviorGroups:
		p.Groups = groupCoverage(passed, catalog)
	case models.BehaviorStandard, models.BehaviorThesis:
		// Credit sum only. Thesis eligibility is program-wide, see Thesis.
	}

	return p
}

// EvaluateAreas evaluates every area in curriculum order.
func EvaluateAreas(areas []models.Area, courses []models.Course, catalog Catalog) []AreaProgress {
	out := make([]AreaProgress, 0, len(areas))
	for _, a := range areas {
		out = append(out, EvaluateArea(a, courses, catalog))
	}
	return out
}

func groupCoverage(passed []models.Course, catalog Catalog) *GroupCoverage {
	seen := make(map[string]struct{})
	distinct := []string{}
	for _, c := range passed {
		if c.SubGroup == nil {
			continue
		}
		g := strings.TrimSpace(*c.SubGroup)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		distinct = append(distinct, g)
	}
	slices.Sort(distinct)

	covered := []string{}
	for _, want := range catalog.Groups {
		for _, got := range distinct {
			if strings.EqualFold(want, got) {
				covered = append(covered, want)
				break
			}
		}
	}

	return &GroupCoverage{
		Distinct:       distinct,
		CoveredCount:   len(distinct),
		Catalog:        slices.Clone(catalog.Groups),
		CatalogCovered: covered,
		Target:         catalog.Target,
		MeetsTarget:    len(distinct) >= catalog.Target,
	}
}

// fraction is part/whole clamped to [0, 1]; a zero target counts as done.
func fraction(part, whole int) float64 {
	if whole <= 0 {
		return 1
	}
	f := float64(part) / float64(whole)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
