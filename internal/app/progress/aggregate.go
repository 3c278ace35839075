package progress

import (
	"fmt"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/seed"
)

// Policy holds the program-wide thresholds.
type Policy struct {
	ThesisThreshold int
	TotalRequired   int
	Catalog         Catalog
}

// DefaultPolicy is the policy of the default curriculum.
func DefaultPolicy() Policy {
	return Policy{
		ThesisThreshold: 80,
		TotalRequired:   120,
		Catalog:         Catalog{Groups: seed.ModuleGroups, Target: 3},
	}
}

// TotalCreditsEarned sums the credits of passed courses.
func TotalCreditsEarned(courses []models.Course) int {
	total := 0
	for _, c := range courses {
		if c.Status == models.StatusPassed {
			total += c.ECTS
		}
	}
	return total
}

// PendingCredits sums the credits of courses in progress.
func PendingCredits(courses []models.Course) int {
	total := 0
	for _, c := range courses {
		if c.Status == models.StatusInProgress {
			total += c.ECTS
		}
	}
	return total
}

// WeightedAverage is the ECTS-weighted grade over passed, graded courses.
// ok is false when no such course exists. If every qualifying course
// carries zero credits the plain mean is returned instead.
func WeightedAverage(courses []models.Course) (avg float64, ok bool) {
	var weighted, plain float64
	credits, n := 0, 0
	for _, c := range courses {
		if c.Status != models.StatusPassed || c.Grade == nil {
			continue
		}
		weighted += *c.Grade * float64(c.ECTS)
		plain += *c.Grade
		credits += c.ECTS
		n++
	}
	if n == 0 {
		return 0, false
	}
	if credits == 0 {
		return plain / float64(n), true
	}
	return weighted / float64(credits), true
}

// AveragePtr is WeightedAverage as an optional value for JSON output.
func AveragePtr(courses []models.Course) *float64 {
	avg, ok := WeightedAverage(courses)
	if !ok {
		return nil
	}
	return &avg
}

// FormatGrade renders a grade with one decimal, or "—" when absent.
func FormatGrade(g *float64) string {
	if g == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f", *g)
}

// ThesisStatus is the program-wide registration gate.
type ThesisStatus struct {
	Eligible  bool `json:"eligible"`
	Threshold int  `json:"threshold"`
	Earned    int  `json:"earned"`
	Shortfall int  `json:"shortfall"`
}

// Thesis checks earned credits against the registration threshold.
func Thesis(courses []models.Course, threshold int) ThesisStatus {
	earned := TotalCreditsEarned(courses)
	s := ThesisStatus{
		Eligible:  earned >= threshold,
		Threshold: threshold,
		Earned:    earned,
	}
	if !s.Eligible {
		s.Shortfall = threshold - earned
	}
	return s
}

// Overview is the analytics dashboard summary.
type Overview struct {
	TotalEarned      int                         `json:"totalEarned"`
	PendingCredits   int                         `json:"pendingCredits"`
	TotalRequired    int                         `json:"totalRequired"`
	Remaining        int                         `json:"remaining"`
	ProgressFraction float64                     `json:"progressFraction"`
	Average          *float64                    `json:"average"`
	AverageDisplay   string                      `json:"averageDisplay"`
	Thesis           ThesisStatus                `json:"thesis"`
	CourseCount      int                         `json:"courseCount"`
	StatusCounts     map[models.CourseStatus]int `json:"statusCounts"`
	Areas            []AreaProgress              `json:"areas"`
}

// BuildOverview computes the dashboard summary.
func BuildOverview(courses []models.Course, areas []models.Area, policy Policy) Overview {
	earned := TotalCreditsEarned(courses)
	avg := AveragePtr(courses)

	counts := make(map[models.CourseStatus]int, len(models.CourseStatuses))
	for _, s := range models.CourseStatuses {
		counts[s] = 0
	}
	for _, c := range courses {
		counts[c.Status]++
	}

	return Overview{
		TotalEarned:      earned,
		PendingCredits:   PendingCredits(courses),
		TotalRequired:    policy.TotalRequired,
		Remaining:        max(0, policy.TotalRequired-earned),
		ProgressFraction: fraction(earned, policy.TotalRequired),
		Average:          avg,
		AverageDisplay:   FormatGrade(avg),
		Thesis:           Thesis(courses, policy.ThesisThreshold),
		CourseCount:      len(courses),
		StatusCounts:     counts,
		Areas:            EvaluateAreas(areas, courses, policy.Catalog),
	}
}
