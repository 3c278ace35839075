package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/seed"
)

func grade(g float64) *float64 { return &g }
func str(s string) *string     { return &s }

func course(id, name string, ects, semester int, area string, status models.CourseStatus, g *float64) models.Course {
	return models.Course{ID: id, Name: name, ECTS: ects, Semester: semester, Area: area, Status: status, Grade: g}
}

func TestAggregationScenarios(t *testing.T) {
	// One graded seminar
	courses := []models.Course{
		course("1", "Seminar A", 10, 1, seed.AreaFoundation, models.StatusPassed, grade(1.7)),
	}
	assert.Equal(t, 10, TotalCreditsEarned(courses))
	avg, ok := WeightedAverage(courses)
	require.True(t, ok)
	assert.InDelta(t, 1.7, avg, 1e-9)

	// An ungraded passed course adds credits but stays out of the average
	courses = append(courses, course("2", "Seminar B", 5, 1, seed.AreaFoundation, models.StatusPassed, nil))
	assert.Equal(t, 15, TotalCreditsEarned(courses))
	avg, ok = WeightedAverage(courses)
	require.True(t, ok)
	assert.InDelta(t, 1.7, avg, 1e-9)
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name    string
		courses []models.Course
		want    float64
		ok      bool
	}{
		{name: "empty", courses: nil, ok: false},
		{
			name: "only planned and failed",
			courses: []models.Course{
				course("1", "a", 5, 1, "A", models.StatusPlanned, grade(1.0)),
				course("2", "b", 5, 1, "A", models.StatusFailed, grade(5.0)),
			},
			ok: false,
		},
		{
			name: "weighted by ects",
			courses: []models.Course{
				course("1", "a", 10, 1, "A", models.StatusPassed, grade(1.0)),
				course("2", "b", 5, 1, "A", models.StatusPassed, grade(4.0)),
			},
			want: 2.0,
			ok:   true,
		},
		{
			name: "zero credit courses fall back to mean",
			courses: []models.Course{
				course("1", "a", 0, 1, "A", models.StatusPassed, grade(1.0)),
				course("2", "b", 0, 1, "A", models.StatusPassed, grade(2.0)),
			},
			want: 1.5,
			ok:   true,
		},
		{
			name: "full precision",
			courses: []models.Course{
				course("1", "a", 5, 1, "A", models.StatusPassed, grade(2.0)),
				course("2", "b", 10, 1, "A", models.StatusPassed, grade(1.7)),
			},
			want: 1.8,
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WeightedAverage(tt.courses)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
				assert.GreaterOrEqual(t, got, 1.0)
				assert.LessOrEqual(t, got, 5.0)
			}
		})
	}
}

func TestThesisEligibility(t *testing.T) {
	courses := []models.Course{
		course("1", "Big module", 79, 1, "A", models.StatusPassed, nil),
	}
	status := Thesis(courses, 80)
	assert.False(t, status.Eligible)
	assert.Equal(t, 1, status.Shortfall)

	courses = append(courses, course("2", "Small module", 1, 2, "A", models.StatusPassed, nil))
	status = Thesis(courses, 80)
	assert.True(t, status.Eligible)
	assert.Equal(t, 0, status.Shortfall)
	assert.Equal(t, 80, status.Earned)
}

func TestEvaluateAreaGroups(t *testing.T) {
	area := seed.Areas()[2]
	require.Equal(t, models.BehaviorGroups, area.Behavior)

	courses := []models.Course{
		course("1", "Development Economics", 10, 2, area.ID, models.StatusPassed, grade(1.3)),
		course("2", "Politics of Aid", 10, 2, area.ID, models.StatusPassed, grade(2.0)),
		course("3", "Resource Governance", 5, 3, area.ID, models.StatusInProgress, nil),
		course("4", "Seminar elsewhere", 5, 3, seed.AreaFoundation, models.StatusPassed, nil),
	}
	courses[0].SubGroup = str("Economics")
	courses[1].SubGroup = str("Sociology and Politics")
	courses[2].SubGroup = str("Sustainability and Resources")

	p := EvaluateArea(area, courses, DefaultPolicy().Catalog)
	assert.Equal(t, 20, p.PassedCredits)
	assert.Equal(t, 5, p.PendingCredits)
	assert.Equal(t, 3, p.CourseCount)
	assert.Equal(t, 2, p.CompletedCourses)
	assert.False(t, p.IsComplete)
	assert.InDelta(t, 0.5, p.Fraction, 1e-9)

	require.NotNil(t, p.Groups)
	assert.Equal(t, 2, p.Groups.CoveredCount)
	assert.Equal(t, []string{"Economics", "Sociology and Politics"}, p.Groups.Distinct)
	assert.Equal(t, []string{"Economics", "Sociology and Politics"}, p.Groups.CatalogCovered)
	assert.False(t, p.Groups.MeetsTarget)
}

func TestEvaluateAreaGroupTargetIsAdvisory(t *testing.T) {
	area := models.Area{ID: "C", Required: 10, Behavior: models.BehaviorGroups}
	c := course("1", "Only one group", 10, 1, "C", models.StatusPassed, nil)
	c.SubGroup = str("Economics")

	p := EvaluateArea(area, []models.Course{c}, Catalog{Groups: seed.ModuleGroups, Target: 3})
	assert.True(t, p.IsComplete, "credit sum alone decides completion")
	assert.False(t, p.Groups.MeetsTarget)
}

func TestEvaluateAreaEmpty(t *testing.T) {
	p := EvaluateArea(models.Area{ID: "X", Required: 15, Behavior: models.BehaviorStandard}, nil, Catalog{})
	assert.Zero(t, p.PassedCredits)
	assert.Zero(t, p.PendingCredits)
	assert.False(t, p.IsComplete)
	assert.Nil(t, p.Groups)

	p = EvaluateArea(models.Area{ID: "Y", Required: 0, Behavior: models.BehaviorThesis}, nil, Catalog{})
	assert.True(t, p.IsComplete)
	assert.Equal(t, 1.0, p.Fraction)
}

func TestBuildOverview(t *testing.T) {
	courses := seed.Courses()
	courses = append(courses, course("3", "Colloquium I", 5, 2, seed.AreaResearch, models.StatusInProgress, nil))

	o := BuildOverview(courses, seed.Areas(), DefaultPolicy())
	assert.Equal(t, 15, o.TotalEarned)
	assert.Equal(t, 5, o.PendingCredits)
	assert.Equal(t, 105, o.Remaining)
	require.NotNil(t, o.Average)
	assert.InDelta(t, (2.0*5+1.7*10)/15, *o.Average, 1e-9)
	assert.Equal(t, "1.8", o.AverageDisplay)
	assert.Equal(t, 65, o.Thesis.Shortfall)
	assert.Equal(t, 2, o.StatusCounts[models.StatusPassed])
	assert.Equal(t, 0, o.StatusCounts[models.StatusFailed])
	assert.Len(t, o.Areas, 5)
	assert.True(t, o.Areas[0].IsComplete)
}

func TestSemesters(t *testing.T) {
	courses := []models.Course{
		course("1", "Zeta", 20, 2, "C: Specialisation", models.StatusPassed, grade(2.0)),
		course("2", "Alpha", 15, 2, "A: Foundation", models.StatusPlanned, nil),
		course("3", "Beta", 5, 1, "A: Foundation", models.StatusPassed, grade(1.0)),
		course("4", "Thesis", 25, 4, "Master Thesis", models.StatusPlanned, nil),
	}

	got := Semesters(courses)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{got[0].Semester, got[1].Semester, got[2].Semester})

	s2 := got[1]
	assert.Equal(t, 35, s2.TotalECTS)
	assert.Equal(t, 20, s2.PassedECTS)
	require.NotNil(t, s2.Average)
	assert.InDelta(t, 2.0, *s2.Average, 1e-9)
	assert.Equal(t, []AreaShare{{Prefix: "A", ECTS: 15}, {Prefix: "C", ECTS: 20}}, s2.Distribution)
	assert.Equal(t, "Alpha", s2.Courses[0].Name)
	assert.True(t, s2.HeavyLoad)

	assert.Nil(t, got[2].Average)
	assert.Equal(t, []AreaShare{{Prefix: "Master Thesis", ECTS: 25}}, got[2].Distribution)

	assert.Equal(t, []int{1, 2, 4}, AvailableSemesters(courses))
}

func TestExams(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	courses := []models.Course{
		course("1", "Later", 5, 1, "A", models.StatusPlanned, nil),
		course("2", "Soon", 5, 1, "A", models.StatusPlanned, nil),
		course("3", "Done", 5, 1, "A", models.StatusPassed, nil),
		course("4", "Now", 5, 1, "A", models.StatusPassed, nil),
		course("5", "No exam", 5, 1, "A", models.StatusPlanned, nil),
		course("6", "Tonight", 5, 1, "A", models.StatusPlanned, nil),
	}
	courses[0].ExamDate = at(10 * 24 * time.Hour)
	courses[1].ExamDate = at(30 * time.Hour)
	courses[2].ExamDate = at(-72 * time.Hour)
	courses[3].ExamDate = at(0)
	courses[5].ExamDate = at(2 * time.Hour)

	s := Exams(courses, now)
	require.Len(t, s.Upcoming, 3)
	assert.Equal(t, "Tonight", s.Upcoming[0].Course.Name)
	assert.Equal(t, 1, s.Upcoming[0].DaysUntil)
	assert.Equal(t, "Soon", s.Upcoming[1].Course.Name)
	assert.Equal(t, 2, s.Upcoming[1].DaysUntil)
	assert.Equal(t, "In 2 days", s.Upcoming[1].Label)
	assert.True(t, s.Upcoming[1].Urgent)
	assert.Equal(t, 10, s.Upcoming[2].DaysUntil)
	assert.False(t, s.Upcoming[2].Urgent)

	require.Len(t, s.Past, 2)
	assert.Equal(t, "Done", s.Past[0].Course.Name)
	assert.Equal(t, "3 days ago", s.Past[0].Label)
	assert.Equal(t, "Now", s.Past[1].Course.Name, "an exam at exactly now is past")
	assert.Equal(t, "Today", s.Past[1].Label)
}

func TestDaysLabel(t *testing.T) {
	assert.Equal(t, "Today", DaysLabel(0))
	assert.Equal(t, "Tomorrow", DaysLabel(1))
	assert.Equal(t, "In 5 days", DaysLabel(5))
	assert.Equal(t, "1 day ago", DaysLabel(-1))
}

func TestBuildReport(t *testing.T) {
	areas := seed.Areas()
	courses := []models.Course{
		course("1", "Research Methods", 5, 2, seed.AreaResearch, models.StatusPassed, grade(1.3)),
		course("2", "Theories", 5, 2, seed.AreaFoundation, models.StatusPassed, grade(2.0)),
		course("3", "Methods", 5, 1, seed.AreaResearch, models.StatusPassed, nil),
		course("4", "Planned", 5, 1, seed.AreaFoundation, models.StatusPlanned, nil),
		course("5", "Orphan", 5, 1, "gone", models.StatusPassed, nil),
	}

	bySemester := BuildReport(courses, areas, ReportBySemester)
	names := func(r Report) []string {
		var out []string
		for _, e := range r.Entries {
			out = append(out, e.Course.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Methods", "Orphan", "Theories", "Research Methods"}, names(bySemester))
	assert.Equal(t, 20, bySemester.TotalECTS)
	assert.Equal(t, "gone", bySemester.Entries[1].AreaName)
	assert.Equal(t, "—", bySemester.Entries[0].Grade)

	byArea := BuildReport(courses, areas, ReportByArea)
	assert.Equal(t, []string{"Theories", "Methods", "Research Methods", "Orphan"}, names(byArea))
}
