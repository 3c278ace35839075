package progress

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/yigit/unitrack/internal/app/models"
)

// UrgentDays marks exams close enough to be highlighted.
const UrgentDays = 7

// ExamEntry is one scheduled or past exam.
type ExamEntry struct {
	Course    models.Course `json:"course"`
	DaysUntil int           `json:"daysUntil"`
	Label     string        `json:"label"`
	Urgent    bool          `json:"urgent"`
}

// ExamSchedule splits exams around the current instant.
type ExamSchedule struct {
	Upcoming []ExamEntry `json:"upcoming"`
	Past     []ExamEntry `json:"past"`
}

// Exams partitions courses with an exam date into upcoming (strictly after
// now) and past (at or before now), both ascending by date.
func Exams(courses []models.Course, now time.Time) ExamSchedule {
	schedule := ExamSchedule{Upcoming: []ExamEntry{}, Past: []ExamEntry{}}
	for _, c := range courses {
		if c.ExamDate == nil {
			continue
		}
		days := DaysUntil(*c.ExamDate, now)
		entry := ExamEntry{Course: c.Clone(), DaysUntil: days, Label: DaysLabel(days)}
		if c.ExamDate.After(now) {
			entry.Urgent = days <= UrgentDays
			schedule.Upcoming = append(schedule.Upcoming, entry)
		} else {
			schedule.Past = append(schedule.Past, entry)
		}
	}

	byDate := func(a, b ExamEntry) int {
		return a.Course.ExamDate.Compare(*b.Course.ExamDate)
	}
	slices.SortStableFunc(schedule.Upcoming, byDate)
	slices.SortStableFunc(schedule.Past, byDate)
	return schedule
}

// DaysUntil is the ceiling of the distance from now to t in whole days.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// DaysLabel renders a DaysUntil value.
func DaysLabel(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "1 day ago"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	}
	return fmt.Sprintf("In %d days", days)
}
