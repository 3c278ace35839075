package progress

import (
	"slices"

	"github.com/yigit/unitrack/internal/app/models"
)

// HeavyLoadECTS is the per-semester credit load above which a semester is flagged.
const HeavyLoadECTS = 30

// AreaShare is the credit volume of one area prefix within a semester.
type AreaShare struct {
	Prefix string `json:"prefix"`
	ECTS   int    `json:"ects"`
}

// SemesterSummary groups the courses of one semester.
type SemesterSummary struct {
	Semester     int             `json:"semester"`
	TotalECTS    int             `json:"totalEcts"`
	PassedECTS   int             `json:"passedEcts"`
	Average      *float64        `json:"average"`
	Distribution []AreaShare     `json:"distribution"`
	Courses      []models.Course `json:"courses"`
	HeavyLoad    bool            `json:"heavyLoad"`
}

// Semesters partitions courses by semester, ascending. Distribution counts
// every course regardless of status.
func Semesters(courses []models.Course) []SemesterSummary {
	bySemester := make(map[int][]models.Course)
	for _, c := range courses {
		bySemester[c.Semester] = append(bySemester[c.Semester], c.Clone())
	}

	byName := nameComparator()
	out := make([]SemesterSummary, 0, len(bySemester))
	for _, sem := range sortedKeys(bySemester) {
		list := bySemester[sem]
		s := SemesterSummary{
			Semester:   sem,
			PassedECTS: TotalCreditsEarned(list),
			Average:    AveragePtr(list),
		}

		shares := make(map[string]int)
		for _, c := range list {
			s.TotalECTS += c.ECTS
			shares[models.AreaPrefix(c.Area)] += c.ECTS
		}
		for _, prefix := range sortedKeys(shares) {
			s.Distribution = append(s.Distribution, AreaShare{Prefix: prefix, ECTS: shares[prefix]})
		}

		slices.SortStableFunc(list, byName)
		s.Courses = list
		s.HeavyLoad = s.TotalECTS > HeavyLoadECTS
		out = append(out, s)
	}
	return out
}

// AvailableSemesters lists the distinct semesters in use, ascending.
func AvailableSemesters(courses []models.Course) []int {
	seen := make(map[int]struct{})
	for _, c := range courses {
		seen[c.Semester] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
