// Package seed holds the built-in defaults a fresh tracker starts from and
// falls back to when a persisted slot is missing or unreadable.
package seed

import (
	"github.com/yigit/unitrack/internal/app/models"
)

// Default area ids
const (
	AreaFoundation     = "A: Foundation"
	AreaResearch       = "B: Research"
	AreaSpecialisation = "C: Specialisation"
	AreaTransfer       = "D: Transfer"
	AreaThesis         = "Master Thesis"
)

// Program defaults
const (
	DefaultProgram    = "M.A. Development Studies"
	DefaultDegreeType = "Master of Arts"
)

// ModuleGroups is the default catalog of expected sub-groups for the
// specialisation area.
var ModuleGroups = []string{
	"Economics",
	"Southeast Asian Studies",
	"Sociology and Politics",
	"Sustainability and Resources",
	"Geographies of Development",
}

// AreaColors is the palette offered for new areas.
var AreaColors = []string{
	"bg-orange-500",
	"bg-blue-500",
	"bg-emerald-500",
	"bg-purple-500",
	"bg-slate-700",
	"bg-red-500",
	"bg-pink-500",
	"bg-cyan-500",
	"bg-yellow-500",
	"bg-indigo-500",
}

// Areas returns a fresh copy of the default curriculum.
func Areas() []models.Area {
	return []models.Area{
		{
			ID:          AreaFoundation,
			Name:        "A: Foundation",
			Required:    15,
			Description: "Methods, Theories, Interdisciplinary Seminar",
			Color:       "bg-orange-500",
			Behavior:    models.BehaviorStandard,
		},
		{
			ID:          AreaResearch,
			Name:        "B: Research",
			Required:    25,
			Description: "Methods, Colloquium I & II, Seminar",
			Color:       "bg-blue-500",
			Behavior:    models.BehaviorStandard,
		},
		{
			ID:          AreaSpecialisation,
			Name:        "C: Specialisation",
			Required:    40,
			Description: "Must cover at least 3 of 5 module groups",
			Color:       "bg-emerald-500",
			Behavior:    models.BehaviorGroups,
		},
		{
			ID:          AreaTransfer,
			Name:        "D: Transfer",
			Required:    15,
			Description: "Internship/Project, Languages",
			Color:       "bg-purple-500",
			Behavior:    models.BehaviorStandard,
		},
		{
			ID:          AreaThesis,
			Name:        "Master Thesis",
			Required:    25,
			Description: "Requires 80 ECTS to register",
			Color:       "bg-slate-700",
			Behavior:    models.BehaviorThesis,
		},
	}
}

// Courses returns a fresh copy of the example course list.
func Courses() []models.Course {
	grade1, grade2 := 2.0, 1.7
	return []models.Course{
		{
			ID:       "1",
			Name:     "Methods and Theories of Development Research",
			ECTS:     5,
			Semester: 1,
			Area:     AreaFoundation,
			Status:   models.StatusPassed,
			Grade:    &grade1,
		},
		{
			ID:       "2",
			Name:     "Interdisciplinary Development Seminar",
			ECTS:     10,
			Semester: 1,
			Area:     AreaFoundation,
			Status:   models.StatusPassed,
			Grade:    &grade2,
		},
	}
}

// Profile returns the empty profile with the default program.
func Profile() models.UserProfile {
	return models.UserProfile{
		Program:    DefaultProgram,
		DegreeType: DefaultDegreeType,
	}
}

// FirstAreaID is the id used when an import names no area and no areas exist.
func FirstAreaID() string {
	return AreaFoundation
}
