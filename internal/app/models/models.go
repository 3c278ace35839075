package models

import (
	"fmt"
	"strings"
)

// CourseStatus is the lifecycle stage of a course. Every status is reachable
// from every other one; there is no terminal state.
type CourseStatus string

const (
	StatusPlanned    CourseStatus = "Planned"
	StatusInProgress CourseStatus = "In Progress"
	StatusPassed     CourseStatus = "Passed"
	StatusFailed     CourseStatus = "Failed"
)

// CourseStatuses lists the statuses in display order.
var CourseStatuses = []CourseStatus{StatusPlanned, StatusInProgress, StatusPassed, StatusFailed}

// Valid reports whether s is one of the known statuses.
func (s CourseStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusPassed, StatusFailed:
		return true
	}
	return false
}

// ParseCourseStatus accepts the wire value as well as a few relaxed
// spellings ("in_progress", "passed").
func ParseCourseStatus(raw string) (CourseStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	switch normalized {
	case "planned":
		return StatusPlanned, nil
	case "in progress", "inprogress":
		return StatusInProgress, nil
	case "passed":
		return StatusPassed, nil
	case "failed":
		return StatusFailed, nil
	}
	return "", fmt.Errorf("unknown course status %q", raw)
}

// UnmarshalText rejects unknown statuses so that corrupt records never reach
// the engines.
func (s *CourseStatus) UnmarshalText(text []byte) error {
	status, err := ParseCourseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// AreaBehavior selects the completion-rule variant applied to an area.
type AreaBehavior string

const (
	BehaviorStandard AreaBehavior = "standard"
	BehaviorGroups   AreaBehavior = "groups"
	BehaviorThesis   AreaBehavior = "thesis"
)

// Valid reports whether b is a known behavior.
func (b AreaBehavior) Valid() bool {
	switch b {
	case BehaviorStandard, BehaviorGroups, BehaviorThesis:
		return true
	}
	return false
}

// ParseAreaBehavior parses a behavior tag, case-insensitively.
func ParseAreaBehavior(raw string) (AreaBehavior, error) {
	b := AreaBehavior(strings.ToLower(strings.TrimSpace(raw)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown area behavior %q", raw)
	}
	return b, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *AreaBehavior) UnmarshalText(text []byte) error {
	behavior, err := ParseAreaBehavior(string(text))
	if err != nil {
		return err
	}
	*b = behavior
	return nil
}

// ViewMode is the persisted dashboard view selection.
type ViewMode string

const (
	ViewAnalytics  ViewMode = "analytics"
	ViewCurriculum ViewMode = "curriculum"
	ViewTimetable  ViewMode = "timetable"
)

// DefaultViewMode is used when nothing (or garbage) is persisted.
const DefaultViewMode = ViewAnalytics

// Valid reports whether v is a known view mode.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewAnalytics, ViewCurriculum, ViewTimetable:
		return true
	}
	return false
}
