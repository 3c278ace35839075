package models

import "strings"

// Area is a degree requirement bucket with a credit target and a rule variant.
type Area struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Required    int          `json:"required"`
	Color       string       `json:"color"` // Display-only tag
	Behavior    AreaBehavior `json:"behavior"`
}

// Prefix returns the leading token of the area id before the first ':'
// ("A: Foundation" -> "A"). Ids without a separator are returned unchanged.
func (a Area) Prefix() string {
	return AreaPrefix(a.ID)
}

// AreaPrefix is Prefix for a bare area id.
func AreaPrefix(id string) string {
	if i := strings.Index(id, ":"); i >= 0 {
		return strings.TrimSpace(id[:i])
	}
	return id
}

// CloneAreas copies an area slice.
func CloneAreas(areas []Area) []Area {
	if areas == nil {
		return nil
	}
	out := make([]Area, len(areas))
	copy(out, areas)
	return out
}

// FindArea returns the index of the area with the given id, or -1.
func FindArea(areas []Area, id string) int {
	for i, a := range areas {
		if a.ID == id {
			return i
		}
	}
	return -1
}
