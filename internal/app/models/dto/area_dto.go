package dto

import (
	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
)

// AreaRequest is the body of area create and update
type AreaRequest struct {
	ID          string `json:"id,omitempty" binding:"max=128" example:"E: Electives"`
	Name        string `json:"name" binding:"required,max=200" example:"E: Electives"`
	Description string `json:"description" binding:"max=500"`
	Required    int    `json:"required" example:"10"`
	Color       string `json:"color,omitempty" example:"bg-red-500"`
	Behavior    string `json:"behavior" binding:"required" example:"standard"`
}

// ToInput converts the request to a mutation input
func (r AreaRequest) ToInput() tracker.AreaInput {
	behavior, err := models.ParseAreaBehavior(r.Behavior)
	if err != nil {
		behavior = models.AreaBehavior(r.Behavior)
	}
	return tracker.AreaInput{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Required:    r.Required,
		Color:       r.Color,
		Behavior:    behavior,
	}
}

// ReplaceAreasRequest swaps in a whole curriculum
type ReplaceAreasRequest struct {
	Areas []AreaRequest `json:"areas" binding:"required,dive"`
}

// Inputs converts every area of the request
func (r ReplaceAreasRequest) Inputs() []tracker.AreaInput {
	out := make([]tracker.AreaInput, 0, len(r.Areas))
	for _, a := range r.Areas {
		out = append(out, a.ToInput())
	}
	return out
}
