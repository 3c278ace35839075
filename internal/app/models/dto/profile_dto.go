package dto

import (
	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
)

// ProfileRequest replaces the user profile. Images are base64 encoded.
type ProfileRequest struct {
	FullName            string  `json:"fullName" binding:"max=200" example:"Ada Lovelace"`
	Program             string  `json:"program" binding:"max=200" example:"M.A. Development Studies"`
	MatriculationNumber string  `json:"matriculationNumber" binding:"max=64"`
	DegreeType          string  `json:"degreeType" binding:"max=200" example:"Master of Arts"`
	EnrollmentDate      string  `json:"enrollmentDate" binding:"max=64" example:"2024-10-01"`
	TargetGraduation    *string `json:"targetGraduation,omitempty" example:"2026-09-30"`
	ProfilePicture      []byte  `json:"profilePicture,omitempty"`
	UniversityLogo      []byte  `json:"universityLogo,omitempty"`
}

// ToModel converts the request to a profile
func (r ProfileRequest) ToModel() models.UserProfile {
	return models.UserProfile{
		FullName:            r.FullName,
		Program:             r.Program,
		MatriculationNumber: r.MatriculationNumber,
		DegreeType:          r.DegreeType,
		EnrollmentDate:      r.EnrollmentDate,
		TargetGraduation:    r.TargetGraduation,
		ProfilePicture:      r.ProfilePicture,
		UniversityLogo:      r.UniversityLogo,
	}
}

// ProfileResponse is the profile plus derived display fields
type ProfileResponse struct {
	models.UserProfile
	Initials string `json:"initials" example:"AL"`
}

// ViewModeRequest selects the dashboard view
type ViewModeRequest struct {
	ViewMode string `json:"viewMode" binding:"required,oneof=analytics curriculum timetable" example:"curriculum"`
}

// ViewModeResponse reports the dashboard view
type ViewModeResponse struct {
	ViewMode models.ViewMode `json:"viewMode" example:"analytics"`
}

// StatusResponse reports persistence state and store size
type StatusResponse struct {
	Save     tracker.SaveStatus `json:"save"`
	Courses  int                `json:"courses"`
	Areas    int                `json:"areas"`
	ViewMode models.ViewMode    `json:"viewMode"`
}
