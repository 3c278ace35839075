package models

import (
	"bytes"
	"strings"
	"time"
)

// UserProfile is the single student record shown on the dashboard and in reports.
type UserProfile struct {
	FullName            string  `json:"fullName"`
	Program             string  `json:"program"`
	MatriculationNumber string  `json:"matriculationNumber"`
	DegreeType          string  `json:"degreeType"`
	EnrollmentDate      string  `json:"enrollmentDate"`
	TargetGraduation    *string `json:"targetGraduation,omitempty"`

	// Images are stored inline; encoding/json renders them as base64.
	ProfilePicture []byte `json:"profilePicture,omitempty"`
	UniversityLogo []byte `json:"universityLogo,omitempty"`
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.TargetGraduation != nil {
		t := *p.TargetGraduation
		out.TargetGraduation = &t
	}
	out.ProfilePicture = bytes.Clone(p.ProfilePicture)
	out.UniversityLogo = bytes.Clone(p.UniversityLogo)
	return out
}

// Initials returns up to two upper-case initials of the full name, or "?".
func (p UserProfile) Initials() string {
	var out []rune
	inWord := false
	for _, r := range p.FullName {
		if r == ' ' || r == '\t' {
			inWord = false
			continue
		}
		if !inWord {
			out = append(out, r)
			inWord = true
			if len(out) == 2 {
				break
			}
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return strings.ToUpper(string(out))
}

// BackupVersion is the only backup document version the tracker produces and accepts.
const BackupVersion = "1.0"

// Backup is the portable export document.
type Backup struct {
	UserProfile UserProfile `json:"userProfile"`
	Courses     []Course    `json:"courses"`
	Areas       []Area      `json:"areas"`
	ExportedAt  time.Time   `json:"exportedAt"`
	Version     string      `json:"version"`
}

// BackupFileName returns the suggested download name for a backup taken at t.
func BackupFileName(t time.Time) string {
	return "unitrack_backup_" + t.Format("2006-01-02") + ".json"
}
