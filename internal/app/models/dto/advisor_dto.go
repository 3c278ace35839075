package dto

import (
	"github.com/yigit/unitrack/internal/app/models"
)

// AdviceResponse carries generated advisor text
type AdviceResponse struct {
	Text       string `json:"text"`
	Configured bool   `json:"configured"`
}

// TranscriptPreview lists courses read from a transcript. Nothing is stored
// until the client posts them to the import endpoint.
type TranscriptPreview struct {
	FileName string                 `json:"fileName"`
	Courses  []models.PartialCourse `json:"courses"`
	Count    int                    `json:"count"`
}

// CurriculumPreview lists areas read from a curriculum document. Nothing is
// stored until the client replaces the areas.
type CurriculumPreview struct {
	FileName string        `json:"fileName"`
	Areas    []models.Area `json:"areas"`
	Count    int           `json:"count"`
}
