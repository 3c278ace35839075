package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
)

type transcriptRow struct {
	Name     *string  `json:"name"`
	ECTS     *float64 `json:"ects"`
	Grade    *float64 `json:"grade"`
	Semester *float64 `json:"semester"`
	Area     *string  `json:"area"`
	SubGroup *string  `json:"subGroup"`
}

type curriculumRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Required    float64 `json:"required"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Behavior    string  `json:"behavior"`
}

// stripFence removes a surrounding markdown code fence.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// decodeTranscript turns the model output into partial course records. A
// blank reply or an empty list means the image could not be read.
func decodeTranscript(text string) ([]models.PartialCourse, error) {
	if text == "" {
		return nil, apperrors.NewExternalError(apperrors.KindUnreadable, errors.New("empty transcript response"))
	}
	var rows []transcriptRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, apperrors.NewExternalError(apperrors.KindUnreadable, fmt.Errorf("decode transcript: %w", err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewExternalError(apperrors.KindUnreadable, errors.New("no courses found in transcript"))
	}

	out := make([]models.PartialCourse, 0, len(rows))
	for _, r := range rows {
		p := models.PartialCourse{
			Name:     r.Name,
			Area:     r.Area,
			SubGroup: r.SubGroup,
		}
		if r.ECTS != nil {
			p.ECTS = roundInt(*r.ECTS)
		}
		if r.Semester != nil {
			p.Semester = roundInt(*r.Semester)
		}
		status := models.StatusPlanned
		if r.Grade != nil && *r.Grade != 0 {
			g := *r.Grade
			p.Grade = &g
			status = models.StatusPassed
		}
		p.Status = &status
		out = append(out, p)
	}
	return out, nil
}

// decodeCurriculum turns the model output into areas. Unknown behaviors
// become standard.
func decodeCurriculum(text string) ([]models.Area, error) {
	if text == "" {
		return nil, apperrors.NewExternalError(apperrors.KindEmpty, errors.New("empty curriculum response"))
	}
	var rows []curriculumRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, apperrors.NewExternalError(apperrors.KindGeneric, fmt.Errorf("decode curriculum: %w", err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewExternalError(apperrors.KindEmpty, errors.New("no program structure detected"))
	}

	areas := make([]models.Area, 0, len(rows))
	for _, r := range rows {
		behavior, err := models.ParseAreaBehavior(r.Behavior)
		if err != nil {
			behavior = models.BehaviorStandard
		}
		required := 0
		if r.Required > 0 {
			required = int(math.Round(r.Required))
		}
		areas = append(areas, models.Area{
			ID:          strings.TrimSpace(r.ID),
			Name:        strings.TrimSpace(r.Name),
			Description: strings.TrimSpace(r.Description),
			Required:    required,
			Color:       strings.TrimSpace(r.Color),
			Behavior:    behavior,
		})
	}
	return areas, nil
}

func roundInt(v float64) *int {
	n := int(math.Round(v))
	return &n
}
