package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yigit/unitrack/internal/app/models"
)

const summarySystem = "You are an expert academic evaluator. You provide high-level summaries of student progress for formal transcripts."

const transcriptPrompt = `Analyze this academic transcript. Extract all courses listed.

For each course:
1. Extract name, ECTS, grade.
2. Determine Semester.
3. Categorize into areas (A, B, C, D, or Thesis).

Accuracy is critical. Return empty array [] if unreadable.`

const curriculumPrompt = `Analyze this university curriculum document, module handbook page, or study regulations.
The document may be an image or a PDF.

IDENTIFY:
1. Module areas (e.g. "Basismodule", "Pflichtbereich", "Specialisation", "Wahlpflicht").
2. Required ECTS for each identified area.
3. Rules for completion (e.g. "must take 3 groups", "standard accumulation").

FOR EACH AREA, PROVIDE:
- id: a unique string ID.
- name: the official title of the module group.
- required: integer ECTS target.
- description: a short (10-15 word) summary of rules or courses within this block.
- color: a Tailwind background color class that fits the theme (e.g. bg-indigo-500).
- behavior: one of 'standard', 'groups', or 'thesis'.

Return a strictly formatted JSON array. Accuracy in ECTS values is paramount.`

var nullable = true

var transcriptSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"ects":     {Type: genai.TypeNumber},
			"grade":    {Type: genai.TypeNumber, Nullable: &nullable},
			"semester": {Type: genai.TypeNumber},
			"area":     {Type: genai.TypeString},
			"subGroup": {Type: genai.TypeString, Nullable: &nullable},
		},
		Required: []string{"name", "ects", "area", "semester"},
	},
}

var curriculumSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          {Type: genai.TypeString},
			"name":        {Type: genai.TypeString},
			"required":    {Type: genai.TypeNumber},
			"description": {Type: genai.TypeString},
			"color":       {Type: genai.TypeString},
			"behavior": {
				Type: genai.TypeString,
				Enum: []string{string(models.BehaviorStandard), string(models.BehaviorGroups), string(models.BehaviorThesis)},
			},
		},
		Required: []string{"id", "name", "required", "description", "color", "behavior"},
	},
}

type courseBrief struct {
	Name   string              `json:"name"`
	Area   string              `json:"area"`
	Status models.CourseStatus `json:"status"`
	Group  *string             `json:"group,omitempty"`
}

func passedECTS(courses []models.Course) int {
	total := 0
	for _, c := range courses {
		if c.IsPassed() {
			total += c.ECTS
		}
	}
	return total
}

func advisorPrompt(courses []models.Course, areas []models.Area, totalRequired int) string {
	var rules strings.Builder
	for _, a := range areas {
		fmt.Fprintf(&rules, "- %s: Required %d ECTS. (%s)\n", a.Name, a.Required, a.Description)
	}
	briefs := make([]courseBrief, 0, len(courses))
	for _, c := range courses {
		briefs = append(briefs, courseBrief{Name: c.Name, Area: c.Area, Status: c.Status, Group: c.SubGroup})
	}
	history, _ := json.Marshal(briefs)

	return fmt.Sprintf(`You are an academic advisor for a Master's program.
Your goal is to analyze the student's current transcript and suggest the next logical steps.

REGULATIONS SUMMARY:
1. Total ECTS: %d.
%s
CURRENT STUDENT STATUS:
- Total ECTS Passed: %d
- Course History: %s

INSTRUCTIONS:
- Identify missing compulsory modules or areas where ECTS are lacking.
- Check specific rules for areas (e.g. module groups).
- If close to the thesis threshold, mention thesis requirements if applicable.
- Be encouraging but precise about the rules.
- Keep the response short (under 150 words).`, totalRequired, rules.String(), passedECTS(courses), history)
}

type areaSummary struct {
	Name     string `json:"name"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
}

func summaryPrompt(courses []models.Course, areas []models.Area, totalRequired int) (string, error) {
	earned := passedECTS(courses)
	data := struct {
		TotalECTS  int           `json:"totalEcts"`
		ECTSNeeded int           `json:"ectsNeeded"`
		Areas      []areaSummary `json:"areas"`
	}{
		TotalECTS:  earned,
		ECTSNeeded: max(totalRequired-earned, 0),
		Areas:      make([]areaSummary, 0, len(areas)),
	}
	for _, a := range areas {
		current := 0
		for _, c := range courses {
			if c.Area == a.ID && c.IsPassed() {
				current += c.ECTS
			}
		}
		data.Areas = append(data.Areas, areaSummary{Name: a.Name, Current: current, Required: a.Required})
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode summary data: %w", err)
	}

	return fmt.Sprintf(`Task: Write a concise, professional executive summary of a student's academic performance for a minimalist report.
Tone: Sophisticated, objective, and scholarly.
Length: Exactly 40-60 words. No bullet points.
Focus: Milestones achieved, credit accumulation trajectory, and standing relative to degree completion.
Data: %s`, raw), nil
}
