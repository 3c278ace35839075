package dto

import (
	"time"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
)

// CourseRequest is the body of course create and update
type CourseRequest struct {
	Name     string     `json:"name" binding:"max=200" example:"Development Economics"`
	ECTS     int        `json:"ects" example:"10"`
	Semester int        `json:"semester" example:"2"`
	Area     string     `json:"area" example:"C: Specialisation"`
	Status   string     `json:"status" binding:"required" example:"Passed"`
	Grade    *float64   `json:"grade,omitempty" example:"1.7"`
	SubGroup *string    `json:"subGroup,omitempty" example:"Economics"`
	ExamDate *time.Time `json:"examDate,omitempty"`
}

// ToInput converts the request to a mutation input. Status spelling is
// relaxed; an unknown status is passed through and rejected by the store.
func (r CourseRequest) ToInput() tracker.CourseInput {
	status, err := models.ParseCourseStatus(r.Status)
	if err != nil {
		status = models.CourseStatus(r.Status)
	}
	return tracker.CourseInput{
		Name:     r.Name,
		ECTS:     r.ECTS,
		Semester: r.Semester,
		Area:     r.Area,
		Status:   status,
		Grade:    r.Grade,
		SubGroup: r.SubGroup,
		ExamDate: r.ExamDate,
	}
}

// CourseStatusRequest changes only the status of a course
type CourseStatusRequest struct {
	Status string `json:"status" binding:"required" example:"In Progress"`
}

// ImportCoursesRequest appends externally produced course records
type ImportCoursesRequest struct {
	Courses []models.PartialCourse `json:"courses" binding:"required"`
}

// CourseListQuery holds the sort and filter parameters of the course list
type CourseListQuery struct {
	Sort     string `form:"sort" example:"grade"`
	Order    string `form:"order" example:"asc"`
	Semester string `form:"semester" example:"all"`
	Area     string `form:"area"`
}

// CourseListResponse is a sorted, filtered course list
type CourseListResponse struct {
	Courses []models.Course `json:"courses"`
	Total   int             `json:"total"`
	Sort    string          `json:"sort"`
	Order   string          `json:"order"`
}

// ImportResponse lists the records appended by an import
type ImportResponse struct {
	Imported []models.Course `json:"imported"`
	Count    int             `json:"count"`
}
