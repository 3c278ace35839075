package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// ListCourses returns the sorted, filtered course list
// @Summary List courses
// @Description Returns courses filtered by semester and area, sorted by the given field. Ties resolve by name ascending.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param sort query string false "Sort field" Enums(name, semester, ects, grade, examDate)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Param semester query string false "Semester number or all"
// @Param area query string false "Area id"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var query dto.CourseListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	q, err := c.courseService.ParseQuery(query.Sort, query.Order, query.Semester, query.Area)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	courses := c.courseService.List(q)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CourseListResponse{
		Courses: courses,
		Total:   len(courses),
		Sort:    string(q.Field),
		Order:   string(q.Order),
	}))
}

// GetCourse retrieves a course by ID
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.Get(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// CreateCourse handles course creation
// @Summary Create a course
// @Description Validates semester range, unique name and area reference, then adds the course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// UpdateCourse handles course updates
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.CourseRequest true "Course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx.Request.Context(), ctx.Param("id"), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse handles course deletion
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Course deleted"}))
}

// SetCourseStatus changes only the status of a course
// @Summary Set course status
// @Description Setting the current status is a no-op
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body dto.CourseStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/status [patch]
func (c *CourseController) SetCourseStatus(ctx *gin.Context) {
	var req dto.CourseStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.SetStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// ImportCourses appends externally produced course records
// @Summary Import courses
// @Description Appends records as given, filling defaults for missing fields. No uniqueness or range checks are applied.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportCoursesRequest true "Partial course records"
// @Success 201 {object} dto.APIResponse{data=dto.ImportResponse} "Courses imported"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /courses/import [post]
func (c *CourseController) ImportCourses(ctx *gin.Context) {
	var req dto.ImportCoursesRequest
	if !bindJSON(ctx, &req) {
		return
	}

	imported, err := c.courseService.Import(ctx.Request.Context(), req.Courses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ImportResponse{
		Imported: imported,
		Count:    len(imported),
	}))
}
