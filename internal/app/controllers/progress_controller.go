package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// ProgressController serves the analytics views
type ProgressController struct {
	progressService *services.ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService *services.ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// Overview returns the dashboard summary
// @Summary Progress overview
// @Description Earned and pending credits, weighted average, thesis eligibility and per-area progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=progress.Overview} "Overview"
// @Router /progress/overview [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.progressService.Overview()))
}

// Thesis returns the thesis registration gate
// @Summary Thesis eligibility
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=progress.ThesisStatus} "Thesis status"
// @Router /progress/thesis [get]
func (c *ProgressController) Thesis(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.progressService.Thesis()))
}

// Semesters returns per-semester summaries
// @Summary Semester summaries
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]progress.SemesterSummary} "Semester summaries"
// @Router /progress/semesters [get]
func (c *ProgressController) Semesters(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.progressService.Semesters()))
}

// AvailableSemesters lists semesters having courses
// @Summary Semesters with courses
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]int} "Semester numbers ascending"
// @Router /progress/semesters-available [get]
func (c *ProgressController) AvailableSemesters(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.progressService.AvailableSemesters()))
}

// Exams returns the exam schedule
// @Summary Exam schedule
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=progress.ExamSchedule} "Upcoming and past exams"
// @Router /progress/exams [get]
func (c *ProgressController) Exams(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.progressService.Exams()))
}

// Report returns the transcript report data
// @Summary Transcript report
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param order query string false "Grouping" Enums(semester, area)
// @Success 200 {object} dto.APIResponse{data=progress.Report} "Report"
// @Failure 400 {object} dto.ErrorResponse "Invalid order"
// @Router /progress/report [get]
func (c *ProgressController) Report(ctx *gin.Context) {
	report, err := c.progressService.Report(ctx.Query("order"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}
