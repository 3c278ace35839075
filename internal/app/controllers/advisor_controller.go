package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// AdvisorController exposes the generative advisor
type AdvisorController struct {
	advisorService *services.AdvisorService
}

// NewAdvisorController creates a new AdvisorController
func NewAdvisorController(advisorService *services.AdvisorService) *AdvisorController {
	return &AdvisorController{
		advisorService: advisorService,
	}
}

// Advice returns a next-steps recommendation
// @Summary Get advice
// @Description Without an API key a fixed hint is returned
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdviceResponse} "Advice text"
// @Failure 429 {object} dto.ErrorResponse "Rate limited"
// @Failure 502 {object} dto.ErrorResponse "Advisor service failed"
// @Router /advisor/advice [post]
func (c *AdvisorController) Advice(ctx *gin.Context) {
	text, err := c.advisorService.Advice(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdviceResponse{
		Text:       text,
		Configured: c.advisorService.Configured(),
	}))
}

// ReportSummary returns the narrative paragraph of the transcript report
// @Summary Get report summary
// @Tags advisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdviceResponse} "Summary text"
// @Failure 429 {object} dto.ErrorResponse "Rate limited"
// @Failure 502 {object} dto.ErrorResponse "Advisor service failed"
// @Router /advisor/report-summary [post]
func (c *AdvisorController) ReportSummary(ctx *gin.Context) {
	text, err := c.advisorService.ReportSummary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdviceResponse{
		Text:       text,
		Configured: c.advisorService.Configured(),
	}))
}

// Transcript reads courses from a transcript image
// @Summary Read a transcript
// @Description Returns the extracted courses for review. Confirm them through POST /courses/import.
// @Tags advisor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Transcript image"
// @Success 200 {object} dto.APIResponse{data=dto.TranscriptPreview} "Extracted courses"
// @Failure 400 {object} dto.ErrorResponse "No file uploaded"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 422 {object} dto.ErrorResponse "Unreadable or rejected document"
// @Failure 429 {object} dto.ErrorResponse "Rate limited"
// @Router /advisor/transcript [post]
func (c *AdvisorController) Transcript(ctx *gin.Context) {
	fileHeader, ok := formFile(ctx)
	if !ok {
		return
	}

	file, rows, err := c.advisorService.PreviewTranscript(ctx.Request.Context(), fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TranscriptPreview{
		FileName: file.Name,
		Courses:  rows,
		Count:    len(rows),
	}))
}

// Curriculum infers areas from a curriculum document
// @Summary Read a curriculum
// @Description Returns suggested areas for review. Apply them through PUT /areas.
// @Tags advisor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Curriculum image or PDF"
// @Success 200 {object} dto.APIResponse{data=dto.CurriculumPreview} "Suggested areas"
// @Failure 400 {object} dto.ErrorResponse "No file uploaded"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 422 {object} dto.ErrorResponse "Empty or rejected result"
// @Failure 429 {object} dto.ErrorResponse "Rate limited"
// @Router /advisor/curriculum [post]
func (c *AdvisorController) Curriculum(ctx *gin.Context) {
	fileHeader, ok := formFile(ctx)
	if !ok {
		return
	}

	file, areas, err := c.advisorService.SuggestCurriculum(ctx.Request.Context(), fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CurriculumPreview{
		FileName: file.Name,
		Areas:    areas,
		Count:    len(areas),
	}))
}
