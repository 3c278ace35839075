package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// AreaController handles module area operations
type AreaController struct {
	areaService *services.AreaService
}

// NewAreaController creates a new AreaController
func NewAreaController(areaService *services.AreaService) *AreaController {
	return &AreaController{
		areaService: areaService,
	}
}

// ListAreas returns the configured areas
// @Summary List areas
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Area} "Areas retrieved successfully"
// @Router /areas [get]
func (c *AreaController) ListAreas(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.areaService.List()))
}

// CreateArea adds an area
// @Summary Create an area
// @Description The id is derived from the name when omitted. The color defaults to the next palette entry.
// @Tags areas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AreaRequest true "Area information"
// @Success 201 {object} dto.APIResponse{data=models.Area} "Area created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid area data"
// @Failure 409 {object} dto.ErrorResponse "Area already exists"
// @Router /areas [post]
func (c *AreaController) CreateArea(ctx *gin.Context) {
	var req dto.AreaRequest
	if !bindJSON(ctx, &req) {
		return
	}

	area, err := c.areaService.Create(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(area))
}

// UpdateArea changes an area's metadata
// @Summary Update an area
// @Tags areas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Area ID"
// @Param request body dto.AreaRequest true "Area information"
// @Success 200 {object} dto.APIResponse{data=models.Area} "Area updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid area data"
// @Failure 404 {object} dto.ErrorResponse "Area not found"
// @Router /areas/{id} [put]
func (c *AreaController) UpdateArea(ctx *gin.Context) {
	var req dto.AreaRequest
	if !bindJSON(ctx, &req) {
		return
	}

	area, err := c.areaService.Update(ctx.Request.Context(), ctx.Param("id"), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(area))
}

// ReplaceAreas swaps in a whole curriculum
// @Summary Replace all areas
// @Description Rejected when a course would reference a removed area
// @Tags areas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReplaceAreasRequest true "Complete area list"
// @Success 200 {object} dto.APIResponse{data=[]models.Area} "Areas replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid area data"
// @Failure 409 {object} dto.ErrorResponse "Area still in use"
// @Router /areas [put]
func (c *AreaController) ReplaceAreas(ctx *gin.Context) {
	var req dto.ReplaceAreasRequest
	if !bindJSON(ctx, &req) {
		return
	}

	areas, err := c.areaService.Replace(ctx.Request.Context(), req.Inputs())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(areas))
}

// DeleteArea removes an area no course references
// @Summary Delete an area
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Param id path string true "Area ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Area deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Area not found"
// @Failure 409 {object} dto.ErrorResponse "Area still in use"
// @Router /areas/{id} [delete]
func (c *AreaController) DeleteArea(ctx *gin.Context) {
	if err := c.areaService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Area deleted"}))
}

// AreaProgress evaluates every area
// @Summary Area progress
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]progress.AreaProgress} "Progress per area"
// @Router /areas/progress [get]
func (c *AreaController) AreaProgress(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.areaService.Progress()))
}

// AreaProgressByID evaluates one area
// @Summary Progress of one area
// @Tags areas
// @Produce json
// @Security BearerAuth
// @Param id path string true "Area ID"
// @Success 200 {object} dto.APIResponse{data=progress.AreaProgress} "Area progress"
// @Failure 404 {object} dto.ErrorResponse "Area not found"
// @Router /areas/{id}/progress [get]
func (c *AreaController) AreaProgressByID(ctx *gin.Context) {
	p, err := c.areaService.ProgressOf(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(p))
}
