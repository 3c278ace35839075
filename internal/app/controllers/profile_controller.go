package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// ProfileController handles the profile, the view preference and the save status
type ProfileController struct {
	profileService *services.ProfileService
	courseService  *services.CourseService
	areaService    *services.AreaService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, courseService *services.CourseService, areaService *services.AreaService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		courseService:  courseService,
		areaService:    areaService,
	}
}

func profileResponse(p models.UserProfile) dto.ProfileResponse {
	return dto.ProfileResponse{UserProfile: p, Initials: p.Initials()}
}

// GetProfile returns the student profile
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile retrieved successfully"
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profileResponse(c.profileService.Get())))
}

// UpdateProfile replaces the student profile
// @Summary Update profile
// @Description Images left out of the request are kept
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileRequest true "Profile information"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid profile data"
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req dto.ProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.Update(ctx.Request.Context(), req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profileResponse(profile)))
}

// UploadPicture stores the profile picture
// @Summary Upload profile picture
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "JPEG, PNG or WebP image"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Picture stored"
// @Failure 400 {object} dto.ErrorResponse "No file uploaded"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /profile/picture [post]
func (c *ProfileController) UploadPicture(ctx *gin.Context) {
	c.uploadImage(ctx, services.ImagePicture)
}

// UploadLogo stores the university logo
// @Summary Upload university logo
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "JPEG, PNG or WebP image"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Logo stored"
// @Failure 400 {object} dto.ErrorResponse "No file uploaded"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Router /profile/logo [post]
func (c *ProfileController) UploadLogo(ctx *gin.Context) {
	c.uploadImage(ctx, services.ImageLogo)
}

// DeletePicture removes the profile picture
// @Summary Remove profile picture
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Picture removed"
// @Router /profile/picture [delete]
func (c *ProfileController) DeletePicture(ctx *gin.Context) {
	c.clearImage(ctx, services.ImagePicture)
}

// DeleteLogo removes the university logo
// @Summary Remove university logo
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Logo removed"
// @Router /profile/logo [delete]
func (c *ProfileController) DeleteLogo(ctx *gin.Context) {
	c.clearImage(ctx, services.ImageLogo)
}

func (c *ProfileController) uploadImage(ctx *gin.Context, slot services.ImageSlot) {
	fileHeader, ok := formFile(ctx)
	if !ok {
		return
	}

	profile, err := c.profileService.SetImage(ctx.Request.Context(), slot, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profileResponse(profile)))
}

func (c *ProfileController) clearImage(ctx *gin.Context, slot services.ImageSlot) {
	profile, err := c.profileService.ClearImage(ctx.Request.Context(), slot)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profileResponse(profile)))
}

// GetViewMode returns the dashboard view
// @Summary Get view mode
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ViewModeResponse} "Current view mode"
// @Router /view-mode [get]
func (c *ProfileController) GetViewMode(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ViewModeResponse{ViewMode: c.profileService.ViewMode()}))
}

// SetViewMode persists the dashboard view
// @Summary Set view mode
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ViewModeRequest true "View mode"
// @Success 200 {object} dto.APIResponse{data=dto.ViewModeResponse} "View mode stored"
// @Failure 400 {object} dto.ErrorResponse "Unknown view mode"
// @Router /view-mode [put]
func (c *ProfileController) SetViewMode(ctx *gin.Context) {
	var req dto.ViewModeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	mode, err := c.profileService.SetViewMode(ctx.Request.Context(), req.ViewMode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ViewModeResponse{ViewMode: mode}))
}

// GetStatus reports persistence state
// @Summary Save status
// @Description Saving stays true for a short minimum so clients can show an indicator
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse} "Save status"
// @Router /status [get]
func (c *ProfileController) GetStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StatusResponse{
		Save:     c.profileService.Status(),
		Courses:  c.courseService.Count(),
		Areas:    len(c.areaService.List()),
		ViewMode: c.profileService.ViewMode(),
	}))
}
