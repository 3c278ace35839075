package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/app/services"
	"github.com/yigit/unitrack/internal/middleware"
)

// BackupController handles export, restore and reset
type BackupController struct {
	backupService *services.BackupService
}

// NewBackupController creates a new BackupController
func NewBackupController(backupService *services.BackupService) *BackupController {
	return &BackupController{
		backupService: backupService,
	}
}

// Export downloads the backup document
// @Summary Export backup
// @Description Returns the bare backup document as an attachment, not wrapped in the API envelope
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Backup "Backup document"
// @Router /backup [get]
func (c *BackupController) Export(ctx *gin.Context) {
	backup, fileName := c.backupService.Export()
	ctx.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	ctx.JSON(http.StatusOK, backup)
}

// Restore replaces the whole record with a backup document
// @Summary Restore backup
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Backup true "Backup document"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Backup restored"
// @Failure 400 {object} dto.ErrorResponse "Invalid or unsupported backup"
// @Router /backup/restore [post]
func (c *BackupController) Restore(ctx *gin.Context) {
	var backup models.Backup
	if err := ctx.ShouldBindJSON(&backup); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnsupportedBackup, "Invalid backup document")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.backupService.Restore(ctx.Request.Context(), backup); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Backup restored"}))
}

// Reset clears all data
// @Summary Reset all data
// @Description Removes every stored value and restores the built-in defaults
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Data reset"
// @Router /data [delete]
func (c *BackupController) Reset(ctx *gin.Context) {
	if err := c.backupService.Reset(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "All data reset"}))
}
