// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
)

// bindJSON binds the request body and answers 400 on failure
func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// formFile reads the "file" form field and answers 400 when it is missing
func formFile(ctx *gin.Context) (*multipart.FileHeader, bool) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No file uploaded")
		errorDetail = errorDetail.WithField("file").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return fileHeader, true
}
