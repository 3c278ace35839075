package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/models/dto"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/auth"
)

// validationCodes maps specific validation failures to their own codes.
// Order matters: the first match wins.
var validationCodes = []struct {
	err  error
	code dto.ErrorCode
}{
	{apperrors.ErrSemesterOutOfRange, dto.ErrorCodeSemesterRange},
	{apperrors.ErrDuplicateCourseName, dto.ErrorCodeDuplicateName},
	{apperrors.ErrInvalidArea, dto.ErrorCodeInvalidArea},
	{apperrors.ErrUnsupportedBackup, dto.ErrorCodeUnsupportedBackup},
	{apperrors.ErrInvalidSortField, dto.ErrorCodeInvalidQuery},
	{apperrors.ErrInvalidSortOrder, dto.ErrorCodeInvalidQuery},
	{apperrors.ErrInvalidSemesterArg, dto.ErrorCodeInvalidQuery},
	{apperrors.ErrInvalidReportOrder, dto.ErrorCodeInvalidQuery},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	_ = c.Error(err)

	var inUse *apperrors.AreaInUseError
	var ext *apperrors.ExternalError

	switch {
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceInUse, err.Error()).
				WithDetails(gin.H{"areaId": inUse.AreaID, "courseCount": inUse.Count}),
		))
		return
	case errors.As(err, &ext):
		handleExternalError(c, ext)
		return
	case errors.Is(err, apperrors.ErrValidationFailed):
		code := dto.ErrorCodeValidationFailed
		for _, vc := range validationCodes {
			if errors.Is(err, vc.err) {
				code = vc.code
				break
			}
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.NewErrorDetail(code, message(err))))
		return
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message(err)),
		))
		return
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message(err)),
		))
		return
	case errors.Is(err, apperrors.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeFileTooLarge, "File is too large"),
		))
		return
	case errors.Is(err, apperrors.ErrUnsupportedFile):
		c.JSON(http.StatusUnsupportedMediaType, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnsupportedFile, message(err)),
		))
		return
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err)),
		))
		return
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		))
		return
	case errors.Is(err, apperrors.ErrTokenExpired), errors.Is(err, auth.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		))
		return
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidFormat):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		))
		return
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
		return
	}
}

func handleExternalError(c *gin.Context, ext *apperrors.ExternalError) {
	status, code := http.StatusBadGateway, dto.ErrorCodeExternalService
	switch ext.Kind {
	case apperrors.KindRateLimit:
		status, code = http.StatusTooManyRequests, dto.ErrorCodeRateLimited
	case apperrors.KindUnreadable:
		status, code = http.StatusUnprocessableEntity, dto.ErrorCodeUnreadableInput
	case apperrors.KindSafety:
		status, code = http.StatusUnprocessableEntity, dto.ErrorCodeSafetyRejected
	case apperrors.KindEmpty:
		status, code = http.StatusUnprocessableEntity, dto.ErrorCodeEmptyResult
	}

	details := gin.H{"kind": ext.Kind, "hint": ext.Hint()}
	if ext.Kind == apperrors.KindRateLimit {
		seconds := int(ext.RetryAfter.Seconds())
		details["retryAfterSeconds"] = seconds
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	detail := dto.NewErrorDetail(code, externalMessage(ext.Kind)).WithDetails(details)
	if ext.Kind != apperrors.KindGeneric {
		detail = detail.WithSeverity(dto.ErrorSeverityWarning)
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

func externalMessage(kind apperrors.ExternalKind) string {
	switch kind {
	case apperrors.KindRateLimit:
		return "The advisor is busy, please retry shortly"
	case apperrors.KindUnreadable:
		return "The document could not be read, try a clearer image"
	case apperrors.KindSafety:
		return "The document was rejected by the content filter"
	case apperrors.KindEmpty:
		return "No usable result, please enter the data manually"
	}
	return "The advisor service failed"
}

// message prefers the message of a CustomError over the wrapped chain
func message(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}
