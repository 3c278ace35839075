package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Course errors
var (
	ErrCourseNotFound      = fmt.Errorf("%w: course not found", ErrResourceNotFound)
	ErrSemesterOutOfRange  = fmt.Errorf("%w: semester must be an integer between 1 and 12", ErrValidationFailed)
	ErrDuplicateCourseName = fmt.Errorf("%w: a course with this name already exists", ErrValidationFailed)
	ErrInvalidArea         = fmt.Errorf("%w: selected area does not exist", ErrValidationFailed)
	ErrCourseNameRequired  = fmt.Errorf("%w: course name is required", ErrValidationFailed)
	ErrInvalidECTS         = fmt.Errorf("%w: ects must not be negative", ErrValidationFailed)
	ErrGradeOutOfRange     = fmt.Errorf("%w: grade must be between 1.0 and 5.0", ErrValidationFailed)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown course status", ErrValidationFailed)
)

// Area errors
var (
	ErrAreaNotFound      = fmt.Errorf("%w: area not found", ErrResourceNotFound)
	ErrAreaAlreadyExists = fmt.Errorf("%w: area with this id already exists", ErrResourceAlreadyExists)
	ErrAreaInUse         = errors.New("area is still referenced by courses and cannot be deleted")
	ErrInvalidBehavior   = fmt.Errorf("%w: unknown area behavior", ErrValidationFailed)
	ErrAreaNameRequired  = fmt.Errorf("%w: area name is required", ErrValidationFailed)
	ErrInvalidRequired   = fmt.Errorf("%w: required credits must not be negative", ErrValidationFailed)
)

// Profile and backup errors
var (
	ErrInvalidViewMode    = fmt.Errorf("%w: unknown view mode", ErrValidationFailed)
	ErrUnsupportedBackup  = fmt.Errorf("%w: unsupported backup version", ErrValidationFailed)
	ErrInvalidSortField   = fmt.Errorf("%w: unknown sort field", ErrValidationFailed)
	ErrInvalidSortOrder   = fmt.Errorf("%w: sort order must be asc or desc", ErrValidationFailed)
	ErrInvalidSemesterArg = fmt.Errorf("%w: semester filter must be \"all\" or a number", ErrValidationFailed)
	ErrInvalidReportOrder = fmt.Errorf("%w: report order must be semester or area", ErrValidationFailed)
)

// External service errors
var (
	ErrRateLimited     = errors.New("external service rate limit reached")
	ErrUnreadableInput = errors.New("input could not be read")
	ErrSafetyRejected  = errors.New("input was rejected by the content safety filter")
	ErrEmptyResult     = errors.New("external service returned no usable result")
	ErrExternalService = errors.New("external service failed")
	ErrUnsupportedFile = fmt.Errorf("%w: unsupported file type", ErrBadRequest)
	ErrFileTooLarge    = fmt.Errorf("%w: file is too large", ErrBadRequest)
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// AreaInUseError is returned when an area cannot be removed because courses
// still reference it.
type AreaInUseError struct {
	AreaID string
	Count  int
}

func (e *AreaInUseError) Error() string {
	return fmt.Sprintf("area %q is referenced by %d course(s) and cannot be deleted", e.AreaID, e.Count)
}

func (e *AreaInUseError) Unwrap() error {
	return ErrAreaInUse
}

// ExternalKind classifies failures of the generative service boundary.
type ExternalKind string

const (
	KindRateLimit  ExternalKind = "rate_limit"
	KindUnreadable ExternalKind = "unreadable"
	KindSafety     ExternalKind = "safety"
	KindEmpty      ExternalKind = "empty"
	KindGeneric    ExternalKind = "generic"
)

// DefaultRetryAfter is the countdown suggested to clients after a rate limit.
const DefaultRetryAfter = 30 * time.Second

// ExternalError is a classified failure of an external collaborator.
type ExternalError struct {
	Kind       ExternalKind
	RetryAfter time.Duration // only set for KindRateLimit
	Cause      error
}

// NewExternalError classifies cause as kind. Rate-limit errors get the
// default countdown.
func NewExternalError(kind ExternalKind, cause error) *ExternalError {
	e := &ExternalError{Kind: kind, Cause: cause}
	if kind == KindRateLimit {
		e.RetryAfter = DefaultRetryAfter
	}
	return e
}

func (e *ExternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.sentinel().Error(), e.Cause)
	}
	return e.sentinel().Error()
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *ExternalError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.sentinel(), e.Cause}
	}
	return []error{e.sentinel()}
}

// Hint is the recovery affordance offered to the user.
func (e *ExternalError) Hint() string {
	switch e.Kind {
	case KindRateLimit:
		return "retry"
	case KindUnreadable, KindSafety:
		return "reupload"
	case KindEmpty:
		return "manual"
	}
	return "retry"
}

func (e *ExternalError) sentinel() error {
	switch e.Kind {
	case KindRateLimit:
		return ErrRateLimited
	case KindUnreadable:
		return ErrUnreadableInput
	case KindSafety:
		return ErrSafetyRejected
	case KindEmpty:
		return ErrEmptyResult
	}
	return ErrExternalService
}
