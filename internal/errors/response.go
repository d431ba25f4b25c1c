package errors

import (
	"errors"
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An unexpected error occurred, please try again shortly"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field binding failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}

var serviceCodes = []struct {
	err  error
	code string
}{
	{service.ErrVendorNotFound, VendorNotFound},
	{service.ErrReelNotFound, ReelNotFound},
	{service.ErrUserNotFound, UserNotFound},
	{service.ErrAdminOnly, AuthzAdminOnly},
	{service.ErrNotVendorOwner, AuthzOwnerOnly},
	{service.ErrSelfOnly, AuthzSelfOnly},
	{service.ErrInvalidCoordinates, VendorInvalidGeo},
	{service.ErrInvalidDay, VendorInvalidHours},
	{service.ErrInvalidClock, VendorInvalidHours},
	{service.ErrCaptionTooLong, ReelCaptionTooLong},
	{service.ErrUnsupportedVideo, UploadInvalidFileType},
	{service.ErrUnsupportedImage, UploadInvalidFileType},
	{service.ErrFileTooLarge, UploadFileTooLarge},
	{service.ErrEmptyUpload, UploadMissingFile},
	{service.ErrVendorNameRequired, ValidationRequired},
}

// FromService maps a service error to a status code and error info.
func FromService(err error) (int, ErrorInfo) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return http.StatusConflict, ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already exists"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorInfo{Code: AuthInvalidCredentials, Message: "Invalid email or password"}
	}

	code := ""
	for _, sc := range serviceCodes {
		if errors.Is(err, sc.err) {
			code = sc.code
			break
		}
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, ErrorInfo{Code: orDefault(code, ValidationInvalidInput), Message: err.Error()}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorInfo{Code: orDefault(code, ResourceNotFound), Message: err.Error()}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorInfo{Code: orDefault(code, AuthzForbidden), Message: err.Error()}
	case errors.Is(err, service.ErrStorage):
		info := ParseError(err, "")
		if info.Code == InternalServerError {
			info.Code = InternalStorage
		}
		return http.StatusInternalServerError, info
	}
	return http.StatusInternalServerError, ErrorInfo{Code: InternalServerError, Message: "An unexpected error occurred, please try again shortly"}
}

// RespondWithServiceError writes the response for a service error.
func RespondWithServiceError(c *gin.Context, err error) {
	status, info := FromService(err)
	RespondWithError(c, status, info.Code, info.Message)
}

func orDefault(code, fallback string) string {
	if code == "" {
		return fallback
	}
	return code
}
