package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-facing error code and message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a raw database or network error into a client-safe code
// and message. context names the operation, such as "vendor update".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Postgres 23505 and SQLite UNIQUE failures
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Postgres 23503 and SQLite FOREIGN KEY failures
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	if strings.Contains(errStrLower, "violates not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A dependent service is unavailable, please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already exists"}
	case strings.Contains(errLower, "owner_user_id"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This account already owns a vendor"}
	case strings.Contains(errLower, "vendor_hours"):
		return ErrorInfo{Code: ResourceConflict, Message: "Hours for that day already exist"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "vendor_id"):
		return ErrorInfo{Code: VendorNotFound, Message: "Vendor not found"}
	case strings.Contains(errLower, "reel_id"):
		return ErrorInfo{Code: ReelNotFound, Message: "Reel not found"}
	case strings.Contains(errLower, "user_id"):
		return ErrorInfo{Code: UserNotFound, Message: "User not found"}
	}
	return ErrorInfo{Code: ResourceConflict, Message: "The record references missing or dependent data"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "vendor"):
		return "Vendor not found"
	case strings.Contains(contextLower, "reel"):
		return "Reel not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested resource was not found"
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "An unexpected error occurred, please try again shortly"
	}
	return "Failed to " + context + ", please try again shortly"
}
