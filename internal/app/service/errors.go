package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns either wraps one of these or is
// an unexpected failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrStorage    = errors.New("storage failure")
)

var (
	ErrVendorNotFound = fmt.Errorf("%w: vendor", ErrNotFound)
	ErrReelNotFound   = fmt.Errorf("%w: reel", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("%w: user", ErrNotFound)

	ErrNotVendorOwner = fmt.Errorf("%w: vendor belongs to another account", ErrForbidden)
	ErrAdminOnly      = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrSelfOnly       = fmt.Errorf("%w: can only access your own data", ErrForbidden)

	ErrInvalidCoordinates = fmt.Errorf("%w: latitude must be within [-90, 90] and longitude within [-180, 180]", ErrValidation)
	ErrCaptionTooLong     = fmt.Errorf("%w: caption must be %d characters or fewer", ErrValidation, MaxCaptionLength)
	ErrUnsupportedVideo   = fmt.Errorf("%w: video must be one of mp4, mov, avi, mkv, webm", ErrValidation)
	ErrUnsupportedImage   = fmt.Errorf("%w: image must be one of png, jpg, jpeg, gif", ErrValidation)
	ErrFileTooLarge       = fmt.Errorf("%w: file exceeds the upload limit", ErrValidation)
	ErrEmptyUpload        = fmt.Errorf("%w: no file uploaded", ErrValidation)
	ErrInvalidDay         = fmt.Errorf("%w: day must be between 0 and 6", ErrValidation)
	ErrInvalidClock       = fmt.Errorf("%w: times must use 24-hour HH:MM", ErrValidation)
	ErrVendorNameRequired = fmt.Errorf("%w: vendor name is required", ErrValidation)

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// storageError marks err as a persistence or media store failure for op.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
