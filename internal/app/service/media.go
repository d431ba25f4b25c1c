package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaUpload is an uploaded file handed to a service. Body is read once.
type MediaUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// MediaStore persists uploaded media and returns its public URL.
type MediaStore interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var (
	videoExtensions = map[string]bool{"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true}
	imageExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}
)

// extension returns the lower-cased extension of name without the dot.
func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// checkUpload validates presence, size and extension, returning the extension.
func checkUpload(upload MediaUpload, allowed map[string]bool, maxBytes int64, unsupported error) (string, error) {
	if upload.Body == nil || upload.Filename == "" {
		return "", ErrEmptyUpload
	}
	ext := extension(upload.Filename)
	if !allowed[ext] {
		return "", unsupported
	}
	if maxBytes > 0 && upload.Size > maxBytes {
		return "", ErrFileTooLarge
	}
	return ext, nil
}

// newMediaKey builds a collision-free storage key such as "reels/7/<uuid>.mp4".
func newMediaKey(prefix string, ownerID uint, ext string) string {
	return fmt.Sprintf("%s/%d/%s.%s", prefix, ownerID, uuid.NewString(), ext)
}
