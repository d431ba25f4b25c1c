package controller

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive integer path parameter, responding 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireActor returns the authenticated caller or responds 401.
func requireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return service.Actor{}, false
	}
	return actor, true
}

// respondServiceError logs err at a level matching its status and writes the
// error response.
func respondServiceError(c *gin.Context, err error, op string) {
	log := middleware.GetLoggerFromContext(c)
	status, info := apperrors.FromService(err)
	fields := map[string]interface{}{
		"operation": op,
		"code":      info.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		log.Warn("Request rejected", fields)
	}
	apperrors.RespondWithError(c, status, info.Code, info.Message)
}

// formUpload opens the multipart file field. A missing field yields an
// empty upload so the service can check ownership before rejecting it.
func formUpload(c *gin.Context, field string) (service.MediaUpload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return service.MediaUpload{}, func() {}, nil
		}
		return service.MediaUpload{}, func() {}, err
	}

	file, err := header.Open()
	if err != nil {
		return service.MediaUpload{}, func() {}, err
	}
	return uploadFrom(header, file), func() { file.Close() }, nil
}

func uploadFrom(header *multipart.FileHeader, body io.Reader) service.MediaUpload {
	return service.MediaUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	}
}
