package controller

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReelController struct {
	reelService service.ReelService
}

func NewReelController(reelService service.ReelService) *ReelController {
	return &ReelController{
		reelService: reelService,
	}
}

// UploadReel replaces the vendor's reel with the uploaded video
// POST /api/v1/vendors/:id/reel
func (ctrl *ReelController) UploadReel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	upload, closeFile, err := formUpload(c, "video")
	if err != nil {
		log.Warn("Failed to read reel upload", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadMissingFile, "Could not read the uploaded file")
		return
	}
	defer closeFile()

	url, err := ctrl.reelService.ReplaceReel(c.Request.Context(), actor, vendorID, upload, c.PostForm("caption"))
	if err != nil {
		respondServiceError(c, err, "upload reel")
		return
	}

	log.Info("Reel uploaded", map[string]interface{}{
		"vendor_id": vendorID,
		"filename":  upload.Filename,
		"size":      upload.Size,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Reel uploaded successfully",
		"video_url": url,
	})
}
