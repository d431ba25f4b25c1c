package controller

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// UploadProfilePicture replaces the caller's own profile picture
// POST /api/v1/users/:id/profile-picture
func (ctrl *UserController) UploadProfilePicture(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	upload, closeFile, err := formUpload(c, "photo")
	if err != nil {
		log.Warn("Failed to read profile picture upload", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadMissingFile, "Could not read the uploaded file")
		return
	}
	defer closeFile()

	url, err := ctrl.userService.UpdateProfileImage(c.Request.Context(), actor, userID, upload)
	if err != nil {
		respondServiceError(c, err, "upload profile picture")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Profile picture uploaded successfully",
		"profile_image": url,
	})
}
