package controller

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type EngagementController struct {
	engagementService service.EngagementService
}

func NewEngagementController(engagementService service.EngagementService) *EngagementController {
	return &EngagementController{
		engagementService: engagementService,
	}
}

// toggle flips the caller's like or save on the target named by :id and
// responds with the new state and count under stateKey and countKey.
func (ctrl *EngagementController) toggle(c *gin.Context, kind model.EngagementKind, target model.TargetType, stateKey, countKey string) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	active, count, err := ctrl.engagementService.Toggle(c.Request.Context(), kind, target, targetID, actor.UserID)
	if err != nil {
		respondServiceError(c, err, "toggle "+string(kind))
		return
	}

	log.Debug("Engagement toggled", map[string]interface{}{
		"kind":      kind,
		"target":    target,
		"target_id": targetID,
		"active":    active,
	})

	c.JSON(http.StatusOK, gin.H{
		stateKey: active,
		countKey: count,
	})
}

// LikeVendor toggles the caller's like on a vendor
// POST /api/v1/vendors/:id/like
func (ctrl *EngagementController) LikeVendor(c *gin.Context) {
	ctrl.toggle(c, model.EngagementLike, model.TargetVendor, "liked", "likes")
}

// SaveVendor toggles the caller's save on a vendor
// POST /api/v1/vendors/:id/save
func (ctrl *EngagementController) SaveVendor(c *gin.Context) {
	ctrl.toggle(c, model.EngagementSave, model.TargetVendor, "saved", "saves")
}

// LikeReel toggles the caller's like on a reel
// POST /api/v1/reels/:id/like
func (ctrl *EngagementController) LikeReel(c *gin.Context) {
	ctrl.toggle(c, model.EngagementLike, model.TargetReel, "liked", "likes")
}

// SaveReel toggles the caller's save on a reel
// POST /api/v1/reels/:id/save
func (ctrl *EngagementController) SaveReel(c *gin.Context) {
	ctrl.toggle(c, model.EngagementSave, model.TargetReel, "saved", "saves")
}

// LikedVendors lists the vendors a user liked, newest first
// GET /api/v1/users/:id/liked-vendors
func (ctrl *EngagementController) LikedVendors(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vendors, err := ctrl.engagementService.ListLikedVendors(c.Request.Context(), actor, userID)
	if err != nil {
		respondServiceError(c, err, "list liked vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// SavedVendors lists the vendors a user saved, newest first
// GET /api/v1/users/:id/saved-vendors
func (ctrl *EngagementController) SavedVendors(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vendors, err := ctrl.engagementService.ListSavedVendors(c.Request.Context(), actor, userID)
	if err != nil {
		respondServiceError(c, err, "list saved vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// ListReels returns the reel feed
// GET /api/v1/reels
func (ctrl *EngagementController) ListReels(c *gin.Context) {
	reels, err := ctrl.engagementService.ListReels(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list reels")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reels": reels,
		"count": len(reels),
	})
}
