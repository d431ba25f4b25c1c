package controller

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	ws "github.com/deliciousroute/deliciousroute-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type LocationController struct {
	locationService service.LocationService
	hub             *ws.Hub
	upgrader        *websocket.Upgrader
}

func NewLocationController(locationService service.LocationService, hub *ws.Hub, upgrader *websocket.Upgrader) *LocationController {
	return &LocationController{
		locationService: locationService,
		hub:             hub,
		upgrader:        upgrader,
	}
}

type UpdateLocationRequest struct {
	Lat     *float64 `json:"lat" binding:"required"`
	Lng     *float64 `json:"lng" binding:"required"`
	Address string   `json:"address"`
}

// UpdateLocation records the vendor's live position
// POST /api/v1/vendors/:id/location
func (ctrl *LocationController) UpdateLocation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid location request", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.VendorInvalidGeo, "lat and lng are required")
		return
	}

	vendor, err := ctrl.locationService.UpdateLocation(c.Request.Context(), actor, vendorID, service.LocationInput{
		Lat:     *req.Lat,
		Lng:     *req.Lng,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, err, "update location")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"updated_at":   vendor.LastUpdated,
		"current_city": vendor.CurrentCity,
	})
}

// LiveFeed upgrades to a websocket streaming vendor location events.
// Authentication is optional; the token may be passed as ?token=.
// GET /api/v1/ws/locations
func (ctrl *LocationController) LiveFeed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)
	if err := ws.Serve(ctrl.hub, ctrl.upgrader, c.Writer, c.Request, userID); err != nil {
		// the upgrader has already written the failure response
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
