package controller

import (
	"net/http"
	"strconv"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type HoursController struct {
	hoursService service.HoursService
}

func NewHoursController(hoursService service.HoursService) *HoursController {
	return &HoursController{
		hoursService: hoursService,
	}
}

// DayRequest is one weekday in a schedule submission, keyed by "0".."6".
type DayRequest struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

// GetHours returns the weekly schedule of the owner's vendor
// GET /api/v1/vendors/:id/hours
func (ctrl *HoursController) GetHours(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hours, err := ctrl.hoursService.GetHours(c.Request.Context(), actor, vendorID)
	if err != nil {
		respondServiceError(c, err, "get hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hours": hours,
	})
}

// ReplaceHours replaces the weekly schedule with the submitted days
// PUT /api/v1/vendors/:id/hours
func (ctrl *HoursController) ReplaceHours(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req map[string]DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid hours request", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Hours must be an object keyed by day 0-6")
		return
	}

	days := make(map[int]service.DayInput, len(req))
	for key, day := range req {
		index, err := strconv.Atoi(key)
		if err != nil {
			apperrors.BadRequest(c, apperrors.VendorInvalidHours, "Day keys must be integers 0-6")
			return
		}
		days[index] = service.DayInput{Closed: day.Closed, Open: day.Open, Close: day.Close}
	}

	hours, err := ctrl.hoursService.ReplaceHours(c.Request.Context(), actor, vendorID, days)
	if err != nil {
		respondServiceError(c, err, "replace hours")
		return
	}

	log.Info("Vendor hours replaced", map[string]interface{}{
		"vendor_id": vendorID,
		"days":      len(hours),
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Hours updated successfully",
		"hours":   hours,
	})
}
