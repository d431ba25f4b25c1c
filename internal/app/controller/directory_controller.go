package controller

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

type DirectoryController struct {
	directoryService service.DirectoryService
}

func NewDirectoryController(directoryService service.DirectoryService) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
	}
}

// parseDirectoryQuery reads q, near=lat,lng and radius. A malformed near or
// radius is ignored rather than rejected; a parsed radius is kept as is.
func parseDirectoryQuery(c *gin.Context) service.DirectoryQuery {
	q := service.DirectoryQuery{
		Query: strings.TrimSpace(c.Query("q")),
	}

	if near := c.Query("near"); near != "" {
		if origin, ok := parseNear(near); ok {
			q.Origin = &origin
		}
	}

	if radius := c.Query("radius"); radius != "" {
		if miles, err := strconv.ParseFloat(radius, 64); err == nil && !math.IsNaN(miles) {
			q.RadiusMiles = &miles
		}
	}

	return q
}

func parseNear(near string) (util.Coordinate, bool) {
	parts := strings.Split(near, ",")
	if len(parts) != 2 {
		return util.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return util.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return util.Coordinate{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return util.Coordinate{}, false
	}
	return util.NewCoordinate(lat, lng), true
}

// Search lists active vendors matching the text and geofence filters
// GET /api/v1/vendors?q=&near=lat,lng&radius=
func (ctrl *DirectoryController) Search(c *gin.Context) {
	q := parseDirectoryQuery(c)

	vendors, err := ctrl.directoryService.SearchVendors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search vendors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": vendors,
		"count":   len(vendors),
	})
}

// Cards lists vendors with hours, open state and engagement counts
// GET /api/v1/vendors/cards
func (ctrl *DirectoryController) Cards(c *gin.Context) {
	q := parseDirectoryQuery(c)

	cards, err := ctrl.directoryService.ListVendorCards(c.Request.Context(), q, time.Now())
	if err != nil {
		respondServiceError(c, err, "list vendor cards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": cards,
		"count":   len(cards),
	})
}

// Directory lists vendors with hours and open state
// GET /api/v1/vendors/directory
func (ctrl *DirectoryController) Directory(c *gin.Context) {
	q := parseDirectoryQuery(c)

	cards, err := ctrl.directoryService.ListVendorDirectory(c.Request.Context(), q, time.Now())
	if err != nil {
		respondServiceError(c, err, "list vendor directory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors": cards,
		"count":   len(cards),
	})
}
