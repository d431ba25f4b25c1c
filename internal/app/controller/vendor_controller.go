package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type VendorController struct {
	vendorService    service.VendorService
	directoryService service.DirectoryService
	exportService    service.ExportService
}

func NewVendorController(
	vendorService service.VendorService,
	directoryService service.DirectoryService,
	exportService service.ExportService,
) *VendorController {
	return &VendorController{
		vendorService:    vendorService,
		directoryService: directoryService,
		exportService:    exportService,
	}
}

type UpdateVendorRequest struct {
	Name            *string `json:"name"`
	Cuisine         *string `json:"cuisine"`
	Description     *string `json:"description"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Website         *string `json:"website"`
	SocialFacebook  *string `json:"social_facebook"`
	SocialInstagram *string `json:"social_instagram"`
	SocialTwitter   *string `json:"social_twitter"`
	Address         *string `json:"address"`
}

// GetVendor returns a vendor profile with hours, open state and reel
// GET /api/v1/vendors/:id
func (ctrl *VendorController) GetVendor(c *gin.Context) {
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := ctrl.directoryService.GetVendorProfile(c.Request.Context(), vendorID, time.Now())
	if err != nil {
		respondServiceError(c, err, "get vendor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor": profile,
	})
}

// UpdateVendor edits the owner's vendor profile
// PUT /api/v1/vendors/:id
func (ctrl *VendorController) UpdateVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid vendor update request", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	vendor, err := ctrl.vendorService.UpdateVendorInfo(c.Request.Context(), actor, vendorID, service.VendorInfoInput{
		Name:            req.Name,
		Cuisine:         req.Cuisine,
		Description:     req.Description,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Website:         req.Website,
		SocialFacebook:  req.SocialFacebook,
		SocialInstagram: req.SocialInstagram,
		SocialTwitter:   req.SocialTwitter,
		Address:         req.Address,
	})
	if err != nil {
		respondServiceError(c, err, "update vendor")
		return
	}

	log.Info("Vendor updated", map[string]interface{}{
		"vendor_id": vendorID,
		"user_id":   actor.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor updated successfully",
		"vendor":  vendor,
	})
}

// UploadLogo replaces the vendor logo
// POST /api/v1/vendors/:id/logo
func (ctrl *VendorController) UploadLogo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	upload, closeFile, err := formUpload(c, "photo")
	if err != nil {
		log.Warn("Failed to read logo upload", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadMissingFile, "Could not read the uploaded file")
		return
	}
	defer closeFile()

	url, err := ctrl.vendorService.UpdateLogo(c.Request.Context(), actor, vendorID, upload)
	if err != nil {
		respondServiceError(c, err, "upload logo")
		return
	}

	log.Info("Vendor logo updated", map[string]interface{}{
		"vendor_id": vendorID,
		"size":      upload.Size,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}

// Deactivate hides a vendor from every listing
// PUT /api/v1/admin/vendors/:id/deactivate
func (ctrl *VendorController) Deactivate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}
	vendorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.vendorService.Deactivate(c.Request.Context(), actor, vendorID); err != nil {
		respondServiceError(c, err, "deactivate vendor")
		return
	}

	log.Info("Vendor deactivated", map[string]interface{}{
		"vendor_id": vendorID,
		"admin_id":  actor.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Vendor deactivated successfully",
	})
}

// ExportVendors streams every vendor as an XLSX workbook
// GET /api/v1/admin/vendors/export
func (ctrl *VendorController) ExportVendors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	count, err := ctrl.exportService.WriteVendorsXLSX(c.Request.Context(), actor, &buf)
	if err != nil {
		respondServiceError(c, err, "export vendors")
		return
	}

	log.Info("Vendors exported", map[string]interface{}{
		"count": count,
	})

	filename := fmt.Sprintf("vendors-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
