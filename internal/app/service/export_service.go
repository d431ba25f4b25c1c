package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const VendorExportSheet = "Vendors"

var vendorExportHeader = []interface{}{
	"ID", "Name", "Owner User ID", "Cuisine", "Active",
	"Latitude", "Longitude", "Current City", "Last Updated (UTC)",
	"Likes", "Saves", "Website", "Logo URL",
}

type ExportService interface {
	WriteVendorsXLSX(ctx context.Context, actor Actor, w io.Writer) (int, error)
}

type exportService struct {
	vendorRepo     repository.VendorRepository
	engagementRepo repository.EngagementRepository
}

func NewExportService(vendorRepo repository.VendorRepository, engagementRepo repository.EngagementRepository) ExportService {
	return &exportService{
		vendorRepo:     vendorRepo,
		engagementRepo: engagementRepo,
	}
}

// WriteVendorsXLSX writes one row per vendor, inactive ones included, and
// returns the number of vendor rows.
func (s *exportService) WriteVendorsXLSX(ctx context.Context, actor Actor, w io.Writer) (int, error) {
	if !actor.IsAdmin() {
		return 0, ErrAdminOnly
	}

	vendors, err := s.vendorRepo.ListAll(ctx)
	if err != nil {
		return 0, storageError("list vendors", err)
	}

	ids := make([]uint, 0, len(vendors))
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}
	likes, err := s.engagementRepo.CountByTargets(ctx, model.EngagementLike, model.TargetVendor, ids)
	if err != nil {
		return 0, storageError("count likes", err)
	}
	saves, err := s.engagementRepo.CountByTargets(ctx, model.EngagementSave, model.TargetVendor, ids)
	if err != nil {
		return 0, storageError("count saves", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", VendorExportSheet); err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(VendorExportSheet, "A1", &vendorExportHeader); err != nil {
		return 0, err
	}

	for i, v := range vendors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []interface{}{
			v.ID, v.Name, v.OwnerUserID, v.Cuisine, v.IsActive,
			optionalFloat(v.Lat), optionalFloat(v.Lng), optionalString(v.CurrentCity), optionalTime(v.LastUpdated),
			likes[v.ID], saves[v.ID], v.Website, v.LogoURL,
		}
		if err := f.SetSheetRow(VendorExportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write vendor %d: %w", v.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return 0, err
	}

	logger.Info("Vendor export written", map[string]interface{}{
		"admin_id": actor.UserID,
		"vendors":  len(vendors),
	})
	return len(vendors), nil
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format("2006-01-02 15:04:05")
}
