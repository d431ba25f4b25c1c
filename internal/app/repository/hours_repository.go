package repository

import (
	"context"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

type HoursRepository interface {
	WithTx(tx *gorm.DB) HoursRepository
	FindByVendor(ctx context.Context, vendorID uint) ([]model.VendorHours, error)
	FindByVendorDay(ctx context.Context, vendorID uint, day int) (*model.VendorHours, error)
	FindByVendors(ctx context.Context, vendorIDs []uint) (map[uint][]model.VendorHours, error)
	ReplaceAll(ctx context.Context, vendorID uint, rows []model.VendorHours) error
}

type hoursRepository struct {
	db *gorm.DB
}

func NewHoursRepository(db *gorm.DB) HoursRepository {
	return &hoursRepository{db: db}
}

func (r *hoursRepository) WithTx(tx *gorm.DB) HoursRepository {
	return &hoursRepository{db: tx}
}

func (r *hoursRepository) FindByVendor(ctx context.Context, vendorID uint) ([]model.VendorHours, error) {
	var rows []model.VendorHours
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("day_of_week ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByVendorDay returns the row for one weekday, or nil when none is stored.
func (r *hoursRepository) FindByVendorDay(ctx context.Context, vendorID uint, day int) (*model.VendorHours, error) {
	var rows []model.VendorHours
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND day_of_week = ?", vendorID, day).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *hoursRepository) FindByVendors(ctx context.Context, vendorIDs []uint) (map[uint][]model.VendorHours, error) {
	result := make(map[uint][]model.VendorHours, len(vendorIDs))
	if len(vendorIDs) == 0 {
		return result, nil
	}

	var rows []model.VendorHours
	err := r.db.WithContext(ctx).
		Where("vendor_id IN ?", vendorIDs).
		Order("vendor_id ASC, day_of_week ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.VendorID] = append(result[row.VendorID], row)
	}
	return result, nil
}

// ReplaceAll deletes every row of the vendor then inserts rows. Callers run
// it inside a transaction.
func (r *hoursRepository) ReplaceAll(ctx context.Context, vendorID uint, rows []model.VendorHours) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("vendor_id = ?", vendorID).Delete(&model.VendorHours{}).Error; err != nil {
		logger.Error("Failed to clear vendor hours", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	for i := range rows {
		rows[i].VendorID = vendorID
	}
	if err := db.Create(&rows).Error; err != nil {
		logger.Error("Failed to insert vendor hours", err, map[string]interface{}{
			"vendor_id": vendorID,
			"days":      len(rows),
		})
		return err
	}
	return nil
}
