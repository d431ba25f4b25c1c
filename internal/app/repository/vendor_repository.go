package repository

import (
	"context"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// VendorOrder selects the ordering of vendor listings.
type VendorOrder string

const (
	OrderByID   VendorOrder = "id"
	OrderByName VendorOrder = "name"
)

type VendorRepository interface {
	WithTx(tx *gorm.DB) VendorRepository
	Create(ctx context.Context, vendor *model.Vendor) error
	FindByID(ctx context.Context, id uint) (*model.Vendor, error)
	FindByOwner(ctx context.Context, ownerUserID uint) (*model.Vendor, error)
	ListActive(ctx context.Context, order VendorOrder) ([]model.Vendor, error)
	ListAll(ctx context.Context) ([]model.Vendor, error)
	ListMissingCity(ctx context.Context, limit int) ([]model.Vendor, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	return &vendorRepository{db: tx}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	logger.Debug("Creating vendor in database", map[string]interface{}{
		"name":          vendor.Name,
		"owner_user_id": vendor.OwnerUserID,
	})

	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		logger.Error("Failed to create vendor in database", err, map[string]interface{}{
			"name":          vendor.Name,
			"owner_user_id": vendor.OwnerUserID,
		})
		return err
	}

	logger.Debug("Vendor created in database", map[string]interface{}{
		"vendor_id": vendor.ID,
	})
	return nil
}

func (r *vendorRepository) FindByID(ctx context.Context, id uint) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindByOwner(ctx context.Context, ownerUserID uint) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.db.WithContext(ctx).Where("owner_user_id = ?", ownerUserID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) ListActive(ctx context.Context, order VendorOrder) ([]model.Vendor, error) {
	orderClause := "id ASC"
	if order == OrderByName {
		orderClause = "name ASC, id ASC"
	}

	var vendors []model.Vendor
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(orderClause).
		Find(&vendors).Error
	if err != nil {
		logger.Error("Failed to list active vendors", err, map[string]interface{}{
			"order": string(order),
		})
		return nil, err
	}

	logger.Debug("Active vendors listed", map[string]interface{}{
		"count": len(vendors),
		"order": string(order),
	})
	return vendors, nil
}

func (r *vendorRepository) ListAll(ctx context.Context) ([]model.Vendor, error) {
	var vendors []model.Vendor
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// ListMissingCity returns vendors with coordinates but no resolved city.
func (r *vendorRepository) ListMissingCity(ctx context.Context, limit int) ([]model.Vendor, error) {
	var vendors []model.Vendor
	query := r.db.WithContext(ctx).
		Where("lat IS NOT NULL AND lng IS NOT NULL").
		Where("current_city IS NULL OR current_city = ''").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *vendorRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	logger.Debug("Updating vendor in database", map[string]interface{}{
		"vendor_id": id,
		"fields":    len(fields),
	})

	result := r.db.WithContext(ctx).Model(&model.Vendor{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update vendor in database", result.Error, map[string]interface{}{
			"vendor_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
