package repository

import (
	"context"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReelFeedRow is a reel joined with its vendor's display fields.
type ReelFeedRow struct {
	model.Reel
	VendorName    string
	VendorLogoURL string
}

type ReelRepository interface {
	WithTx(tx *gorm.DB) ReelRepository
	Create(ctx context.Context, reel *model.Reel) error
	FindByID(ctx context.Context, id uint) (*model.Reel, error)
	FindByVendor(ctx context.Context, vendorID uint) ([]model.Reel, error)
	DeleteByVendor(ctx context.Context, vendorID uint) error
	ListFeed(ctx context.Context) ([]ReelFeedRow, error)
}

type reelRepository struct {
	db *gorm.DB
}

func NewReelRepository(db *gorm.DB) ReelRepository {
	return &reelRepository{db: db}
}

func (r *reelRepository) WithTx(tx *gorm.DB) ReelRepository {
	return &reelRepository{db: tx}
}

func (r *reelRepository) Create(ctx context.Context, reel *model.Reel) error {
	if err := r.db.WithContext(ctx).Create(reel).Error; err != nil {
		logger.Error("Failed to create reel in database", err, map[string]interface{}{
			"vendor_id": reel.VendorID,
		})
		return err
	}
	return nil
}

func (r *reelRepository) FindByID(ctx context.Context, id uint) (*model.Reel, error) {
	var reel model.Reel
	if err := r.db.WithContext(ctx).First(&reel, id).Error; err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *reelRepository) FindByVendor(ctx context.Context, vendorID uint) ([]model.Reel, error) {
	var reels []model.Reel
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC, id DESC").
		Find(&reels).Error
	if err != nil {
		return nil, err
	}
	return reels, nil
}

func (r *reelRepository) DeleteByVendor(ctx context.Context, vendorID uint) error {
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Delete(&model.Reel{}).Error; err != nil {
		logger.Error("Failed to delete vendor reels", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return err
	}
	return nil
}

// ListFeed returns every reel with vendor name and logo, newest first.
func (r *reelRepository) ListFeed(ctx context.Context) ([]ReelFeedRow, error) {
	var rows []ReelFeedRow
	err := r.db.WithContext(ctx).
		Table("reels").
		Select("reels.*, vendors.name AS vendor_name, vendors.logo_url AS vendor_logo_url").
		Joins("JOIN vendors ON vendors.id = reels.vendor_id").
		Order("reels.created_at DESC, reels.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
