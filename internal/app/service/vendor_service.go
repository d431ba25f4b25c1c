package service

import (
	"context"
	"errors"
	"strings"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// VendorInfoInput carries profile edits; nil fields are left unchanged.
type VendorInfoInput struct {
	Name            *string
	Cuisine         *string
	Description     *string
	FirstName       *string
	LastName        *string
	Website         *string
	SocialFacebook  *string
	SocialInstagram *string
	SocialTwitter   *string
	Address         *string
}

type VendorService interface {
	GetVendor(ctx context.Context, vendorID uint) (*model.Vendor, error)
	UpdateVendorInfo(ctx context.Context, actor Actor, vendorID uint, input VendorInfoInput) (*model.Vendor, error)
	UpdateLogo(ctx context.Context, actor Actor, vendorID uint, upload MediaUpload) (string, error)
	Deactivate(ctx context.Context, actor Actor, vendorID uint) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
	media      MediaStore
	maxBytes   int64
}

func NewVendorService(vendorRepo repository.VendorRepository, media MediaStore, maxImageBytes int64) VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		media:      media,
		maxBytes:   maxImageBytes,
	}
}

func (s *vendorService) GetVendor(ctx context.Context, vendorID uint) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, storageError("find vendor", err)
	}
	return vendor, nil
}

func (s *vendorService) UpdateVendorInfo(ctx context.Context, actor Actor, vendorID uint, input VendorInfoInput) (*model.Vendor, error) {
	vendor, err := s.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if err := actor.canManageVendor(vendor, false); err != nil {
		logger.Warn("Vendor update denied", map[string]interface{}{
			"vendor_id": vendorID,
			"user_id":   actor.UserID,
		})
		return nil, err
	}

	fields := map[string]interface{}{}
	set := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrVendorNameRequired
	}
	set("name", input.Name)
	set("cuisine", input.Cuisine)
	set("description", input.Description)
	set("first_name", input.FirstName)
	set("last_name", input.LastName)
	set("website", input.Website)
	set("social_facebook", input.SocialFacebook)
	set("social_instagram", input.SocialInstagram)
	set("social_twitter", input.SocialTwitter)
	set("address", input.Address)

	if len(fields) > 0 {
		if err := s.vendorRepo.UpdateFields(ctx, vendorID, fields); err != nil {
			return nil, storageError("update vendor", err)
		}
	}

	logger.Info("Vendor info updated", map[string]interface{}{
		"vendor_id": vendorID,
		"fields":    len(fields),
	})
	return s.GetVendor(ctx, vendorID)
}

// UpdateLogo stores a new logo image and points the vendor at it. The old
// logo file is removed best effort.
func (s *vendorService) UpdateLogo(ctx context.Context, actor Actor, vendorID uint, upload MediaUpload) (string, error) {
	vendor, err := s.GetVendor(ctx, vendorID)
	if err != nil {
		return "", err
	}
	if err := actor.canManageVendor(vendor, true); err != nil {
		return "", err
	}

	ext, err := checkUpload(upload, imageExtensions, s.maxBytes, ErrUnsupportedImage)
	if err != nil {
		return "", err
	}

	key := newMediaKey("logos", vendorID, ext)
	url, err := s.media.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return "", storageError("store logo", err)
	}

	if err := s.vendorRepo.UpdateFields(ctx, vendorID, map[string]interface{}{
		"logo_url": url,
		"logo_key": key,
	}); err != nil {
		_ = s.media.Delete(ctx, key)
		return "", storageError("update logo", err)
	}

	if vendor.LogoKey != "" {
		if err := s.media.Delete(ctx, vendor.LogoKey); err != nil {
			logger.Warn("Failed to delete previous logo", map[string]interface{}{
				"vendor_id": vendorID,
				"key":       vendor.LogoKey,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Vendor logo updated", map[string]interface{}{
		"vendor_id": vendorID,
		"url":       url,
	})
	return url, nil
}

func (s *vendorService) Deactivate(ctx context.Context, actor Actor, vendorID uint) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	if err := s.vendorRepo.UpdateFields(ctx, vendorID, map[string]interface{}{"is_active": false}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVendorNotFound
		}
		return storageError("deactivate vendor", err)
	}

	logger.Info("Vendor deactivated", map[string]interface{}{
		"vendor_id": vendorID,
		"admin_id":  actor.UserID,
	})
	return nil
}
