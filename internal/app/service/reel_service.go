package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

const MaxCaptionLength = 500

type ReelService interface {
	ReplaceReel(ctx context.Context, actor Actor, vendorID uint, upload MediaUpload, caption string) (string, error)
}

type reelService struct {
	db         *gorm.DB
	vendorRepo repository.VendorRepository
	reelRepo   repository.ReelRepository
	media      MediaStore
	maxBytes   int64
}

func NewReelService(
	db *gorm.DB,
	vendorRepo repository.VendorRepository,
	reelRepo repository.ReelRepository,
	media MediaStore,
	maxBytes int64,
) ReelService {
	return &reelService{
		db:         db,
		vendorRepo: vendorRepo,
		reelRepo:   reelRepo,
		media:      media,
		maxBytes:   maxBytes,
	}
}

// ReplaceReel publishes upload as the vendor's only reel and returns its URL.
// All checks run before any I/O. Rows are swapped in one transaction; the
// previous files are removed only after commit.
func (s *reelService) ReplaceReel(ctx context.Context, actor Actor, vendorID uint, upload MediaUpload, caption string) (string, error) {
	logger.Info("Replacing vendor reel", map[string]interface{}{
		"vendor_id": vendorID,
		"user_id":   actor.UserID,
		"filename":  upload.Filename,
		"size":      upload.Size,
	})

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVendorNotFound
		}
		return "", storageError("find vendor", err)
	}
	if err := actor.canManageVendor(vendor, true); err != nil {
		logger.Warn("Reel replace denied", map[string]interface{}{
			"vendor_id": vendorID,
			"user_id":   actor.UserID,
		})
		return "", err
	}

	caption = strings.TrimSpace(caption)
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return "", ErrCaptionTooLong
	}

	ext, err := checkUpload(upload, videoExtensions, s.maxBytes, ErrUnsupportedVideo)
	if err != nil {
		return "", err
	}

	key := newMediaKey("reels", vendorID, ext)
	url, err := s.media.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		logger.Error("Failed to store reel media", err, map[string]interface{}{
			"vendor_id": vendorID,
			"key":       key,
		})
		return "", storageError("store reel media", err)
	}

	var previous []model.Reel
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reels := s.reelRepo.WithTx(tx)

		existing, err := reels.FindByVendor(ctx, vendorID)
		if err != nil {
			return err
		}
		if err := reels.DeleteByVendor(ctx, vendorID); err != nil {
			return err
		}
		if err := reels.Create(ctx, &model.Reel{
			VendorID: vendorID,
			Caption:  caption,
			VideoURL: url,
			MediaKey: key,
		}); err != nil {
			return err
		}
		previous = existing
		return nil
	})
	if err != nil {
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to remove orphaned reel media", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		return "", storageError("replace reel", err)
	}

	for _, old := range previous {
		if old.MediaKey == "" || old.MediaKey == key {
			continue
		}
		if err := s.media.Delete(ctx, old.MediaKey); err != nil {
			logger.Warn("Failed to delete previous reel media", map[string]interface{}{
				"vendor_id": vendorID,
				"key":       old.MediaKey,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Vendor reel replaced", map[string]interface{}{
		"vendor_id": vendorID,
		"replaced":  len(previous),
		"url":       url,
	})
	return url, nil
}
