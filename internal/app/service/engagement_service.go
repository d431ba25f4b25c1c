package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

// EngagedVendor is a vendor in a user's liked or saved list.
type EngagedVendor struct {
	model.Vendor
	LikeCount int64 `json:"like_count"`
	SaveCount int64 `json:"save_count"`
}

type ReelFeedItem struct {
	ID            uint      `json:"id"`
	VendorID      uint      `json:"vendor_id"`
	Caption       string    `json:"caption"`
	VideoURL      string    `json:"video_url"`
	CreatedAt     time.Time `json:"created_at"`
	VendorName    string    `json:"vendor_name"`
	VendorLogoURL string    `json:"vendor_logo_url"`
	Likes         int64     `json:"likes"`
}

type EngagementService interface {
	Toggle(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, actorID uint) (bool, int64, error)
	ToggleLike(ctx context.Context, target model.TargetType, targetID, actorID uint) (bool, int64, error)
	ToggleSave(ctx context.Context, target model.TargetType, targetID, actorID uint) (bool, int64, error)
	ListLikedVendors(ctx context.Context, actor Actor, userID uint) ([]EngagedVendor, error)
	ListSavedVendors(ctx context.Context, actor Actor, userID uint) ([]EngagedVendor, error)
	ListReels(ctx context.Context) ([]ReelFeedItem, error)
}

type engagementService struct {
	db             *gorm.DB
	vendorRepo     repository.VendorRepository
	reelRepo       repository.ReelRepository
	engagementRepo repository.EngagementRepository
}

func NewEngagementService(
	db *gorm.DB,
	vendorRepo repository.VendorRepository,
	reelRepo repository.ReelRepository,
	engagementRepo repository.EngagementRepository,
) EngagementService {
	return &engagementService{
		db:             db,
		vendorRepo:     vendorRepo,
		reelRepo:       reelRepo,
		engagementRepo: engagementRepo,
	}
}

// Toggle flips the actor's edge on the target and returns the new state with
// the target's total for that kind. The insert is attempted first; hitting
// the unique constraint means the edge existed, so it is removed instead.
func (s *engagementService) Toggle(ctx context.Context, kind model.EngagementKind, target model.TargetType, targetID, actorID uint) (bool, int64, error) {
	logger.Debug("Toggling engagement", map[string]interface{}{
		"kind":      string(kind),
		"target":    string(target),
		"target_id": targetID,
		"user_id":   actorID,
	})

	if _, _, ok := model.EdgeTable(kind, target); !ok {
		return false, 0, fmt.Errorf("%w: unknown engagement %s on %s", ErrValidation, kind, target)
	}

	var (
		active bool
		count  int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureTarget(ctx, tx, target, targetID); err != nil {
			return err
		}

		edges := s.engagementRepo.WithTx(tx)
		inserted, err := edges.Insert(ctx, kind, target, targetID, actorID)
		if err != nil {
			return err
		}
		if !inserted {
			if err := edges.Delete(ctx, kind, target, targetID, actorID); err != nil {
				return err
			}
		}
		active = inserted

		count, err = edges.Count(ctx, kind, target, targetID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, 0, err
		}
		return false, 0, storageError("toggle "+string(kind), err)
	}

	logger.Info("Engagement toggled", map[string]interface{}{
		"kind":      string(kind),
		"target":    string(target),
		"target_id": targetID,
		"user_id":   actorID,
		"active":    active,
		"count":     count,
	})
	return active, count, nil
}

func (s *engagementService) ensureTarget(ctx context.Context, tx *gorm.DB, target model.TargetType, targetID uint) error {
	var err error
	var missing error
	switch target {
	case model.TargetVendor:
		_, err = s.vendorRepo.WithTx(tx).FindByID(ctx, targetID)
		missing = ErrVendorNotFound
	case model.TargetReel:
		_, err = s.reelRepo.WithTx(tx).FindByID(ctx, targetID)
		missing = ErrReelNotFound
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return err
}

func (s *engagementService) ToggleLike(ctx context.Context, target model.TargetType, targetID, actorID uint) (bool, int64, error) {
	return s.Toggle(ctx, model.EngagementLike, target, targetID, actorID)
}

func (s *engagementService) ToggleSave(ctx context.Context, target model.TargetType, targetID, actorID uint) (bool, int64, error) {
	return s.Toggle(ctx, model.EngagementSave, target, targetID, actorID)
}

func (s *engagementService) ListLikedVendors(ctx context.Context, actor Actor, userID uint) ([]EngagedVendor, error) {
	return s.listEngaged(ctx, actor, userID, model.EngagementLike)
}

func (s *engagementService) ListSavedVendors(ctx context.Context, actor Actor, userID uint) ([]EngagedVendor, error) {
	return s.listEngaged(ctx, actor, userID, model.EngagementSave)
}

func (s *engagementService) listEngaged(ctx context.Context, actor Actor, userID uint, kind model.EngagementKind) ([]EngagedVendor, error) {
	if actor.UserID != userID {
		logger.Warn("Engagement list access denied", map[string]interface{}{
			"user_id":   userID,
			"actor_id":  actor.UserID,
			"list_kind": string(kind),
		})
		return nil, ErrSelfOnly
	}

	vendors, err := s.engagementRepo.ListVendorsByUser(ctx, kind, userID)
	if err != nil {
		return nil, storageError("list engaged vendors", err)
	}

	ids := make([]uint, 0, len(vendors))
	for _, v := range vendors {
		ids = append(ids, v.ID)
	}
	likes, err := s.engagementRepo.CountByTargets(ctx, model.EngagementLike, model.TargetVendor, ids)
	if err != nil {
		return nil, storageError("count likes", err)
	}
	saves, err := s.engagementRepo.CountByTargets(ctx, model.EngagementSave, model.TargetVendor, ids)
	if err != nil {
		return nil, storageError("count saves", err)
	}

	result := make([]EngagedVendor, 0, len(vendors))
	for _, v := range vendors {
		result = append(result, EngagedVendor{
			Vendor:    v,
			LikeCount: likes[v.ID],
			SaveCount: saves[v.ID],
		})
	}
	return result, nil
}

func (s *engagementService) ListReels(ctx context.Context) ([]ReelFeedItem, error) {
	rows, err := s.reelRepo.ListFeed(ctx)
	if err != nil {
		return nil, storageError("list reels", err)
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	likes, err := s.engagementRepo.CountByTargets(ctx, model.EngagementLike, model.TargetReel, ids)
	if err != nil {
		return nil, storageError("count reel likes", err)
	}

	items := make([]ReelFeedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, ReelFeedItem{
			ID:            r.ID,
			VendorID:      r.VendorID,
			Caption:       r.Caption,
			VideoURL:      r.VideoURL,
			CreatedAt:     r.CreatedAt,
			VendorName:    r.VendorName,
			VendorLogoURL: r.VendorLogoURL,
			Likes:         likes[r.ID],
		})
	}
	return items, nil
}
