package service

import (
	"context"
	"errors"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserService interface {
	GetUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfileImage(ctx context.Context, actor Actor, userID uint, upload MediaUpload) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	media    MediaStore
	maxBytes int64
}

func NewUserService(userRepo repository.UserRepository, media MediaStore, maxImageBytes int64) UserService {
	return &userService{
		userRepo: userRepo,
		media:    media,
		maxBytes: maxImageBytes,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}
	return user, nil
}

// UpdateProfileImage stores a new profile picture for the caller's own
// account. The previous picture is removed best effort.
func (s *userService) UpdateProfileImage(ctx context.Context, actor Actor, userID uint, upload MediaUpload) (string, error) {
	if actor.UserID != userID {
		logger.Warn("Profile picture update denied", map[string]interface{}{
			"user_id":  userID,
			"actor_id": actor.UserID,
		})
		return "", ErrSelfOnly
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	ext, err := checkUpload(upload, imageExtensions, s.maxBytes, ErrUnsupportedImage)
	if err != nil {
		return "", err
	}

	key := newMediaKey("profiles", userID, ext)
	url, err := s.media.Save(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return "", storageError("store profile picture", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"profile_image":     url,
		"profile_image_key": key,
	}); err != nil {
		_ = s.media.Delete(ctx, key)
		return "", storageError("update profile picture", err)
	}

	if user.ProfileKey != "" {
		if err := s.media.Delete(ctx, user.ProfileKey); err != nil {
			logger.Warn("Failed to delete previous profile picture", map[string]interface{}{
				"user_id": userID,
				"key":     user.ProfileKey,
				"error":   err.Error(),
			})
		}
	}

	logger.Info("Profile picture updated", map[string]interface{}{
		"user_id": userID,
		"url":     url,
	})
	return url, nil
}
