package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker records logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type VendorSignupInput struct {
	RegisterInput
	VendorName string
	Cuisine    string
	FirstName  string
	LastName   string
}

type AuthService interface {
	RegisterCustomer(ctx context.Context, input RegisterInput) (*model.User, *util.TokenPair, error)
	RegisterVendor(ctx context.Context, input VendorSignupInput) (*model.User, *model.Vendor, *util.TokenPair, error)
	Login(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
}

type authService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	vendorRepo    repository.VendorRepository
	revoker       TokenRevoker
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService wires account operations. revoker may be nil, in which case
// logout only ends the client session.
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	vendorRepo repository.VendorRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		db:            db,
		userRepo:      userRepo,
		vendorRepo:    vendorRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) RegisterCustomer(ctx context.Context, input RegisterInput) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting customer registration", map[string]interface{}{
		"email": input.Email,
	})

	user, err := s.newUser(ctx, input, model.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, storageError("create user", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Customer registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// RegisterVendor creates the vendor account and its profile in one transaction.
func (s *authService) RegisterVendor(ctx context.Context, input VendorSignupInput) (*model.User, *model.Vendor, *util.TokenPair, error) {
	logger.Info("Attempting vendor registration", map[string]interface{}{
		"email":       input.Email,
		"vendor_name": input.VendorName,
	})

	if strings.TrimSpace(input.VendorName) == "" {
		return nil, nil, nil, ErrVendorNameRequired
	}

	user, err := s.newUser(ctx, input.RegisterInput, model.RoleVendor)
	if err != nil {
		return nil, nil, nil, err
	}

	vendor := &model.Vendor{
		Name:      strings.TrimSpace(input.VendorName),
		Cuisine:   strings.TrimSpace(input.Cuisine),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		IsActive:  true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		vendor.OwnerUserID = user.ID
		return s.vendorRepo.WithTx(tx).Create(ctx, vendor)
	})
	if err != nil {
		logger.Error("Vendor registration transaction failed", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, nil, storageError("create vendor account", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("Vendor registered successfully", map[string]interface{}{
		"user_id":   user.ID,
		"vendor_id": vendor.ID,
	})
	user.Vendor = vendor
	return user, vendor, tokens, nil
}

func (s *authService) newUser(ctx context.Context, input RegisterInput, role model.UserRole) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError("find user", err)
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
	}, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, storageError("find user", err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithVendor(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.revoker == nil {
		logger.Debug("Token revocation disabled, logout is client-side only")
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
		logger.Error("Failed to revoke token", err)
		return storageError("revoke token", err)
	}

	logger.Info("Token revoked on logout", map[string]interface{}{
		"ttl": ttl.String(),
	})
	return nil
}
