package service

import (
	"context"
	"errors"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"gorm.io/gorm"
)

// DayInput is the submitted schedule for one weekday.
type DayInput struct {
	Closed bool
	Open   string
	Close  string
}

type HoursService interface {
	GetHours(ctx context.Context, actor Actor, vendorID uint) ([]model.VendorHours, error)
	ReplaceHours(ctx context.Context, actor Actor, vendorID uint, days map[int]DayInput) ([]model.VendorHours, error)
	IsOpenNow(ctx context.Context, vendorID uint, now time.Time) (bool, error)
	Location() *time.Location
}

type hoursService struct {
	db         *gorm.DB
	vendorRepo repository.VendorRepository
	hoursRepo  repository.HoursRepository
	loc        *time.Location
}

// NewHoursService evaluates stored naive times in loc.
func NewHoursService(
	db *gorm.DB,
	vendorRepo repository.VendorRepository,
	hoursRepo repository.HoursRepository,
	loc *time.Location,
) HoursService {
	if loc == nil {
		loc = time.Local
	}
	return &hoursService{
		db:         db,
		vendorRepo: vendorRepo,
		hoursRepo:  hoursRepo,
		loc:        loc,
	}
}

func (s *hoursService) Location() *time.Location {
	return s.loc
}

func (s *hoursService) ownedVendor(ctx context.Context, actor Actor, vendorID uint) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, storageError("find vendor", err)
	}
	if err := actor.canManageVendor(vendor, false); err != nil {
		logger.Warn("Hours access denied", map[string]interface{}{
			"vendor_id": vendorID,
			"user_id":   actor.UserID,
		})
		return nil, err
	}
	return vendor, nil
}

func (s *hoursService) GetHours(ctx context.Context, actor Actor, vendorID uint) ([]model.VendorHours, error) {
	if _, err := s.ownedVendor(ctx, actor, vendorID); err != nil {
		return nil, err
	}

	rows, err := s.hoursRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, storageError("load hours", err)
	}
	return rows, nil
}

// ReplaceHours swaps the whole weekly schedule. Closed days are stored
// closed, days with both times are stored open, anything else is dropped.
func (s *hoursService) ReplaceHours(ctx context.Context, actor Actor, vendorID uint, days map[int]DayInput) ([]model.VendorHours, error) {
	logger.Info("Replacing vendor hours", map[string]interface{}{
		"vendor_id": vendorID,
		"user_id":   actor.UserID,
		"days":      len(days),
	})

	if _, err := s.ownedVendor(ctx, actor, vendorID); err != nil {
		return nil, err
	}

	rows, err := buildHoursRows(days)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.hoursRepo.WithTx(tx).ReplaceAll(ctx, vendorID, rows)
	})
	if err != nil {
		return nil, storageError("replace hours", err)
	}

	logger.Info("Vendor hours replaced", map[string]interface{}{
		"vendor_id":   vendorID,
		"stored_days": len(rows),
	})
	return rows, nil
}

func buildHoursRows(days map[int]DayInput) ([]model.VendorHours, error) {
	for day := range days {
		if day < 0 || day > 6 {
			return nil, ErrInvalidDay
		}
	}

	rows := make([]model.VendorHours, 0, len(days))
	for day := 0; day < 7; day++ {
		input, ok := days[day]
		if !ok {
			continue
		}
		switch {
		case input.Closed:
			rows = append(rows, model.VendorHours{DayOfWeek: day, IsClosed: true})
		case input.Open != "" && input.Close != "":
			if !util.ValidClock(input.Open) || !util.ValidClock(input.Close) {
				return nil, ErrInvalidClock
			}
			open, closeAt := input.Open, input.Close
			rows = append(rows, model.VendorHours{DayOfWeek: day, OpenTime: &open, CloseTime: &closeAt})
		}
	}
	return rows, nil
}

// IsOpenNow loads only the weekday row matching now in the service time zone.
func (s *hoursService) IsOpenNow(ctx context.Context, vendorID uint, now time.Time) (bool, error) {
	local := now.In(s.loc)
	row, err := s.hoursRepo.FindByVendorDay(ctx, vendorID, util.WeekdayIndex(local))
	if err != nil {
		return false, storageError("load hours", err)
	}
	if row == nil {
		return false, nil
	}
	day := row.DayHours()
	return util.IsOpenAt(&day, local), nil
}
