package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"gorm.io/gorm"
)

const EventVendorLocation = "vendor_location"

// ReverseGeocoder resolves coordinates to a city name. An empty name with a
// nil error means the lookup succeeded without a city.
type ReverseGeocoder interface {
	ReverseCity(ctx context.Context, lat, lng float64) (string, error)
}

// EventPublisher fans events out to live subscribers.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type LocationInput struct {
	Lat     float64
	Lng     float64
	Address string
}

// VendorLocationEvent is published after every successful location update.
type VendorLocationEvent struct {
	VendorID    uint      `json:"vendor_id"`
	Name        string    `json:"name"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	CurrentCity *string   `json:"current_city"`
	LastUpdated time.Time `json:"last_updated"`
}

type LocationService interface {
	UpdateLocation(ctx context.Context, actor Actor, vendorID uint, input LocationInput) (*model.Vendor, error)
	BackfillCities(ctx context.Context) (int, error)
}

type locationService struct {
	vendorRepo repository.VendorRepository
	geocoder   ReverseGeocoder
	publisher  EventPublisher
	now        func() time.Time
}

// NewLocationService wires live location updates. geocoder and publisher
// may be nil.
func NewLocationService(vendorRepo repository.VendorRepository, geocoder ReverseGeocoder, publisher EventPublisher) LocationService {
	return &locationService{
		vendorRepo: vendorRepo,
		geocoder:   geocoder,
		publisher:  publisher,
		now:        time.Now,
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// UpdateLocation records the vendor's position. A failed city lookup keeps
// the coordinates and leaves the stored city untouched.
func (s *locationService) UpdateLocation(ctx context.Context, actor Actor, vendorID uint, input LocationInput) (*model.Vendor, error) {
	logger.Debug("Updating vendor location", map[string]interface{}{
		"vendor_id": vendorID,
		"user_id":   actor.UserID,
	})

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, storageError("find vendor", err)
	}
	if err := actor.canManageVendor(vendor, true); err != nil {
		logger.Warn("Location update denied", map[string]interface{}{
			"vendor_id": vendorID,
			"user_id":   actor.UserID,
		})
		return nil, err
	}

	if !validCoordinates(input.Lat, input.Lng) {
		return nil, ErrInvalidCoordinates
	}

	updatedAt := s.now().UTC()
	fields := map[string]interface{}{
		"lat":          input.Lat,
		"lng":          input.Lng,
		"last_updated": updatedAt,
	}
	if addr := strings.TrimSpace(input.Address); addr != "" {
		fields["address"] = addr
	}

	if city, ok := s.lookupCity(ctx, vendorID, input.Lat, input.Lng); ok {
		if city == "" {
			fields["current_city"] = nil
		} else {
			fields["current_city"] = city
		}
	}

	if err := s.vendorRepo.UpdateFields(ctx, vendorID, fields); err != nil {
		return nil, storageError("update location", err)
	}

	updated, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, storageError("reload vendor", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(EventVendorLocation, VendorLocationEvent{
			VendorID:    updated.ID,
			Name:        updated.Name,
			Lat:         input.Lat,
			Lng:         input.Lng,
			CurrentCity: updated.CurrentCity,
			LastUpdated: updatedAt,
		})
	}

	logger.Info("Vendor location updated", map[string]interface{}{
		"vendor_id": vendorID,
		"city":      updated.CurrentCity,
	})
	return updated, nil
}

// lookupCity reports ok=false when the geocoder is missing or failed.
func (s *locationService) lookupCity(ctx context.Context, vendorID uint, lat, lng float64) (string, bool) {
	if s.geocoder == nil {
		return "", false
	}
	city, err := s.geocoder.ReverseCity(ctx, lat, lng)
	if err != nil {
		logger.Warn("Reverse geocoding failed, keeping previous city", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		return "", false
	}
	return city, true
}

// BackfillCities re-geocodes vendors that have coordinates but no city and
// returns how many were resolved.
func (s *locationService) BackfillCities(ctx context.Context) (int, error) {
	if s.geocoder == nil {
		return 0, nil
	}

	vendors, err := s.vendorRepo.ListMissingCity(ctx, 50)
	if err != nil {
		return 0, storageError("list vendors without city", err)
	}

	resolved := 0
	for _, v := range vendors {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		city, ok := s.lookupCity(ctx, v.ID, *v.Lat, *v.Lng)
		if !ok || city == "" {
			continue
		}
		if err := s.vendorRepo.UpdateFields(ctx, v.ID, map[string]interface{}{"current_city": city}); err != nil {
			logger.Error("Failed to store backfilled city", err, map[string]interface{}{
				"vendor_id": v.ID,
			})
			continue
		}
		resolved++
	}

	logger.Info("City backfill finished", map[string]interface{}{
		"candidates": len(vendors),
		"resolved":   resolved,
	})
	return resolved, nil
}
