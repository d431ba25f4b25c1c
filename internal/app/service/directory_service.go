package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"gorm.io/gorm"
)

const DefaultRadiusMiles = 10.0

// DirectoryQuery filters the vendor directory. Origin enables the geofence.
// A nil RadiusMiles means DefaultRadiusMiles; an explicit value is used as
// given, so zero keeps only vendors at the origin and a negative radius
// keeps none.
type DirectoryQuery struct {
	Query       string
	Origin      *util.Coordinate
	RadiusMiles *float64
}

func (q DirectoryQuery) radius() float64 {
	if q.RadiusMiles == nil {
		return DefaultRadiusMiles
	}
	return *q.RadiusMiles
}

type VendorWithDistance struct {
	model.Vendor
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

// VendorCard is a vendor enriched for listing views.
type VendorCard struct {
	VendorWithDistance
	HoursSummary    map[string]string `json:"hours"`
	IsCurrentlyOpen bool              `json:"is_currently_open"`
	DisplayLocation *string           `json:"display_location"` // current city, only while open
	CuisineList     []string          `json:"cuisine_list"`
	LikeCount       *int64            `json:"like_count,omitempty"`
	SaveCount       *int64            `json:"save_count,omitempty"`
}

type VendorProfile struct {
	VendorCard
	Reel *model.Reel `json:"reel"`
}

type DirectoryService interface {
	SearchVendors(ctx context.Context, q DirectoryQuery) ([]VendorWithDistance, error)
	ListVendorCards(ctx context.Context, q DirectoryQuery, now time.Time) ([]VendorCard, error)
	ListVendorDirectory(ctx context.Context, q DirectoryQuery, now time.Time) ([]VendorCard, error)
	GetVendorProfile(ctx context.Context, vendorID uint, now time.Time) (*VendorProfile, error)
}

type directoryService struct {
	vendorRepo     repository.VendorRepository
	hoursRepo      repository.HoursRepository
	engagementRepo repository.EngagementRepository
	reelRepo       repository.ReelRepository
	loc            *time.Location
}

func NewDirectoryService(
	vendorRepo repository.VendorRepository,
	hoursRepo repository.HoursRepository,
	engagementRepo repository.EngagementRepository,
	reelRepo repository.ReelRepository,
	loc *time.Location,
) DirectoryService {
	if loc == nil {
		loc = time.Local
	}
	return &directoryService{
		vendorRepo:     vendorRepo,
		hoursRepo:      hoursRepo,
		engagementRepo: engagementRepo,
		reelRepo:       reelRepo,
		loc:            loc,
	}
}

// FilterVendors applies the text filter and optional geofence to vendors,
// keeping input order unless an origin is given, in which case results are
// stably sorted by ascending distance.
func FilterVendors(vendors []model.Vendor, q DirectoryQuery) []VendorWithDistance {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	radius := q.radius()

	results := make([]VendorWithDistance, 0, len(vendors))
	for _, v := range vendors {
		if needle != "" &&
			!strings.Contains(strings.ToLower(v.Name), needle) &&
			!strings.Contains(strings.ToLower(v.Cuisine), needle) {
			continue
		}

		item := VendorWithDistance{Vendor: v}
		if q.Origin != nil {
			pos := v.Coordinate()
			if pos == nil {
				continue
			}
			d := util.DistanceBetween(*q.Origin, *pos)
			if d > radius {
				continue
			}
			item.DistanceMiles = &d
		}
		results = append(results, item)
	}

	if q.Origin != nil {
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].DistanceMiles < *results[j].DistanceMiles
		})
	}
	return results
}

func (s *directoryService) SearchVendors(ctx context.Context, q DirectoryQuery) ([]VendorWithDistance, error) {
	vendors, err := s.vendorRepo.ListActive(ctx, repository.OrderByID)
	if err != nil {
		return nil, storageError("list vendors", err)
	}

	results := FilterVendors(vendors, q)
	logger.Debug("Vendor search completed", map[string]interface{}{
		"query":   q.Query,
		"geo":     q.Origin != nil,
		"scanned": len(vendors),
		"matched": len(results),
	})
	return results, nil
}

func (s *directoryService) ListVendorCards(ctx context.Context, q DirectoryQuery, now time.Time) ([]VendorCard, error) {
	return s.listCards(ctx, q, now, true)
}

func (s *directoryService) ListVendorDirectory(ctx context.Context, q DirectoryQuery, now time.Time) ([]VendorCard, error) {
	return s.listCards(ctx, q, now, false)
}

// listCards builds enriched cards. withCounts selects the card view, which
// also drops vendors that have no hours configured.
func (s *directoryService) listCards(ctx context.Context, q DirectoryQuery, now time.Time, withCounts bool) ([]VendorCard, error) {
	vendors, err := s.vendorRepo.ListActive(ctx, repository.OrderByName)
	if err != nil {
		return nil, storageError("list vendors", err)
	}

	matched := FilterVendors(vendors, q)
	ids := make([]uint, 0, len(matched))
	for _, v := range matched {
		ids = append(ids, v.ID)
	}

	hoursByVendor, err := s.hoursRepo.FindByVendors(ctx, ids)
	if err != nil {
		return nil, storageError("load hours", err)
	}

	var likes, saves map[uint]int64
	if withCounts {
		if likes, err = s.engagementRepo.CountByTargets(ctx, model.EngagementLike, model.TargetVendor, ids); err != nil {
			return nil, storageError("count likes", err)
		}
		if saves, err = s.engagementRepo.CountByTargets(ctx, model.EngagementSave, model.TargetVendor, ids); err != nil {
			return nil, storageError("count saves", err)
		}
	}

	cards := make([]VendorCard, 0, len(matched))
	for _, v := range matched {
		rows := hoursByVendor[v.ID]
		if withCounts && len(rows) == 0 {
			continue
		}
		card := s.buildCard(v, rows, now)
		if withCounts {
			likeCount, saveCount := likes[v.ID], saves[v.ID]
			card.LikeCount = &likeCount
			card.SaveCount = &saveCount
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *directoryService) buildCard(v VendorWithDistance, rows []model.VendorHours, now time.Time) VendorCard {
	local := now.In(s.loc)
	today := util.WeekdayIndex(local)

	var todayRow *util.DayHours
	for i := range rows {
		if rows[i].DayOfWeek == today {
			d := rows[i].DayHours()
			todayRow = &d
			break
		}
	}
	open := util.IsOpenAt(todayRow, local)

	card := VendorCard{
		VendorWithDistance: v,
		HoursSummary:       util.SummarizeHours(model.ToDayHours(rows)),
		IsCurrentlyOpen:    open,
		CuisineList:        v.CuisineList(),
	}
	if open && v.CurrentCity != nil && *v.CurrentCity != "" {
		city := *v.CurrentCity
		card.DisplayLocation = &city
	}
	return card
}

func (s *directoryService) GetVendorProfile(ctx context.Context, vendorID uint, now time.Time) (*VendorProfile, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, storageError("find vendor", err)
	}

	rows, err := s.hoursRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, storageError("load hours", err)
	}

	likes, err := s.engagementRepo.Count(ctx, model.EngagementLike, model.TargetVendor, vendorID)
	if err != nil {
		return nil, storageError("count likes", err)
	}
	saves, err := s.engagementRepo.Count(ctx, model.EngagementSave, model.TargetVendor, vendorID)
	if err != nil {
		return nil, storageError("count saves", err)
	}

	reels, err := s.reelRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, storageError("load reel", err)
	}

	profile := &VendorProfile{
		VendorCard: s.buildCard(VendorWithDistance{Vendor: *vendor}, rows, now),
	}
	profile.LikeCount = &likes
	profile.SaveCount = &saves
	if len(reels) > 0 {
		profile.Reel = &reels[0]
	}
	return profile, nil
}
