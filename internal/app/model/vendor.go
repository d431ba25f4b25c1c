package model

import (
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
)

type Vendor struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	OwnerUserID     uint       `gorm:"uniqueIndex;not null" json:"owner_user_id"` // one vendor per owner
	Name            string     `gorm:"not null" json:"name"`
	Cuisine         string     `json:"cuisine"` // comma separated
	Description     string     `json:"description"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Website         string     `json:"website"`
	SocialFacebook  string     `json:"social_facebook"`
	SocialInstagram string     `json:"social_instagram"`
	SocialTwitter   string     `json:"social_twitter"`
	IsActive        bool       `gorm:"index" json:"is_active"`
	Lat             *float64   `json:"lat"`
	Lng             *float64   `json:"lng"`
	Address         string     `json:"address"`
	LastUpdated     *time.Time `json:"last_updated"` // last live location update, UTC
	CurrentCity     *string    `json:"current_city"`
	LogoURL         string     `json:"logo_url"`
	LogoKey         string     `json:"-"` // media store key of the current logo
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Owner *User         `gorm:"foreignKey:OwnerUserID" json:"-"`
	Hours []VendorHours `gorm:"foreignKey:VendorID" json:"hours,omitempty"`
}

func (Vendor) TableName() string {
	return "vendors"
}

// Coordinate returns the vendor position, or nil when either axis is unset.
func (v *Vendor) Coordinate() *util.Coordinate {
	if v.Lat == nil || v.Lng == nil {
		return nil
	}
	c := util.NewCoordinate(*v.Lat, *v.Lng)
	return &c
}

// CuisineList splits Cuisine on commas, trimming blanks.
func (v *Vendor) CuisineList() []string {
	list := []string{}
	for _, part := range strings.Split(v.Cuisine, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// OwnedBy reports whether userID owns the vendor.
func (v *Vendor) OwnedBy(userID uint) bool {
	return v.OwnerUserID == userID
}
