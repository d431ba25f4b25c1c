package model

import "time"

// Reel is the single short video a vendor may publish.
type Reel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`
	Caption   string    `json:"caption"`
	VideoURL  string    `gorm:"not null" json:"video_url"`
	MediaKey  string    `gorm:"not null" json:"-"` // media store key backing VideoURL
	CreatedAt time.Time `json:"created_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"-"`
}

func (Reel) TableName() string {
	return "reels"
}
