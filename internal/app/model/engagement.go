package model

import "time"

// EngagementKind is the kind of edge a user holds on a target.
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementSave EngagementKind = "save"
)

// TargetType is what an engagement edge points at.
type TargetType string

const (
	TargetVendor TargetType = "vendor"
	TargetReel   TargetType = "reel"
)

type VendorLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VendorID  uint      `gorm:"not null;uniqueIndex:idx_vendor_likes_vendor_user" json:"vendor_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vendor_likes_vendor_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (VendorLike) TableName() string { return "vendor_likes" }

type VendorSave struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VendorID  uint      `gorm:"not null;uniqueIndex:idx_vendor_saves_vendor_user" json:"vendor_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_vendor_saves_vendor_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (VendorSave) TableName() string { return "vendor_saves" }

type ReelLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReelID    uint      `gorm:"not null;uniqueIndex:idx_reel_likes_reel_user" json:"reel_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reel_likes_reel_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReelLike) TableName() string { return "reel_likes" }

type ReelSave struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReelID    uint      `gorm:"not null;uniqueIndex:idx_reel_saves_reel_user" json:"reel_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reel_saves_reel_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReelSave) TableName() string { return "reel_saves" }

// EdgeTable names the table and target column holding edges of kind on target.
func EdgeTable(kind EngagementKind, target TargetType) (table, targetColumn string, ok bool) {
	switch {
	case kind == EngagementLike && target == TargetVendor:
		return VendorLike{}.TableName(), "vendor_id", true
	case kind == EngagementSave && target == TargetVendor:
		return VendorSave{}.TableName(), "vendor_id", true
	case kind == EngagementLike && target == TargetReel:
		return ReelLike{}.TableName(), "reel_id", true
	case kind == EngagementSave && target == TargetReel:
		return ReelSave{}.TableName(), "reel_id", true
	}
	return "", "", false
}
