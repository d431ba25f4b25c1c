package model

import (
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer" // browses, likes and saves
	RoleVendor   UserRole = "vendor"   // owns exactly one vendor profile
	RoleAdmin    UserRole = "admin"    // may act on any vendor
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	ProfileImage string    `json:"profile_image"`
	ProfileKey   string    `gorm:"column:profile_image_key" json:"-"` // media store key of ProfileImage
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:OwnerUserID" json:"vendor,omitempty"` // set for vendor accounts
}

func (User) TableName() string {
	return "users"
}
