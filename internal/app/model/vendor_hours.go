package model

import "github.com/deliciousroute/deliciousroute-backend/pkg/util"

// VendorHours is one weekday row, Monday=0 .. Sunday=6.
type VendorHours struct {
	ID        uint    `gorm:"primarykey" json:"-"`
	VendorID  uint    `gorm:"not null;uniqueIndex:idx_vendor_hours_vendor_day" json:"-"`
	DayOfWeek int     `gorm:"not null;uniqueIndex:idx_vendor_hours_vendor_day" json:"day_of_week"`
	OpenTime  *string `gorm:"type:varchar(5)" json:"open_time"`  // HH:MM, nil when closed
	CloseTime *string `gorm:"type:varchar(5)" json:"close_time"` // HH:MM, nil when closed
	IsClosed  bool    `json:"is_closed"`
}

func (VendorHours) TableName() string {
	return "vendor_hours"
}

func (h *VendorHours) DayHours() util.DayHours {
	d := util.DayHours{DayOfWeek: h.DayOfWeek, IsClosed: h.IsClosed}
	if h.OpenTime != nil {
		d.OpenTime = *h.OpenTime
	}
	if h.CloseTime != nil {
		d.CloseTime = *h.CloseTime
	}
	return d
}

func ToDayHours(rows []VendorHours) []util.DayHours {
	out := make([]util.DayHours, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].DayHours())
	}
	return out
}
