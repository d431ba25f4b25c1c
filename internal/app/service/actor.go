package service

import "github.com/deliciousroute/deliciousroute-backend/internal/app/model"

// Actor is the authenticated caller a mutation is performed for.
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// canManageVendor allows the owning vendor account, and admins when allowAdmin is set.
func (a Actor) canManageVendor(vendor *model.Vendor, allowAdmin bool) error {
	if allowAdmin && a.IsAdmin() {
		return nil
	}
	if a.Role == model.RoleVendor && vendor.OwnedBy(a.UserID) {
		return nil
	}
	return ErrNotVendorOwner
}
