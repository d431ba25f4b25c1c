package service

import (
	"context"
	"strings"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupVendorServiceTest(t *testing.T) (VendorService, *memoryMediaStore, *gorm.DB) {
	testDB := setupServiceDB(t)
	store := newMemoryMediaStore()
	svc := NewVendorService(repository.NewVendorRepository(testDB), store, 1024)
	return svc, store, testDB
}

func TestVendorService_UpdateVendorInfo(t *testing.T) {
	svc, _, testDB := setupVendorServiceTest(t)
	ctx := context.Background()
	vendor, owner := seedVendor(t, testDB, "tacos", "Mexican")
	admin := seedUser(t, testDB, "admin@example.com", model.RoleAdmin)

	updated, err := svc.UpdateVendorInfo(ctx, owner, vendor.ID, VendorInfoInput{
		Description:     strPtr(" Best tacos in town "),
		SocialInstagram: strPtr("@tacos"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Best tacos in town", updated.Description)
	assert.Equal(t, "@tacos", updated.SocialInstagram)
	assert.Equal(t, "tacos", updated.Name, "omitted fields are left alone")

	_, err = svc.UpdateVendorInfo(ctx, owner, vendor.ID, VendorInfoInput{Name: strPtr("   ")})
	assert.ErrorIs(t, err, ErrVendorNameRequired)

	_, err = svc.UpdateVendorInfo(ctx, Actor{UserID: admin.ID, Role: model.RoleAdmin}, vendor.ID, VendorInfoInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotVendorOwner)

	_, err = svc.UpdateVendorInfo(ctx, owner, 9999, VendorInfoInput{})
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestVendorService_UpdateLogo(t *testing.T) {
	svc, store, testDB := setupVendorServiceTest(t)
	ctx := context.Background()
	vendor, owner := seedVendor(t, testDB, "tacos", "Mexican")

	firstURL, err := svc.UpdateLogo(ctx, owner, vendor.ID, upload("logo.PNG", "img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(firstURL, "/media/logos/"))

	secondURL, err := svc.UpdateLogo(ctx, owner, vendor.ID, upload("logo.jpg", "img2"))
	require.NoError(t, err)

	reloaded, err := svc.GetVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, secondURL, reloaded.LogoURL)
	assert.Equal(t, strings.TrimPrefix(secondURL, "/media/"), reloaded.LogoKey)
	assert.Equal(t, 1, store.count(), "previous logo is removed")

	tests := []struct {
		name    string
		upload  MediaUpload
		wantErr error
	}{
		{"Video is not an image", upload("logo.mp4", "x"), ErrUnsupportedImage},
		{"Too large", upload("logo.gif", strings.Repeat("x", 2048)), ErrFileTooLarge},
		{"Missing", MediaUpload{}, ErrEmptyUpload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateLogo(ctx, owner, vendor.ID, tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVendorService_Deactivate(t *testing.T) {
	svc, _, testDB := setupVendorServiceTest(t)
	ctx := context.Background()
	vendor, owner := seedVendor(t, testDB, "tacos", "Mexican")
	admin := Actor{UserID: seedUser(t, testDB, "admin@example.com", model.RoleAdmin).ID, Role: model.RoleAdmin}

	assert.ErrorIs(t, svc.Deactivate(ctx, owner, vendor.ID), ErrAdminOnly)
	require.NoError(t, svc.Deactivate(ctx, admin, vendor.ID))

	reloaded, err := svc.GetVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	assert.ErrorIs(t, svc.Deactivate(ctx, admin, 9999), ErrVendorNotFound)
}
