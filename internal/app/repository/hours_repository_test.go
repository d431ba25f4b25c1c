package repository

import (
	"context"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestHoursRepository_ReplaceAll(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewHoursRepository(testDB)
	ctx := context.Background()
	vendor := createVendor(t, testDB, "Noodle Bar", "Asian")

	first := []model.VendorHours{
		{DayOfWeek: 0, OpenTime: strPtr("09:00"), CloseTime: strPtr("17:00")},
		{DayOfWeek: 1, OpenTime: strPtr("09:00"), CloseTime: strPtr("17:00")},
		{DayOfWeek: 6, IsClosed: true},
	}
	require.NoError(t, repo.ReplaceAll(ctx, vendor.ID, first))

	rows, err := repo.FindByVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	second := []model.VendorHours{
		{DayOfWeek: 2, OpenTime: strPtr("10:00"), CloseTime: strPtr("14:00")},
	}
	require.NoError(t, repo.ReplaceAll(ctx, vendor.ID, second))

	rows, err = repo.FindByVendor(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].DayOfWeek)
	assert.Equal(t, "10:00", *rows[0].OpenTime)
}

func TestHoursRepository_FindByVendorDay(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewHoursRepository(testDB)
	ctx := context.Background()
	vendor := createVendor(t, testDB, "Bagel Stand", "Breakfast")

	require.NoError(t, repo.ReplaceAll(ctx, vendor.ID, []model.VendorHours{
		{DayOfWeek: 3, OpenTime: strPtr("06:00"), CloseTime: strPtr("11:00")},
	}))

	row, err := repo.FindByVendorDay(ctx, vendor.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "06:00", *row.OpenTime)

	row, err = repo.FindByVendorDay(ctx, vendor.ID, 4)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestHoursRepository_FindByVendors(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewHoursRepository(testDB)
	ctx := context.Background()
	a := createVendor(t, testDB, "A", "")
	b := createVendor(t, testDB, "B", "")

	require.NoError(t, repo.ReplaceAll(ctx, a.ID, []model.VendorHours{{DayOfWeek: 0, IsClosed: true}, {DayOfWeek: 1, IsClosed: true}}))

	byVendor, err := repo.FindByVendors(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, byVendor[a.ID], 2)
	assert.Empty(t, byVendor[b.ID])
}
