package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, gdb *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: email, Role: role}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func createVendor(t *testing.T, gdb *gorm.DB, name, cuisine string) *model.Vendor {
	t.Helper()
	owner := createUser(t, gdb, fmt.Sprintf("%s@vendors.test", name), model.RoleVendor)
	vendor := &model.Vendor{OwnerUserID: owner.ID, Name: name, Cuisine: cuisine, IsActive: true}
	require.NoError(t, NewVendorRepository(gdb).Create(context.Background(), vendor))
	return vendor
}
