package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: email, Role: role}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedVendor(t *testing.T, gdb *gorm.DB, name, cuisine string) (*model.Vendor, Actor) {
	t.Helper()
	owner := seedUser(t, gdb, fmt.Sprintf("%s@vendors.test", name), model.RoleVendor)
	vendor := &model.Vendor{OwnerUserID: owner.ID, Name: name, Cuisine: cuisine, IsActive: true}
	require.NoError(t, gdb.Create(vendor).Error)
	return vendor, Actor{UserID: owner.ID, Role: model.RoleVendor}
}

func setPosition(t *testing.T, gdb *gorm.DB, vendorID uint, lat, lng float64) {
	t.Helper()
	require.NoError(t, gdb.Model(&model.Vendor{}).Where("id = ?", vendorID).
		Updates(map[string]interface{}{"lat": lat, "lng": lng}).Error)
}

func strPtr(s string) *string { return &s }

// memoryMediaStore keeps saved media in memory.
type memoryMediaStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saves   int
	deletes []string
	saveErr error
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{files: map[string][]byte{}}
}

func (m *memoryMediaStore) Save(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.files[key] = data
	m.saves++
	return "/media/" + key, nil
}

func (m *memoryMediaStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.files, key)
	return nil
}

func (m *memoryMediaStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func upload(name, content string) MediaUpload {
	return MediaUpload{
		Filename: name,
		Size:     int64(len(content)),
		Body:     bytes.NewBufferString(content),
	}
}

type stubGeocoder struct {
	city  string
	err   error
	calls int
}

func (g *stubGeocoder) ReverseCity(_ context.Context, _, _ float64) (string, error) {
	g.calls++
	return g.city, g.err
}

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.events = append(p.events, recordedEvent{eventType: eventType, payload: payload})
}

// failingReelRepo fails every Create, inside or outside a transaction.
type failingReelRepo struct {
	repository.ReelRepository
}

func (r failingReelRepo) WithTx(tx *gorm.DB) repository.ReelRepository {
	return failingReelRepo{ReelRepository: r.ReelRepository.WithTx(tx)}
}

func (r failingReelRepo) Create(context.Context, *model.Reel) error {
	return errors.New("insert failed")
}
