package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/deliciousroute/deliciousroute-backend/internal/storage"
	ws "github.com/deliciousroute/deliciousroute-backend/internal/websocket"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// memoryRevoker is a token blacklist held in memory.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memoryRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

type controllerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	media  *storage.LocalStorage
	hub    *ws.Hub
}

// setupControllerTest wires every controller against an in-memory database
// and local media storage, mounted at the production paths.
func setupControllerTest(t *testing.T) *controllerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	media, err := storage.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	userRepo := repository.NewUserRepository(testDB)
	vendorRepo := repository.NewVendorRepository(testDB)
	hoursRepo := repository.NewHoursRepository(testDB)
	reelRepo := repository.NewReelRepository(testDB)
	engagementRepo := repository.NewEngagementRepository(testDB)

	revoker := &memoryRevoker{revoked: map[string]bool{}}
	authService := service.NewAuthService(testDB, userRepo, vendorRepo, revoker, testJWTSecret, 15*time.Minute, time.Hour)
	directoryService := service.NewDirectoryService(vendorRepo, hoursRepo, engagementRepo, reelRepo, time.UTC)
	hoursService := service.NewHoursService(testDB, vendorRepo, hoursRepo, time.UTC)
	engagementService := service.NewEngagementService(testDB, vendorRepo, reelRepo, engagementRepo)
	vendorService := service.NewVendorService(vendorRepo, media, 1024)
	userService := service.NewUserService(userRepo, media, 1024)
	reelService := service.NewReelService(testDB, vendorRepo, reelRepo, media, 1024)
	locationService := service.NewLocationService(vendorRepo, nil, hub)
	exportService := service.NewExportService(vendorRepo, engagementRepo)

	authCtrl := NewAuthController(authService)
	vendorCtrl := NewVendorController(vendorService, directoryService, exportService)
	directoryCtrl := NewDirectoryController(directoryService)
	hoursCtrl := NewHoursController(hoursService)
	engagementCtrl := NewEngagementController(engagementService)
	reelCtrl := NewReelController(reelService)
	locationCtrl := NewLocationController(locationService, hub, ws.NewUpgrader([]string{"*"}))
	userCtrl := NewUserController(userService)

	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, revoker)
	authed := authMiddleware.Authenticate()

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", authCtrl.RegisterCustomer)
	v1.POST("/auth/register/vendor", authCtrl.RegisterVendor)
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/logout", authed, authCtrl.Logout)
	v1.GET("/auth/me", authed, authCtrl.GetMe)

	v1.GET("/vendors", directoryCtrl.Search)
	v1.GET("/vendors/cards", directoryCtrl.Cards)
	v1.GET("/vendors/directory", directoryCtrl.Directory)
	v1.GET("/vendors/:id", vendorCtrl.GetVendor)
	v1.PUT("/vendors/:id", authed, vendorCtrl.UpdateVendor)
	v1.GET("/vendors/:id/hours", authed, hoursCtrl.GetHours)
	v1.PUT("/vendors/:id/hours", authed, hoursCtrl.ReplaceHours)
	v1.POST("/vendors/:id/location", authed, locationCtrl.UpdateLocation)
	v1.POST("/vendors/:id/logo", authed, vendorCtrl.UploadLogo)
	v1.POST("/vendors/:id/reel", authed, reelCtrl.UploadReel)
	v1.POST("/vendors/:id/like", authed, engagementCtrl.LikeVendor)
	v1.POST("/vendors/:id/save", authed, engagementCtrl.SaveVendor)

	v1.GET("/reels", engagementCtrl.ListReels)
	v1.POST("/reels/:id/like", authed, engagementCtrl.LikeReel)
	v1.POST("/reels/:id/save", authed, engagementCtrl.SaveReel)

	v1.GET("/users/:id/liked-vendors", authed, engagementCtrl.LikedVendors)
	v1.GET("/users/:id/saved-vendors", authed, engagementCtrl.SavedVendors)
	v1.POST("/users/:id/profile-picture", authed, userCtrl.UploadProfilePicture)

	v1.GET("/ws/locations", authMiddleware.OptionalAuthenticate(), locationCtrl.LiveFeed)

	admin := v1.Group("/admin", authed, authMiddleware.RequireRole(model.RoleAdmin))
	admin.PUT("/vendors/:id/deactivate", vendorCtrl.Deactivate)
	admin.GET("/vendors/export", vendorCtrl.ExportVendors)

	return &controllerTestEnv{db: testDB, router: router, media: media, hub: hub}
}

func (e *controllerTestEnv) seedUser(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: email, Role: role}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *controllerTestEnv) seedVendor(t *testing.T, name string) (*model.Vendor, *model.User) {
	t.Helper()
	owner := e.seedUser(t, fmt.Sprintf("%s@vendors.test", name), model.RoleVendor)
	vendor := &model.Vendor{OwnerUserID: owner.ID, Name: name, Cuisine: "Tacos", IsActive: true}
	require.NoError(t, e.db.Create(vendor).Error)
	return vendor, owner
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testJWTSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

// do sends a request with an optional JSON body and bearer token.
func (e *controllerTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// upload sends a multipart form with one file field and extra text fields.
func (e *controllerTestEnv) upload(t *testing.T, path, token, field, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
