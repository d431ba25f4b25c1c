package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/config"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/controller"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/deliciousroute/deliciousroute-backend/internal/router"
	"github.com/deliciousroute/deliciousroute-backend/internal/storage"
	ws "github.com/deliciousroute/deliciousroute-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedGeocoder struct {
	city string
}

func (g fixedGeocoder) ReverseCity(_ context.Context, _, _ float64) (string, error) {
	return g.city, nil
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server:  config.ServerConfig{GinMode: gin.TestMode, TimeZone: "UTC"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}},
		Storage: config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicPath: "/static/uploads"},
	}

	media, err := storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicPath)
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	userRepo := repository.NewUserRepository(testDB)
	vendorRepo := repository.NewVendorRepository(testDB)
	hoursRepo := repository.NewHoursRepository(testDB)
	reelRepo := repository.NewReelRepository(testDB)
	engagementRepo := repository.NewEngagementRepository(testDB)

	loc := cfg.Server.Location()
	authService := service.NewAuthService(testDB, userRepo, vendorRepo, nil, "test-secret", 15*time.Minute, time.Hour)
	directoryService := service.NewDirectoryService(vendorRepo, hoursRepo, engagementRepo, reelRepo, loc)
	hoursService := service.NewHoursService(testDB, vendorRepo, hoursRepo, loc)
	engagementService := service.NewEngagementService(testDB, vendorRepo, reelRepo, engagementRepo)
	vendorService := service.NewVendorService(vendorRepo, media, 1<<20)
	reelService := service.NewReelService(testDB, vendorRepo, reelRepo, media, 1<<20)
	locationService := service.NewLocationService(vendorRepo, fixedGeocoder{city: "Austin"}, hub)
	exportService := service.NewExportService(vendorRepo, engagementRepo)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewVendorController(vendorService, directoryService, exportService),
		controller.NewDirectoryController(directoryService),
		controller.NewHoursController(hoursService),
		controller.NewEngagementController(engagementService),
		controller.NewReelController(reelService),
		controller.NewLocationController(locationService, hub, ws.NewUpgrader(cfg.CORS.AllowedOrigins)),
		controller.NewUserController(service.NewUserService(userRepo, media, 1<<20)),
		middleware.NewAuthMiddleware("test-secret", nil),
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB}
}

func (s *TestServer) request(t *testing.T, method, path, token string, body interface{}) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	require.Less(t, w.Code, 300, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func accessToken(body map[string]interface{}) string {
	return body["tokens"].(map[string]interface{})["access_token"].(string)
}

func TestVendorLifecycle(t *testing.T) {
	s := setupIntegrationTest(t)

	// vendor signs up and publishes an all-day schedule
	signup := s.request(t, http.MethodPost, "/api/v1/auth/register/vendor", "", map[string]string{
		"email":       "chef@example.com",
		"password":    "password123",
		"vendor_name": "Taco Truck",
		"cuisine":     "Mexican, Tacos",
	})
	vendorToken := accessToken(signup)
	vendorID := strconv.Itoa(int(signup["vendor"].(map[string]interface{})["id"].(float64)))

	days := map[string]map[string]interface{}{}
	for day := 0; day < 7; day++ {
		days[strconv.Itoa(day)] = map[string]interface{}{"open": "00:00", "close": "23:59"}
	}
	s.request(t, http.MethodPut, "/api/v1/vendors/"+vendorID+"/hours", vendorToken, days)

	// location update resolves the city
	moved := s.request(t, http.MethodPost, "/api/v1/vendors/"+vendorID+"/location", vendorToken, map[string]float64{
		"lat": 30.2672,
		"lng": -97.7431,
	})
	assert.Equal(t, true, moved["ok"])
	assert.Equal(t, "Austin", moved["current_city"])

	// a customer likes the vendor
	customer := s.request(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "diner@example.com",
		"password": "password123",
		"name":     "Diner",
	})
	liked := s.request(t, http.MethodPost, "/api/v1/vendors/"+vendorID+"/like", accessToken(customer), nil)
	assert.Equal(t, true, liked["liked"])

	cards := s.request(t, http.MethodGet, "/api/v1/vendors/cards?near=30.27,-97.74&radius=5", "", nil)
	list := cards["vendors"].([]interface{})
	require.Len(t, list, 1)
	card := list[0].(map[string]interface{})
	assert.Equal(t, "Taco Truck", card["name"])
	assert.Equal(t, true, card["is_currently_open"])
	assert.Equal(t, "Austin", card["display_location"])
	assert.EqualValues(t, 1, card["like_count"])
	assert.Equal(t, []interface{}{"Mexican", "Tacos"}, card["cuisine_list"])

	far := s.request(t, http.MethodGet, "/api/v1/vendors/cards?near=40.71,-74.00", "", nil)
	assert.EqualValues(t, 0, far["count"])

	me := s.request(t, http.MethodGet, "/api/v1/auth/me", vendorToken, nil)
	assert.Equal(t, "vendor", me["user"].(map[string]interface{})["role"])
}
