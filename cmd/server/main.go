package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/config"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/controller"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/internal/db"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/deliciousroute/deliciousroute-backend/internal/router"
	"github.com/deliciousroute/deliciousroute-backend/internal/scheduler"
	"github.com/deliciousroute/deliciousroute-backend/internal/storage"
	ws "github.com/deliciousroute/deliciousroute-backend/internal/websocket"
	"github.com/deliciousroute/deliciousroute-backend/pkg/logger"
	"github.com/deliciousroute/deliciousroute-backend/pkg/redis"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting DeliciousRoute Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := util.SetPasswordCost(cfg.JWT.PasswordCost); err != nil {
		logger.Fatal("Invalid password hash cost", err)
	}

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token revocation is only available with Redis
	var revoker service.TokenRevoker
	var blacklist middleware.TokenBlacklist
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer client.Close()
		tokenBlacklist := redis.NewTokenBlacklist(client)
		revoker = tokenBlacklist
		blacklist = tokenBlacklist
	} else {
		logger.Warn("REDIS_HOST not set, logout will not revoke tokens")
	}

	media, err := newMediaStore(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize media storage", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	geocoder := util.NewNominatimGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)
	loc := cfg.Server.Location()

	// Initialize repositories
	gdb := db.GetDB()
	userRepo := repository.NewUserRepository(gdb)
	vendorRepo := repository.NewVendorRepository(gdb)
	hoursRepo := repository.NewHoursRepository(gdb)
	reelRepo := repository.NewReelRepository(gdb)
	engagementRepo := repository.NewEngagementRepository(gdb)

	// Initialize services
	authService := service.NewAuthService(
		gdb,
		userRepo,
		vendorRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	directoryService := service.NewDirectoryService(vendorRepo, hoursRepo, engagementRepo, reelRepo, loc)
	hoursService := service.NewHoursService(gdb, vendorRepo, hoursRepo, loc)
	engagementService := service.NewEngagementService(gdb, vendorRepo, reelRepo, engagementRepo)
	vendorService := service.NewVendorService(vendorRepo, media, cfg.Upload.MaxImageBytes)
	userService := service.NewUserService(userRepo, media, cfg.Upload.MaxImageBytes)
	reelService := service.NewReelService(gdb, vendorRepo, reelRepo, media, cfg.Upload.MaxVideoBytes)
	locationService := service.NewLocationService(vendorRepo, geocoder, hub)
	exportService := service.NewExportService(vendorRepo, engagementRepo)

	backfill := scheduler.NewCityBackfillScheduler(locationService, cfg.Scheduler.CityBackfillSpec)
	if err := backfill.Start(); err != nil {
		logger.Fatal("Failed to start city backfill scheduler", err)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	vendorController := controller.NewVendorController(vendorService, directoryService, exportService)
	directoryController := controller.NewDirectoryController(directoryService)
	hoursController := controller.NewHoursController(hoursService)
	engagementController := controller.NewEngagementController(engagementService)
	reelController := controller.NewReelController(reelService)
	locationController := controller.NewLocationController(locationService, hub, ws.NewUpgrader(cfg.CORS.AllowedOrigins))
	userController := controller.NewUserController(userService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)

	// Setup router
	r := router.NewRouter(
		authController,
		vendorController,
		directoryController,
		hoursController,
		engagementController,
		reelController,
		locationController,
		userController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown did not complete", err)
	}
	backfill.Stop()
	hub.Stop()

	logger.Info("Server stopped successfully")
}

func newMediaStore(cfg *config.StorageConfig) (service.MediaStore, error) {
	if cfg.Driver == "s3" {
		logger.Info("Using S3 media storage", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
		return storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL), nil
	}

	logger.Info("Using local media storage", map[string]interface{}{
		"dir":         cfg.LocalDir,
		"public_path": cfg.PublicPath,
	})
	local, err := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicPath)
	if err != nil {
		return nil, err
	}
	return local, nil
}
