package router

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/config"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/controller"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	vendorController     *controller.VendorController
	directoryController  *controller.DirectoryController
	hoursController      *controller.HoursController
	engagementController *controller.EngagementController
	reelController       *controller.ReelController
	locationController   *controller.LocationController
	userController       *controller.UserController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	vendorController *controller.VendorController,
	directoryController *controller.DirectoryController,
	hoursController *controller.HoursController,
	engagementController *controller.EngagementController,
	reelController *controller.ReelController,
	locationController *controller.LocationController,
	userController *controller.UserController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		vendorController:     vendorController,
		directoryController:  directoryController,
		hoursController:      hoursController,
		engagementController: engagementController,
		reelController:       reelController,
		locationController:   locationController,
		userController:       userController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "DeliciousRoute API is running",
		})
	})

	// Uploaded media is served by the API only when stored on local disk
	if r.config.Storage.Driver == "local" {
		router.Static(r.config.Storage.PublicPath, r.config.Storage.LocalDir)
	}

	authenticated := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.RegisterCustomer)
			auth.POST("/register/vendor", r.authController.RegisterVendor)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", authenticated, r.authController.Logout)
			auth.GET("/me", authenticated, r.authController.GetMe)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.GET("", r.directoryController.Search)
			vendors.GET("/cards", r.directoryController.Cards)
			vendors.GET("/directory", r.directoryController.Directory)
			vendors.GET("/:id", r.vendorController.GetVendor)

			vendors.PUT("/:id",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.vendorController.UpdateVendor,
			)
			vendors.GET("/:id/hours",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.hoursController.GetHours,
			)
			vendors.PUT("/:id/hours",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.hoursController.ReplaceHours,
			)
			vendors.POST("/:id/location",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor, model.RoleAdmin),
				r.locationController.UpdateLocation,
			)
			vendors.POST("/:id/logo",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor, model.RoleAdmin),
				r.vendorController.UploadLogo,
			)
			vendors.POST("/:id/reel",
				authenticated,
				r.authMiddleware.RequireRole(model.RoleVendor, model.RoleAdmin),
				r.reelController.UploadReel,
			)
			vendors.POST("/:id/like", authenticated, r.engagementController.LikeVendor)
			vendors.POST("/:id/save", authenticated, r.engagementController.SaveVendor)
		}

		reels := v1.Group("/reels")
		{
			reels.GET("", r.engagementController.ListReels)
			reels.POST("/:id/like", authenticated, r.engagementController.LikeReel)
			reels.POST("/:id/save", authenticated, r.engagementController.SaveReel)
		}

		users := v1.Group("/users")
		users.Use(authenticated)
		{
			users.GET("/:id/liked-vendors", r.engagementController.LikedVendors)
			users.GET("/:id/saved-vendors", r.engagementController.SavedVendors)
			users.POST("/:id/profile-picture", r.userController.UploadProfilePicture)
		}

		v1.GET("/ws/locations", r.authMiddleware.OptionalAuthenticate(), r.locationController.LiveFeed)

		admin := v1.Group("/admin")
		admin.Use(authenticated, r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.PUT("/vendors/:id/deactivate", r.vendorController.Deactivate)
			admin.GET("/vendors/export", r.vendorController.ExportVendors)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
