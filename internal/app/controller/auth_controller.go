package controller

import (
	"net/http"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type VendorRegisterRequest struct {
	RegisterRequest
	VendorName string `json:"vendor_name" binding:"required"`
	Cuisine    string `json:"cuisine"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *model.User) gin.H {
	body := gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"profile_image": user.ProfileImage,
	}
	if user.Vendor != nil {
		body["vendor_id"] = user.Vendor.ID
	}
	return body
}

// RegisterCustomer handles customer registration
// POST /api/v1/auth/register
func (ctrl *AuthController) RegisterCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email and a password of at least 8 characters are required")
		return
	}

	user, tokens, err := ctrl.authService.RegisterCustomer(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondServiceError(c, err, "register customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// RegisterVendor creates a vendor account together with its vendor profile
// POST /api/v1/auth/register/vendor
func (ctrl *AuthController) RegisterVendor(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VendorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid vendor registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email, password and vendor name are required")
		return
	}

	user, vendor, tokens, err := ctrl.authService.RegisterVendor(c.Request.Context(), service.VendorSignupInput{
		RegisterInput: service.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		},
		VendorName: req.VendorName,
		Cuisine:    req.Cuisine,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		respondServiceError(c, err, "register vendor")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vendor registered successfully",
		"user":    userResponse(user),
		"vendor":  vendor,
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// Logout revokes the access token used for this request
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, expiresAt, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token, expiresAt); err != nil {
		// Logout always succeeds for the client
		log.Error("Failed to revoke token during logout", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
