package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	apperrors "github.com/deliciousroute/deliciousroute-backend/internal/errors"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for user information
const (
	UserIDKey         = "user_id"
	UserEmailKey      = "user_email"
	UserRoleKey       = "user_role"
	TokenKey          = "access_token"
	TokenExpiresAtKey = "access_token_expires_at"
)

// TokenBlacklist reports whether a token was revoked on logout.
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	blacklist TokenBlacklist
}

// NewAuthMiddleware validates access tokens signed with jwtSecret. A nil
// blacklist skips the revocation check.
func NewAuthMiddleware(jwtSecret string, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		blacklist: blacklist,
	}
}

type authFailure struct {
	code    string
	message string
}

// bearerToken extracts the token from the Authorization header, falling
// back to the token query parameter for websocket clients.
func bearerToken(c *gin.Context) (string, *authFailure) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", &authFailure{apperrors.AuthUnauthorized, "Authorization header is required"}
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", &authFailure{apperrors.AuthTokenInvalid, "Authorization header must be: Bearer <token>"}
	}
	return parts[1], nil
}

func (m *AuthMiddleware) verify(c *gin.Context, token string) (*util.Claims, *authFailure) {
	claims, err := util.ValidateToken(token, m.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, &authFailure{apperrors.AuthTokenExpired, "Token has expired"}
		}
		return nil, &authFailure{apperrors.AuthTokenInvalid, "Invalid or expired token"}
	}
	if claims.TokenType != util.TokenTypeAccess {
		return nil, &authFailure{apperrors.AuthTokenInvalid, "Access token required"}
	}

	if m.blacklist != nil {
		revoked, err := m.blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			GetLoggerFromContext(c).Error("Token blacklist lookup failed", err)
			return nil, &authFailure{apperrors.AuthTokenInvalid, "Unable to verify token"}
		}
		if revoked {
			return nil, &authFailure{apperrors.AuthTokenRevoked, "Token has been revoked"}
		}
	}
	return claims, nil
}

func setIdentity(c *gin.Context, token string, claims *util.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, model.UserRole(claims.Role))
	c.Set(TokenKey, token)
	if claims.ExpiresAt != nil {
		c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
	}
}

// Authenticate validates JWT token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, failure := bearerToken(c)
		if failure == nil {
			var claims *util.Claims
			if claims, failure = m.verify(c, token); failure == nil {
				setIdentity(c, token, claims)
				log.Debug("User authenticated successfully", map[string]interface{}{
					"user_id": claims.UserID,
					"role":    claims.Role,
				})
				c.Next()
				return
			}
		}

		log.Warn("Authentication failed", map[string]interface{}{
			"path":   c.Request.URL.Path,
			"reason": failure.code,
		})
		apperrors.RespondWithError(c, http.StatusUnauthorized, failure.code, failure.message)
		c.Abort()
	}
}

// OptionalAuthenticate validates JWT token if present (optional)
// - If token is present and valid: sets user info in context
// - If token is missing or invalid: continues without user info
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, failure := bearerToken(c)
		if failure == nil {
			if claims, failure := m.verify(c, token); failure == nil {
				setIdentity(c, token, claims)
			} else {
				GetLoggerFromContext(c).Debug("Token rejected - continuing as guest", map[string]interface{}{
					"path":   c.Request.URL.Path,
					"reason": failure.code,
				})
			}
		}
		c.Next()
	}
}

// RequireRole checks if user has required role
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetActor returns the authenticated caller.
func GetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, _ := GetUserRole(c)
	return service.Actor{UserID: userID, Role: role}, true
}

// GetToken returns the raw access token and its expiry.
func GetToken(c *gin.Context) (string, time.Time, bool) {
	token := c.GetString(TokenKey)
	if token == "" {
		return "", time.Time{}, false
	}
	return token, c.GetTime(TokenExpiresAtKey), true
}
