package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greatnexus/backend/internal/infrastructure/auth"
	"github.com/greatnexus/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated request data
const (
	JWTClaimsKey   = "jwt_claims"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRolesKey    = "jwt_roles"
)

// JWTAuthConfig configures the JWT authentication middleware
type JWTAuthConfig struct {
	// SkipPaths lists path prefixes that bypass authentication
	SkipPaths []string
}

// DefaultJWTAuthConfig returns the default middleware configuration
func DefaultJWTAuthConfig() JWTAuthConfig {
	return JWTAuthConfig{
		SkipPaths: []string{"/healthz"},
	}
}

// JWTAuth returns a middleware that validates bearer tokens with default configuration
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthWithConfig(jwtService, DefaultJWTAuthConfig())
}

// JWTAuthWithConfig returns a middleware that validates bearer tokens.
// Valid claims are stored on the gin context under the JWT* keys.
func JWTAuthWithConfig(jwtService *auth.JWTService, cfg JWTAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		token, err := extractTokenFromHeader(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "token has expired")
			case errors.Is(err, auth.ErrTokenNotYetValid):
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token is not valid yet")
			default:
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "invalid token")
			}
			return
		}

		tenantID, err := claims.TenantUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token carries an invalid tenant id")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token carries an invalid user id")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTTenantIDKey, tenantID)
		c.Set(JWTUserIDKey, userID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRolesKey, claims.Roles)
		c.Next()
	}
}

func extractTokenFromHeader(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetJWTClaims returns the validated claims stored by the auth middleware
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTTenantID returns the authenticated tenant ID
func GetJWTTenantID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(JWTTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetJWTUserID returns the authenticated user ID
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(JWTUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
