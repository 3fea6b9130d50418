package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/cache"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// userCacheTTL bounds staleness of the token -> user cache entry
const userCacheTTL = 60 * time.Second

// cachedAuth is the cached resolution of a bearer token. ExpiresAt
// rides along so a cache hit still enforces token expiry; only user
// deactivation can lag behind, by at most the TTL.
type cachedAuth struct {
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// AuthMiddleware resolves the bearer token to a user on every request.
// The token is opaque: it is looked up in the store (through the
// optional Redis cache), never decoded.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}
		tokenString := parts[1]

		// Cached token lookups skip the two store queries below
		ctx := c.Request().Context()
		cacheKey := "authtoken:" + tokenString
		var entry cachedAuth
		if found, err := cache.Get(ctx, cacheKey, &entry); err == nil && found {
			if time.Now().After(entry.ExpiresAt) {
				_ = cache.Delete(ctx, cacheKey)
				prometheus.RecordAuthError("expired_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			c.Set("user", entry.User)
			c.Set("user_id", entry.User.ID)
			c.Set("auth_token", tokenString)
			return next(c)
		}

		defer prometheus.TrackDBOperation("query")(time.Now())
		var token model.AuthToken
		if err := database.GetDB().Where("token = ?", tokenString).First(&token).Error; err != nil {
			log.Warn("Unknown bearer token")
			prometheus.RecordAuthError("unknown_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}
		if token.IsExpired() {
			log.Warn("Expired bearer token", zap.Uint("user_id", token.UserID))
			prometheus.RecordAuthError("expired_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		var user model.User
		if err := database.GetDB().First(&user, token.UserID).Error; err != nil || !user.IsActive {
			log.Warn("Token resolves to missing or inactive user", zap.Uint("user_id", token.UserID))
			prometheus.RecordAuthError("inactive_user")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		_ = cache.Set(ctx, cacheKey, cachedAuth{User: user, ExpiresAt: token.ExpiresAt}, userCacheTTL)

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("auth_token", tokenString)
		return next(c)
	}
}

// CurrentUser retrieves the authenticated user placed in the context by
// AuthMiddleware
func CurrentUser(c echo.Context) (model.User, bool) {
	user, ok := c.Get("user").(model.User)
	return user, ok
}

// InvalidateUserCache drops the cached token -> user entry after a
// profile mutation
func InvalidateUserCache(c echo.Context) {
	if token, ok := c.Get("auth_token").(string); ok {
		_ = cache.Delete(c.Request().Context(), "authtoken:"+token)
	}
}
