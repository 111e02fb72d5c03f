package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskflow-api/internal/auth"
	"taskflow-api/internal/cache"
	"taskflow-api/internal/database"
	"taskflow-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const identityKey = "identity"

// identityCache avoids a users-table read on every request. Entries expire
// so role changes take effect within the configured TTL.
var identityCache = cache.New[uint, models.Identity]()

// FlushIdentityCache drops all cached identities. Intended for tests.
func FlushIdentityCache() {
	identityCache.Clear()
}

// JWTAuthMiddleware validates the bearer token and resolves the caller's
// identity (id, roles, status) from the users table.
func JWTAuthMiddleware(identityTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		// Validate token
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		ident, ok := identityCache.Get(claims.EID)
		if !ok {
			var user models.User
			err := database.GetDB().Where("e_id = ?", claims.EID).First(&user).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
				} else {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
				}
				c.Abort()
				return
			}
			ident = user.Identity()
			identityCache.Set(claims.EID, ident, identityTTL)
		}

		// Store the resolved identity in context for use in handlers
		c.Set(identityKey, ident)

		c.Next()
	}
}

// CurrentIdentity returns the identity resolved by JWTAuthMiddleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}
