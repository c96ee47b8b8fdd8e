package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homehelp_backend/internal/auth"
	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/pkg/contextkeys"
)

// AuthMiddleware validates the bearer token and stores the user identity in
// both the gin context and the request context for downstream logging.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(string(contextkeys.UserIDContextKey), claims.UserID)
		c.Set(string(contextkeys.UserRoleContextKey), claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// OptionalAuthMiddleware parses the bearer token when present but lets
// anonymous requests through. Used on the public browse endpoints where an
// authenticated customer gets contact disclosure.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
				c.Set(string(contextkeys.UserIDContextKey), claims.UserID)
				c.Set(string(contextkeys.UserRoleContextKey), claims.Role)
				c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
			}
		}
		c.Next()
	}
}

// RoleMiddleware restricts a route group to one role. Must run after
// AuthMiddleware.
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(string(contextkeys.UserRoleContextKey))
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok || models.UserRole(roleStr) != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}
