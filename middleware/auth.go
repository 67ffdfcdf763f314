package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vectormag-cms/helper"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

// AuthMiddleware requires a valid bearer token and stores its claims on the
// context.
func AuthMiddleware(authService services.AuthService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// browsers cannot set headers on a websocket handshake
		if authHeader == "" && websocket.IsWebSocketUpgrade(c.Request) && c.Query("token") != "" {
			authHeader = "Bearer " + c.Query("token")
		}
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			h.SendUnauthorizedError(c, "Bearer token required", h.EmptyJsonMap())
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			h.SendUnauthorizedError(c, "Invalid token", h.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func RequireRole(h *helper.HTTPHelper, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			h.SendUnauthorizedError(c, "User role not found", h.EmptyJsonMap())
			c.Abort()
			return
		}

		roleStr, _ := userRole.(string)
		for _, role := range roles {
			if roleStr == string(role) {
				c.Next()
				return
			}
		}

		h.SendForbiddenError(c, "Insufficient permissions", h.EmptyJsonMap())
		c.Abort()
	}
}

// ActorFrom returns the authenticated caller set by AuthMiddleware.
func ActorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: c.GetUint("user_id"),
		Role:   models.UserRole(c.GetString("role")),
	}
}
