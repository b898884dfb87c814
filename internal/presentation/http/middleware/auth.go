package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

// ActorKey is the gin context key under which the authenticated actor is stored.
const ActorKey = "actor"

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ActorKey, entity.Actor{
			Username: claims.Username,
			Name:     claims.Name,
			Role:     claims.Role,
		})

		c.Next()
	}
}

// RequireRole restricts a route to the given roles. It must run after
// AuthMiddleware.
func RequireRole(roles ...enum.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ActorKey)
		if !exists {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		actor := val.(entity.Actor)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient role for this operation")
		c.Abort()
	}
}
