package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/middleware"
)

// GetActor extracts the authenticated actor from the Gin context
func GetActor(c *gin.Context) (entity.Actor, bool) {
	val, exists := c.Get(middleware.ActorKey)
	if !exists {
		return entity.Actor{}, false
	}
	actor, ok := val.(entity.Actor)
	return actor, ok
}

// parseIDParam parses a uuid path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
