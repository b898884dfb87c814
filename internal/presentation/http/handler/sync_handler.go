package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gokmen-54/nalburos-web-deploy/internal/application/service"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/request"
	"github.com/gokmen-54/nalburos-web-deploy/internal/presentation/http/dto/response"
)

// SyncHandler handles offline sync queue HTTP requests
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// List handles listing the sync event queue
func (h *SyncHandler) List(c *gin.Context) {
	events, err := h.syncService.ListEvents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sync events retrieved", events)
}

// Sync handles pushing the selected pending events
func (h *SyncHandler) Sync(c *gin.Context) {
	var req request.SyncEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.EventIDs))
	for _, raw := range req.EventIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid event id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	result, err := h.syncService.SyncOfflineEvents(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync completed", result)
}
