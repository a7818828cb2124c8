package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type MaintenanceStore interface {
	CleanupOrphans(ctx context.Context) (graph.Props, error)
}

type MaintenanceHandler struct {
	store MaintenanceStore
}

func NewMaintenanceHandler(store MaintenanceStore) *MaintenanceHandler {
	return &MaintenanceHandler{store: store}
}

// POST /api/v1/maintenance/cleanup-orphans
func (h *MaintenanceHandler) CleanupOrphans(c *gin.Context) {
	counts, err := h.store.CleanupOrphans(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Orphan cleanup completed", "deleted": counts})
}
