package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type ExportStore interface {
	Export(ctx context.Context) (graph.Props, error)
	ExportFull(ctx context.Context) (graph.Props, error)
}

type ExportHandler struct {
	store ExportStore
}

func NewExportHandler(store ExportStore) *ExportHandler {
	return &ExportHandler{store: store}
}

// GET /api/v1/export
func (h *ExportHandler) Content(c *gin.Context) {
	dump, err := h.store.Export(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(dump))
}

// GET /api/v1/export/full
func (h *ExportHandler) Full(c *gin.Context) {
	dump, err := h.store.ExportFull(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(dump))
}
