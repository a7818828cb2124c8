package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type AnalyticsStore interface {
	UserAnalytics(ctx context.Context, userID string) (graph.Props, error)
	SystemAnalytics(ctx context.Context) (graph.Props, error)
	SubjectAnalytics(ctx context.Context, subjectID string) (graph.Props, error)
	HierarchyAnalytics(ctx context.Context) ([]graph.Props, error)
}

type AnalyticsHandler struct {
	store AnalyticsStore
}

func NewAnalyticsHandler(store AnalyticsStore) *AnalyticsHandler {
	return &AnalyticsHandler{store: store}
}

// GET /api/v1/analytics/user/:user_id
func (h *AnalyticsHandler) User(c *gin.Context) {
	analytics, err := h.store.UserAnalytics(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(analytics))
}

// GET /api/v1/analytics/system
func (h *AnalyticsHandler) System(c *gin.Context) {
	analytics, err := h.store.SystemAnalytics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(analytics))
}

// GET /api/v1/analytics/subject/:subject_id
func (h *AnalyticsHandler) Subject(c *gin.Context) {
	analytics, err := h.store.SubjectAnalytics(c.Request.Context(), c.Param("subject_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(analytics))
}

// GET /api/v1/analytics/hierarchy
func (h *AnalyticsHandler) Hierarchy(c *gin.Context) {
	analytics, err := h.store.HierarchyAnalytics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"subjects": analytics, "count": len(analytics)})
}
