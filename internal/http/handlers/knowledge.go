package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type KnowledgeStore interface {
	ListKnowledge(ctx context.Context, subject, grade string) ([]graph.Props, error)
	CreateKnowledge(ctx context.Context, in domain.KnowledgeRecord) (graph.Props, error)
	LinkUserKnowledge(ctx context.Context, in domain.KnowledgeLinkRecord) (graph.Props, error)
	GetUserKnowledge(ctx context.Context, userID string) ([]graph.Props, error)
	GetKnowledgeUsers(ctx context.Context, knowledgeID string) ([]graph.Props, error)
	UpdateUserKnowledgeProgress(ctx context.Context, userID, knowledgeID string, progress *int, status string) (graph.Props, error)
	UnlinkUserKnowledge(ctx context.Context, userID, knowledgeID string) error
	BulkLinkUserKnowledge(ctx context.Context, links []domain.KnowledgeLinkRecord, batchSize int) (*bulk.Outcome, error)
	KnowledgeAnalytics(ctx context.Context) (graph.Props, error)
	LearningPath(ctx context.Context, userID, subject, grade string) (graph.Props, error)
}

type KnowledgeHandler struct {
	store KnowledgeStore
}

func NewKnowledgeHandler(store KnowledgeStore) *KnowledgeHandler {
	return &KnowledgeHandler{store: store}
}

// GET /api/v1/knowledge?subject=&grade=
func (h *KnowledgeHandler) List(c *gin.Context) {
	items, err := h.store.ListKnowledge(c.Request.Context(), c.Query("subject"), c.Query("grade"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"knowledge": items, "count": len(items)})
}

// POST /api/v1/knowledge
func (h *KnowledgeHandler) Create(c *gin.Context) {
	var req domain.KnowledgeRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.Name == "" || req.Subject == "" || req.Grade == "" {
		response.Fail(c, http.StatusBadRequest, "name, subject and grade are required", nil)
		return
	}

	item, err := h.store.CreateKnowledge(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Knowledge created successfully", "knowledge": item})
}

// POST /api/v1/users/:user_id/knowledge/:knowledge_id
// optional body: { "status"?, "progress"? }
func (h *KnowledgeHandler) Link(c *gin.Context) {
	req := domain.KnowledgeLinkRecord{
		UserID:      c.Param("user_id"),
		KnowledgeID: c.Param("knowledge_id"),
	}
	if c.Request.ContentLength > 0 {
		var body struct {
			Status   string `json:"status"`
			Progress *int   `json:"progress"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
			return
		}
		req.Status = body.Status
		req.Progress = body.Progress
	}

	link, err := h.store.LinkUserKnowledge(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Learning link created", "link": link})
}

// GET /api/v1/users/:user_id/knowledge
func (h *KnowledgeHandler) OfUser(c *gin.Context) {
	items, err := h.store.GetUserKnowledge(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"knowledge": items, "count": len(items)})
}

// GET /api/v1/knowledge/:knowledge_id/users
func (h *KnowledgeHandler) Users(c *gin.Context) {
	users, err := h.store.GetKnowledgeUsers(c.Request.Context(), c.Param("knowledge_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "count": len(users)})
}

// PUT /api/v1/users/:user_id/knowledge/:knowledge_id
// body: { "progress"?, "status"? } — only supplied fields are changed
func (h *KnowledgeHandler) UpdateProgress(c *gin.Context) {
	var req struct {
		Progress *int   `json:"progress"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.Progress == nil && req.Status == "" {
		response.Fail(c, http.StatusBadRequest, "progress or status is required", nil)
		return
	}

	link, err := h.store.UpdateUserKnowledgeProgress(c.Request.Context(), c.Param("user_id"), c.Param("knowledge_id"), req.Progress, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Progress updated", "link": link})
}

// DELETE /api/v1/users/:user_id/knowledge/:knowledge_id
func (h *KnowledgeHandler) Unlink(c *gin.Context) {
	if err := h.store.UnlinkUserKnowledge(c.Request.Context(), c.Param("user_id"), c.Param("knowledge_id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Learning link removed"})
}

// POST /api/v1/users/bulk/knowledge
// body: { "links": [ {...}, ... ], "batch_size"? }
func (h *KnowledgeHandler) BulkLink(c *gin.Context) {
	var req struct {
		Links     []domain.KnowledgeLinkRecord `json:"links"`
		BatchSize int                          `json:"batch_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Links) == 0 {
		response.Fail(c, http.StatusBadRequest, "links must not be empty", nil)
		return
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = bulk.DefaultUserBatchSize
	}

	outcome, err := h.store.BulkLinkUserKnowledge(c.Request.Context(), req.Links, batchSize)
	if err != nil {
		failBulk(c, err, outcome)
		return
	}
	writeBulkOutcome(c, outcome, "Bulk knowledge link completed", "created_links", 0)
}

// GET /api/v1/users-knowledge/analytics
func (h *KnowledgeHandler) Analytics(c *gin.Context) {
	analytics, err := h.store.KnowledgeAnalytics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(analytics))
}

// GET /api/v1/users/:user_id/learning-path?subject=&grade=
func (h *KnowledgeHandler) LearningPath(c *gin.Context) {
	path, err := h.store.LearningPath(c.Request.Context(), c.Param("user_id"), c.Query("subject"), c.Query("grade"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(path))
}
