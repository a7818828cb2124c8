package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type TestStore interface {
	CreateCompleteTest(ctx context.Context, in domain.CompleteTestInput) (graph.Props, error)
	UserTestHistory(ctx context.Context, userID string, limit int) (graph.Props, error)
	TestDetails(ctx context.Context, testID string) (graph.Props, error)
	SearchTests(ctx context.Context, f graph.TestSearchFilter) ([]graph.Props, error)
	DeleteTest(ctx context.Context, testID string) (graph.Props, error)
}

type TestHandler struct {
	store TestStore
}

func NewTestHandler(store TestStore) *TestHandler {
	return &TestHandler{store: store}
}

// POST /api/v1/tests/complete
func (h *TestHandler) Complete(c *gin.Context) {
	var req domain.CompleteTestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	test, err := h.store.CreateCompleteTest(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Test recorded successfully", "test": test})
}

// GET /api/v1/users/:user_id/tests?limit=
func (h *TestHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.store.UserTestHistory(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(history))
}

// GET /api/v1/tests/:test_id
func (h *TestHandler) Details(c *gin.Context) {
	details, err := h.store.TestDetails(c.Request.Context(), c.Param("test_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(details))
}

// GET /api/v1/tests/search?user_id=&title=&min_score=&max_score=&from_date=&to_date=&limit=
func (h *TestHandler) Search(c *gin.Context) {
	minScore, _ := strconv.ParseFloat(c.Query("min_score"), 64)
	maxScore, _ := strconv.ParseFloat(c.Query("max_score"), 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	tests, err := h.store.SearchTests(c.Request.Context(), graph.TestSearchFilter{
		UserID:   c.Query("user_id"),
		Query:    c.Query("title"),
		MinScore: minScore,
		MaxScore: maxScore,
		From:     c.Query("from_date"),
		To:       c.Query("to_date"),
		Limit:    limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"tests": tests, "count": len(tests)})
}

// DELETE /api/v1/tests/:test_id
func (h *TestHandler) Delete(c *gin.Context) {
	deleted, err := h.store.DeleteTest(c.Request.Context(), c.Param("test_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Test deleted", "deleted": deleted})
}
