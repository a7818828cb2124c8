package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type TreeStore interface {
	Tree(ctx context.Context, opts graph.TreeOptions) (graph.Props, error)
	TreeIDs(ctx context.Context) ([]graph.Props, error)
	TreeFlat(ctx context.Context) ([]graph.Props, error)
}

type TreeHandler struct {
	store TreeStore
}

func NewTreeHandler(store TreeStore) *TreeHandler {
	return &TreeHandler{store: store}
}

// GET /api/v1/tree?include_users=&include_questions=
func (h *TreeHandler) Nested(c *gin.Context) {
	opts := graph.TreeOptions{
		IncludeUsers:     c.DefaultQuery("include_users", "true") == "true",
		IncludeQuestions: c.DefaultQuery("include_questions", "true") == "true",
	}
	tree, err := h.store.Tree(c.Request.Context(), opts)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(tree))
}

// GET /api/v1/tree/ids-only
func (h *TreeHandler) IDs(c *gin.Context) {
	tree, err := h.store.TreeIDs(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"tree": tree, "count": len(tree)})
}

// GET /api/v1/tree/flat
func (h *TreeHandler) Flat(c *gin.Context) {
	rows, err := h.store.TreeFlat(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"rows": rows, "count": len(rows)})
}
