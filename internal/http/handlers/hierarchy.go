package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type HierarchyStore interface {
	ListSubjects(ctx context.Context) ([]graph.Props, error)
	ListTypeBooks(ctx context.Context, subjectID string) ([]graph.Props, error)
	ListChapters(ctx context.Context, typebookID string) ([]graph.Props, error)
	ListLessons(ctx context.Context, chapterID string) ([]graph.Props, error)
}

type HierarchyHandler struct {
	store HierarchyStore
}

func NewHierarchyHandler(store HierarchyStore) *HierarchyHandler {
	return &HierarchyHandler{store: store}
}

// GET /api/v1/subjects
func (h *HierarchyHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.store.ListSubjects(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"subjects": subjects, "count": len(subjects)})
}

// GET /api/v1/typebooks?subject_id=
func (h *HierarchyHandler) ListTypeBooks(c *gin.Context) {
	typebooks, err := h.store.ListTypeBooks(c.Request.Context(), c.Query("subject_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"typebooks": typebooks, "count": len(typebooks)})
}

// GET /api/v1/chapters?typebook_id=
func (h *HierarchyHandler) ListChapters(c *gin.Context) {
	chapters, err := h.store.ListChapters(c.Request.Context(), c.Query("typebook_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"chapters": chapters, "count": len(chapters)})
}

// GET /api/v1/lessons?chapter_id=
func (h *HierarchyHandler) ListLessons(c *gin.Context) {
	lessons, err := h.store.ListLessons(c.Request.Context(), c.Query("chapter_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"lessons": lessons, "count": len(lessons)})
}
