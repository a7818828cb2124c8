package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type StudentStore interface {
	StudentDetailed(ctx context.Context, userID string) (graph.Props, error)
	StudentsDetailed(ctx context.Context, f graph.StudentFilter) ([]graph.Props, error)
}

type StudentHandler struct {
	store StudentStore
}

func NewStudentHandler(store StudentStore) *StudentHandler {
	return &StudentHandler{store: store}
}

// GET /api/v1/students/:user_id/detailed
func (h *StudentHandler) Detailed(c *gin.Context) {
	student, err := h.store.StudentDetailed(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"student": student})
}

// GET /api/v1/students/detailed?user_ids=&subject_id=&chapter_id=&lesson_id=&limit=
func (h *StudentHandler) AllDetailed(c *gin.Context) {
	f := graph.StudentFilter{
		SubjectID: c.Query("subject_id"),
		ChapterID: c.Query("chapter_id"),
		LessonID:  c.Query("lesson_id"),
	}
	if raw := c.Query("user_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				f.UserIDs = append(f.UserIDs, id)
			}
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Limit = n
		}
	}

	students, err := h.store.StudentsDetailed(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"students": students, "count": len(students)})
}
