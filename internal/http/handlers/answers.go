package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type AnswerStore interface {
	ListAnswers(ctx context.Context, userID, questionID string) ([]graph.Props, error)
	CreateAnswer(ctx context.Context, in domain.AnswerRecord) (graph.Props, error)
	BulkCreateAnswers(ctx context.Context, answers []domain.AnswerRecord, batchSize int) (*bulk.Outcome, error)
	UserAnswerHistory(ctx context.Context, userID string, limit int) (graph.Props, error)
}

type AnswerHandler struct {
	store AnswerStore
}

func NewAnswerHandler(store AnswerStore) *AnswerHandler {
	return &AnswerHandler{store: store}
}

// GET /api/v1/answers?user_id=&question_id=
func (h *AnswerHandler) List(c *gin.Context) {
	answers, err := h.store.ListAnswers(c.Request.Context(), c.Query("user_id"), c.Query("question_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"answers": answers, "count": len(answers)})
}

// POST /api/v1/answers
func (h *AnswerHandler) Create(c *gin.Context) {
	var req domain.AnswerRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.UserID == "" || req.QuestionID == "" || req.StudentAnswer == "" || req.IsCorrect == nil {
		response.Fail(c, http.StatusBadRequest, "user_id, question_id, student_answer and is_correct are required", nil)
		return
	}

	answer, err := h.store.CreateAnswer(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Answer recorded successfully", "answer": answer})
}

// POST /api/v1/answers/bulk
// body: { "answers": [ {...}, ... ], "batch_size"? }
func (h *AnswerHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Answers   []domain.AnswerRecord `json:"answers"`
		BatchSize int                   `json:"batch_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Answers) == 0 {
		response.Fail(c, http.StatusBadRequest, "answers must not be empty", nil)
		return
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = bulk.DefaultAnswerBatchSize
	}

	outcome, err := h.store.BulkCreateAnswers(c.Request.Context(), req.Answers, batchSize)
	if err != nil {
		failBulk(c, err, outcome)
		return
	}
	writeBulkOutcome(c, outcome, "Bulk answer import completed", "created_answers", batchSize)
}

// GET /api/v1/users/:user_id/answers?limit=
func (h *AnswerHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.store.UserAnswerHistory(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H(history))
}
