package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type QuestionStore interface {
	ListQuestions(ctx context.Context, lessonID, chapterID string) ([]graph.Props, error)
	CreateQuestion(ctx context.Context, in domain.QuestionRecord) (graph.Props, error)
	BulkCreateQuestions(ctx context.Context, questions []domain.QuestionRecord, batchSize int) (*bulk.Outcome, error)
	RandomQuestions(ctx context.Context, f graph.RandomFilter) ([]graph.Props, error)
	GenerateQuiz(ctx context.Context, f graph.RandomFilter) (graph.Props, error)
}

type QuestionHandler struct {
	store QuestionStore
}

func NewQuestionHandler(store QuestionStore) *QuestionHandler {
	return &QuestionHandler{store: store}
}

// GET /api/v1/questions?lesson_id=|chapter_id=
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.store.ListQuestions(c.Request.Context(), c.Query("lesson_id"), c.Query("chapter_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"questions": questions, "count": len(questions)})
}

// POST /api/v1/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req domain.QuestionRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.LessonID == "" || req.Title == "" || req.Content == "" || req.CorrectAnswer == "" || req.Difficulty == "" || req.Page == nil {
		response.Fail(c, http.StatusBadRequest, "lesson_id, title, content, correct_answer, difficulty and page are required", nil)
		return
	}

	question, err := h.store.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Question created successfully", "question": question})
}

// POST /api/v1/questions/bulk
// body: { "questions": [ {...}, ... ], "batch_size"? }
func (h *QuestionHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Questions []domain.QuestionRecord `json:"questions"`
		BatchSize int                     `json:"batch_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Questions) == 0 {
		response.Fail(c, http.StatusBadRequest, "questions must not be empty", nil)
		return
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = bulk.DefaultQuestionBatchSize
	}

	outcome, err := h.store.BulkCreateQuestions(c.Request.Context(), req.Questions, batchSize)
	if err != nil {
		failBulk(c, err, outcome)
		return
	}
	writeBulkOutcome(c, outcome, "Bulk question import completed", "created_questions", batchSize)
}

// GET /api/v1/questions/random?difficulty=&subject_id=&limit=&exclude_ids=a,b
func (h *QuestionHandler) Random(c *gin.Context) {
	f := randomFilterFromQuery(c)
	questions, err := h.store.RandomQuestions(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"questions": questions, "count": len(questions)})
}

// POST /api/v1/quiz/generate
// body: { "difficulty"?, "subject_id"?, "count"?, "exclude_ids"? }
func (h *QuestionHandler) GenerateQuiz(c *gin.Context) {
	var req struct {
		Difficulty string   `json:"difficulty"`
		SubjectID  string   `json:"subject_id"`
		Count      int      `json:"count"`
		ExcludeIDs []string `json:"exclude_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.Count <= 0 {
		req.Count = 10
	}

	quiz, err := h.store.GenerateQuiz(c.Request.Context(), graph.RandomFilter{
		Difficulty: req.Difficulty,
		SubjectID:  req.SubjectID,
		ExcludeIDs: req.ExcludeIDs,
		Limit:      req.Count,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"quiz": quiz})
}

func randomFilterFromQuery(c *gin.Context) graph.RandomFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var exclude []string
	if raw := c.Query("exclude_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				exclude = append(exclude, id)
			}
		}
	}
	return graph.RandomFilter{
		Difficulty: c.Query("difficulty"),
		SubjectID:  c.Query("subject_id"),
		ExcludeIDs: exclude,
		Limit:      limit,
	}
}
