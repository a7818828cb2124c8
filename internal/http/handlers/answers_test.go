package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
)

type fakeAnswerStore struct {
	created     graph.Props
	bulkOutcome *bulk.Outcome

	gotBatchSize int
}

func (f *fakeAnswerStore) ListAnswers(ctx context.Context, userID, questionID string) ([]graph.Props, error) {
	return nil, nil
}

func (f *fakeAnswerStore) CreateAnswer(ctx context.Context, in domain.AnswerRecord) (graph.Props, error) {
	return f.created, nil
}

func (f *fakeAnswerStore) BulkCreateAnswers(ctx context.Context, answers []domain.AnswerRecord, batchSize int) (*bulk.Outcome, error) {
	f.gotBatchSize = batchSize
	return f.bulkOutcome, nil
}

func (f *fakeAnswerStore) UserAnswerHistory(ctx context.Context, userID string, limit int) (graph.Props, error) {
	return graph.Props{"user_id": userID}, nil
}

func answerRouter(store AnswerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnswerHandler(store)
	r.POST("/answers", h.Create)
	r.POST("/answers/bulk", h.BulkCreate)
	return r
}

func TestCreateAnswerRequiresFields(t *testing.T) {
	t.Parallel()

	r := answerRouter(&fakeAnswerStore{})
	rec, _ := performJSON(t, r, http.MethodPost, "/answers", map[string]any{
		"user_id":     "u1",
		"question_id": "q1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestBulkCreateAnswersForwardsBatchSize(t *testing.T) {
	t.Parallel()

	store := &fakeAnswerStore{bulkOutcome: bulk.NewOutcome(1)}
	r := answerRouter(store)
	performJSON(t, r, http.MethodPost, "/answers/bulk", map[string]any{
		"answers":    []map[string]any{{"user_id": "u1", "question_id": "q1", "student_answer": "4", "is_correct": true}},
		"batch_size": 2,
	})
	if store.gotBatchSize != 2 {
		t.Fatalf("batch size: got=%d want=2", store.gotBatchSize)
	}
}

func TestBulkCreateAnswersDefaultBatchSize(t *testing.T) {
	t.Parallel()

	store := &fakeAnswerStore{bulkOutcome: bulk.NewOutcome(1)}
	r := answerRouter(store)
	performJSON(t, r, http.MethodPost, "/answers/bulk", map[string]any{
		"answers": []map[string]any{{"user_id": "u1", "question_id": "q1", "student_answer": "4", "is_correct": true}},
	})
	if store.gotBatchSize != bulk.DefaultAnswerBatchSize {
		t.Fatalf("batch size: got=%d want=%d", store.gotBatchSize, bulk.DefaultAnswerBatchSize)
	}
}
