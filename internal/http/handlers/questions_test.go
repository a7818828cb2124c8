package handlers

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
)

type fakeQuestionStore struct {
	questions   []graph.Props
	created     graph.Props
	createErr   error
	bulkOutcome *bulk.Outcome
	bulkErr     error
	quiz        graph.Props

	gotFilter    graph.RandomFilter
	gotBatchSize int
}

func (f *fakeQuestionStore) ListQuestions(ctx context.Context, lessonID, chapterID string) ([]graph.Props, error) {
	return f.questions, nil
}

func (f *fakeQuestionStore) CreateQuestion(ctx context.Context, in domain.QuestionRecord) (graph.Props, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeQuestionStore) BulkCreateQuestions(ctx context.Context, questions []domain.QuestionRecord, batchSize int) (*bulk.Outcome, error) {
	f.gotBatchSize = batchSize
	return f.bulkOutcome, f.bulkErr
}

func (f *fakeQuestionStore) RandomQuestions(ctx context.Context, filter graph.RandomFilter) ([]graph.Props, error) {
	f.gotFilter = filter
	return f.questions, nil
}

func (f *fakeQuestionStore) GenerateQuiz(ctx context.Context, filter graph.RandomFilter) (graph.Props, error) {
	f.gotFilter = filter
	return f.quiz, nil
}

func questionRouter(store QuestionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQuestionHandler(store)
	r.GET("/questions", h.List)
	r.POST("/questions", h.Create)
	r.POST("/questions/bulk", h.BulkCreate)
	r.GET("/questions/random", h.Random)
	r.POST("/quiz/generate", h.GenerateQuiz)
	return r
}

func TestCreateQuestionRequiresFields(t *testing.T) {
	t.Parallel()

	r := questionRouter(&fakeQuestionStore{})
	rec, _ := performJSON(t, r, http.MethodPost, "/questions", map[string]any{
		"title": "2 + 2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestBulkCreateQuestionsPerformanceBlock(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(3)
	outcome.Add(graph.Props{"id": "q1"}, graph.Props{"id": "q2"}, graph.Props{"id": "q3"})

	r := questionRouter(&fakeQuestionStore{bulkOutcome: outcome})
	rec, body := performJSON(t, r, http.MethodPost, "/questions/bulk", map[string]any{
		"questions": []map[string]any{
			{"lesson_id": "l1", "title": "a", "content": "a", "correct_answer": "1", "difficulty": "easy", "page": 1},
			{"lesson_id": "l1", "title": "b", "content": "b", "correct_answer": "2", "difficulty": "easy", "page": 1},
			{"lesson_id": "l1", "title": "c", "content": "c", "correct_answer": "3", "difficulty": "easy", "page": 2},
		},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	perf, ok := body["performance"].(map[string]any)
	if !ok {
		t.Fatalf("expected performance block, got %v", body["performance"])
	}
	if got := perf["batch_size"].(float64); got != float64(bulk.DefaultQuestionBatchSize) {
		t.Fatalf("batch_size: got=%v want=%d", got, bulk.DefaultQuestionBatchSize)
	}
	if got := perf["batches_processed"].(float64); got != 1 {
		t.Fatalf("batches_processed: got=%v want=1", got)
	}
}

func TestCreateQuestionRequiresDifficultyAndPage(t *testing.T) {
	t.Parallel()

	r := questionRouter(&fakeQuestionStore{created: graph.Props{"id": "q1"}})
	rec, _ := performJSON(t, r, http.MethodPost, "/questions", map[string]any{
		"lesson_id":      "l1",
		"title":          "2 + 2",
		"content":        "What is 2 + 2?",
		"correct_answer": "4",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestBulkCreateQuestionsCustomBatchSize(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(3)
	outcome.Add(graph.Props{"id": "q1"}, graph.Props{"id": "q2"}, graph.Props{"id": "q3"})

	store := &fakeQuestionStore{bulkOutcome: outcome}
	r := questionRouter(store)
	_, body := performJSON(t, r, http.MethodPost, "/questions/bulk", map[string]any{
		"questions": []map[string]any{
			{"lesson_id": "l1", "title": "a", "content": "a", "correct_answer": "1", "difficulty": "easy", "page": 1},
			{"lesson_id": "l1", "title": "b", "content": "b", "correct_answer": "2", "difficulty": "easy", "page": 1},
			{"lesson_id": "l1", "title": "c", "content": "c", "correct_answer": "3", "difficulty": "easy", "page": 2},
		},
		"batch_size": 2,
	})

	if store.gotBatchSize != 2 {
		t.Fatalf("batch size: got=%d want=2", store.gotBatchSize)
	}
	perf := body["performance"].(map[string]any)
	if got := perf["batch_size"].(float64); got != 2 {
		t.Fatalf("batch_size: got=%v want=2", got)
	}
	if got := perf["batches_processed"].(float64); got != 2 {
		t.Fatalf("batches_processed: got=%v want=2", got)
	}
}

func TestRandomQuestionsParsesQuery(t *testing.T) {
	t.Parallel()

	store := &fakeQuestionStore{}
	r := questionRouter(store)
	rec, _ := performJSON(t, r, http.MethodGet, "/questions/random?difficulty=hard&subject_id=s1&limit=5&exclude_ids=a,b,%20c", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	want := graph.RandomFilter{
		Difficulty: "hard",
		SubjectID:  "s1",
		ExcludeIDs: []string{"a", "b", "c"},
		Limit:      5,
	}
	if !reflect.DeepEqual(store.gotFilter, want) {
		t.Fatalf("unexpected filter: got=%+v want=%+v", store.gotFilter, want)
	}
}

func TestGenerateQuizDefaultsCount(t *testing.T) {
	t.Parallel()

	store := &fakeQuestionStore{quiz: graph.Props{"quiz_id": "z1"}}
	r := questionRouter(store)
	rec, body := performJSON(t, r, http.MethodPost, "/quiz/generate", map[string]any{
		"difficulty": "medium",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if store.gotFilter.Limit != 10 {
		t.Fatalf("expected default count 10, got %d", store.gotFilter.Limit)
	}
	if body["quiz"] == nil {
		t.Fatal("expected quiz in response")
	}
}
