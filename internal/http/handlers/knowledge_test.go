package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

type fakeKnowledgeStore struct {
	link      graph.Props
	linkErr   error
	updateErr error

	gotLink      domain.KnowledgeLinkRecord
	gotProgress  *int
	gotStatus    string
	gotBatchSize int
}

func (f *fakeKnowledgeStore) ListKnowledge(ctx context.Context, subject, grade string) ([]graph.Props, error) {
	return nil, nil
}

func (f *fakeKnowledgeStore) CreateKnowledge(ctx context.Context, in domain.KnowledgeRecord) (graph.Props, error) {
	return graph.Props{"id": "k1"}, nil
}

func (f *fakeKnowledgeStore) LinkUserKnowledge(ctx context.Context, in domain.KnowledgeLinkRecord) (graph.Props, error) {
	f.gotLink = in
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	return f.link, nil
}

func (f *fakeKnowledgeStore) GetUserKnowledge(ctx context.Context, userID string) ([]graph.Props, error) {
	return nil, nil
}

func (f *fakeKnowledgeStore) GetKnowledgeUsers(ctx context.Context, knowledgeID string) ([]graph.Props, error) {
	return nil, nil
}

func (f *fakeKnowledgeStore) UpdateUserKnowledgeProgress(ctx context.Context, userID, knowledgeID string, progress *int, status string) (graph.Props, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.gotProgress = progress
	f.gotStatus = status
	return graph.Props{"status": status}, nil
}

func (f *fakeKnowledgeStore) UnlinkUserKnowledge(ctx context.Context, userID, knowledgeID string) error {
	return nil
}

func (f *fakeKnowledgeStore) BulkLinkUserKnowledge(ctx context.Context, links []domain.KnowledgeLinkRecord, batchSize int) (*bulk.Outcome, error) {
	f.gotBatchSize = batchSize
	return bulk.NewOutcome(len(links)), nil
}

func (f *fakeKnowledgeStore) KnowledgeAnalytics(ctx context.Context) (graph.Props, error) {
	return graph.Props{"total_links": 0}, nil
}

func (f *fakeKnowledgeStore) LearningPath(ctx context.Context, userID, subject, grade string) (graph.Props, error) {
	return graph.Props{"subject": subject}, nil
}

func knowledgeRouter(store KnowledgeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewKnowledgeHandler(store)
	r.POST("/users/:user_id/knowledge/:knowledge_id", h.Link)
	r.PUT("/users/:user_id/knowledge/:knowledge_id", h.UpdateProgress)
	r.DELETE("/users/:user_id/knowledge/:knowledge_id", h.Unlink)
	r.POST("/users/bulk/knowledge", h.BulkLink)
	return r
}

func TestLinkUsesPathParams(t *testing.T) {
	t.Parallel()

	store := &fakeKnowledgeStore{link: graph.Props{"status": "learning"}}
	r := knowledgeRouter(store)
	rec, _ := performJSON(t, r, http.MethodPost, "/users/u1/knowledge/k1", nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	if store.gotLink.UserID != "u1" || store.gotLink.KnowledgeID != "k1" {
		t.Fatalf("unexpected link record: %+v", store.gotLink)
	}
}

func TestLinkBodyOverridesDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeKnowledgeStore{link: graph.Props{"status": "reviewing"}}
	r := knowledgeRouter(store)
	rec, _ := performJSON(t, r, http.MethodPost, "/users/u1/knowledge/k1", map[string]any{
		"status":   "reviewing",
		"progress": 40,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	if store.gotLink.Status != "reviewing" {
		t.Fatalf("unexpected link status: %q", store.gotLink.Status)
	}
	if store.gotLink.Progress == nil || *store.gotLink.Progress != 40 {
		t.Fatalf("unexpected link progress: %v", store.gotLink.Progress)
	}
}

func TestLinkAlreadyLinkedIs409(t *testing.T) {
	t.Parallel()

	r := knowledgeRouter(&fakeKnowledgeStore{
		linkErr: apierr.Conflict("user u1 already linked to knowledge k1"),
	})
	rec, body := performJSON(t, r, http.MethodPost, "/users/u1/knowledge/k1", nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusConflict)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestLinkInvalidStatusIs400(t *testing.T) {
	t.Parallel()

	r := knowledgeRouter(&fakeKnowledgeStore{
		linkErr: apierr.Invalid("status must be one of learning, completed, mastered, reviewing"),
	})
	rec, body := performJSON(t, r, http.MethodPost, "/users/u1/knowledge/k1", map[string]any{
		"status": "paused",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestUpdateProgressStatusOnly(t *testing.T) {
	t.Parallel()

	store := &fakeKnowledgeStore{}
	r := knowledgeRouter(store)
	rec, _ := performJSON(t, r, http.MethodPut, "/users/u1/knowledge/k1", map[string]any{
		"status": "mastered",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if store.gotProgress != nil {
		t.Fatalf("expected no progress, got %v", *store.gotProgress)
	}
	if store.gotStatus != "mastered" {
		t.Fatalf("unexpected status value: %q", store.gotStatus)
	}
}

func TestUpdateProgressRequiresSomeField(t *testing.T) {
	t.Parallel()

	r := knowledgeRouter(&fakeKnowledgeStore{})
	rec, _ := performJSON(t, r, http.MethodPut, "/users/u1/knowledge/k1", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateProgressPassesValues(t *testing.T) {
	t.Parallel()

	store := &fakeKnowledgeStore{}
	r := knowledgeRouter(store)
	rec, _ := performJSON(t, r, http.MethodPut, "/users/u1/knowledge/k1", map[string]any{
		"progress": 80,
		"status":   "completed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if store.gotProgress == nil || *store.gotProgress != 80 || store.gotStatus != "completed" {
		t.Fatalf("unexpected values: progress=%v status=%q", store.gotProgress, store.gotStatus)
	}
}

func TestBulkLinkForwardsBatchSize(t *testing.T) {
	t.Parallel()

	store := &fakeKnowledgeStore{}
	r := knowledgeRouter(store)
	performJSON(t, r, http.MethodPost, "/users/bulk/knowledge", map[string]any{
		"links":      []map[string]any{{"user_id": "u1", "knowledge_id": "k1"}},
		"batch_size": 2,
	})
	if store.gotBatchSize != 2 {
		t.Fatalf("batch size: got=%d want=2", store.gotBatchSize)
	}
}

func TestUpdateProgressMissingLinkIs404(t *testing.T) {
	t.Parallel()

	r := knowledgeRouter(&fakeKnowledgeStore{
		updateErr: apierr.NotFound("no learning link between user u1 and knowledge k1"),
	})
	rec, _ := performJSON(t, r, http.MethodPut, "/users/u1/knowledge/k1", map[string]any{
		"progress": 10,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestUnlinkSuccess(t *testing.T) {
	t.Parallel()

	r := knowledgeRouter(&fakeKnowledgeStore{})
	rec, body := performJSON(t, r, http.MethodDelete, "/users/u1/knowledge/k1", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
}
