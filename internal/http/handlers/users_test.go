package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

type fakeUserStore struct {
	users       []graph.Props
	created     graph.Props
	createErr   error
	bulkOutcome *bulk.Outcome
	bulkErr     error

	gotBulk      []domain.UserRecord
	gotBatchSize int
}

func (f *fakeUserStore) ListUsers(ctx context.Context) ([]graph.Props, error) {
	return f.users, nil
}

func (f *fakeUserStore) GetUser(ctx context.Context, userID string) (graph.Props, error) {
	for _, u := range f.users {
		if u["id"] == userID {
			return u, nil
		}
	}
	return nil, apierr.NotFound("user %s not found", userID)
}

func (f *fakeUserStore) CreateUser(ctx context.Context, in domain.UserRecord) (graph.Props, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeUserStore) BulkCreateUsers(ctx context.Context, users []domain.UserRecord, batchSize int) (*bulk.Outcome, error) {
	f.gotBulk = users
	f.gotBatchSize = batchSize
	return f.bulkOutcome, f.bulkErr
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, parsed
}

func userRouter(store UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(store)
	r.GET("/users", h.List)
	r.GET("/users/:user_id", h.Get)
	r.POST("/users", h.Create)
	r.POST("/users/bulk", h.BulkCreate)
	return r
}

func TestCreateUserRequiresNameAndEmail(t *testing.T) {
	t.Parallel()

	r := userRouter(&fakeUserStore{})
	rec, body := performJSON(t, r, http.MethodPost, "/users", map[string]any{"name": "Lan"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	t.Parallel()

	r := userRouter(&fakeUserStore{})
	rec, _ := performJSON(t, r, http.MethodPost, "/users", map[string]any{
		"name":  "Lan",
		"email": "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateUserSuccessEnvelope(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{created: graph.Props{"id": "u1", "name": "Lan"}}
	r := userRouter(store)
	rec, body := performJSON(t, r, http.MethodPost, "/users", map[string]any{
		"name":  "Lan",
		"email": "lan@example.com",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if body["user"] == nil {
		t.Fatal("expected user in response")
	}
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	r := userRouter(&fakeUserStore{})
	rec, body := performJSON(t, r, http.MethodGet, "/users/missing", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestBulkCreateUsersEnvelope(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(3)
	outcome.Add(graph.Props{"id": "u1"}, graph.Props{"id": "u2"})
	outcome.Reject("User", 2, "Missing email")

	r := userRouter(&fakeUserStore{bulkOutcome: outcome})
	rec, body := performJSON(t, r, http.MethodPost, "/users/bulk", map[string]any{
		"users": []map[string]any{
			{"name": "A", "email": "a@x.com"},
			{"name": "B", "email": "b@x.com"},
			{"name": "C"},
		},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusCreated)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if got := body["total_processed"].(float64); got != 3 {
		t.Fatalf("total_processed: got=%v want=3", got)
	}
	if got := body["total_created"].(float64); got != 2 {
		t.Fatalf("total_created: got=%v want=2", got)
	}
	if got := body["total_errors"].(float64); got != 1 {
		t.Fatalf("total_errors: got=%v want=1", got)
	}
	errs := body["errors"].([]any)
	if len(errs) != 1 || errs[0] != "User 2: Missing email" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBulkCreateUsersAllInvalidIsFailure(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(1)
	outcome.Reject("User", 0, "Missing name, email")

	r := userRouter(&fakeUserStore{
		bulkOutcome: outcome,
		bulkErr:     apierr.Invalid("no valid users to import"),
	})
	rec, body := performJSON(t, r, http.MethodPost, "/users/bulk", map[string]any{
		"users": []map[string]any{{}},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["errors"] == nil {
		t.Fatal("expected per-record errors in failure envelope")
	}
}

func TestBulkCreateUsersForwardsBatchSize(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{bulkOutcome: bulk.NewOutcome(1)}
	r := userRouter(store)
	performJSON(t, r, http.MethodPost, "/users/bulk", map[string]any{
		"users":      []map[string]any{{"name": "A", "email": "a@x.com"}},
		"batch_size": 2,
	})
	if store.gotBatchSize != 2 {
		t.Fatalf("batch size: got=%d want=2", store.gotBatchSize)
	}
}

func TestBulkCreateUsersDefaultBatchSize(t *testing.T) {
	t.Parallel()

	store := &fakeUserStore{bulkOutcome: bulk.NewOutcome(1)}
	r := userRouter(store)
	performJSON(t, r, http.MethodPost, "/users/bulk", map[string]any{
		"users": []map[string]any{{"name": "A", "email": "a@x.com"}},
	})
	if store.gotBatchSize != bulk.DefaultUserBatchSize {
		t.Fatalf("batch size: got=%d want=%d", store.gotBatchSize, bulk.DefaultUserBatchSize)
	}
}

func TestBulkCreateUsersEmptyPayload(t *testing.T) {
	t.Parallel()

	r := userRouter(&fakeUserStore{})
	rec, _ := performJSON(t, r, http.MethodPost, "/users/bulk", map[string]any{"users": []any{}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}
