package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/graph"
	"github.com/hoclieu/edugraph-api/internal/http/response"
)

type UserStore interface {
	ListUsers(ctx context.Context) ([]graph.Props, error)
	GetUser(ctx context.Context, userID string) (graph.Props, error)
	CreateUser(ctx context.Context, in domain.UserRecord) (graph.Props, error)
	BulkCreateUsers(ctx context.Context, users []domain.UserRecord, batchSize int) (*bulk.Outcome, error)
}

type UserHandler struct {
	store UserStore
}

func NewUserHandler(store UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "count": len(users)})
}

// GET /api/v1/users/:user_id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// POST /api/v1/users
// body: { "id"?, "name", "email", "age"? }
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.UserRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if req.Name == "" || req.Email == "" {
		response.Fail(c, http.StatusBadRequest, "name and email are required", nil)
		return
	}
	req.Email = domain.NormalizeEmail(req.Email)
	if !domain.ValidEmail(req.Email) {
		response.Fail(c, http.StatusBadRequest, "invalid email format", nil)
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, gin.H{"message": "User created successfully", "user": user})
}

// POST /api/v1/users/bulk
// body: { "users": [ {...}, ... ], "batch_size"? }
func (h *UserHandler) BulkCreate(c *gin.Context) {
	var req struct {
		Users     []domain.UserRecord `json:"users"`
		BatchSize int                 `json:"batch_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Users) == 0 {
		response.Fail(c, http.StatusBadRequest, "users must not be empty", nil)
		return
	}
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = bulk.DefaultUserBatchSize
	}

	outcome, err := h.store.BulkCreateUsers(c.Request.Context(), req.Users, batchSize)
	if err != nil {
		failBulk(c, err, outcome)
		return
	}
	writeBulkOutcome(c, outcome, "Bulk user import completed", "created_users", 0)
}
