package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func healthRouter(p Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", NewHealthHandler(p).Health)
	return r
}

func TestHealthOK(t *testing.T) {
	t.Parallel()

	rec, body := performJSON(t, healthRouter(&fakePinger{}), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	if body["database"] != "connected" {
		t.Fatalf("unexpected database field: %v", body["database"])
	}
}

func TestHealthDegraded(t *testing.T) {
	t.Parallel()

	rec, body := performJSON(t, healthRouter(&fakePinger{err: errors.New("down")}), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}
