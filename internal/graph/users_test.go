package graph

import (
	"strings"
	"testing"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
)

func TestValidateUserBatchRejectsDuplicateEmails(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(3)
	valid := validateUserBatch([]domain.UserRecord{
		{Name: "An", Email: "an@example.com"},
		{Name: "Impostor", Email: "AN@example.com"},
		{Name: "Bình", Email: "binh@example.com"},
	}, "2026-08-30T00:00:00Z", outcome)

	if len(valid) != 2 {
		t.Fatalf("valid rows: got=%d want=2", len(valid))
	}
	if valid[0]["email"] != "an@example.com" || valid[1]["email"] != "binh@example.com" {
		t.Fatalf("unexpected surviving emails: %v, %v", valid[0]["email"], valid[1]["email"])
	}
	if outcome.TotalErrors() != 1 {
		t.Fatalf("errors: got=%d want=1", outcome.TotalErrors())
	}
	if got := outcome.Errors[0]; !strings.Contains(got, "User 1") || !strings.Contains(got, "Duplicate email") {
		t.Fatalf("error message: got=%q", got)
	}
}

func TestValidateUserBatchRejectedRecordFreesItsEmail(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(2)
	valid := validateUserBatch([]domain.UserRecord{
		{Name: "", Email: "an@example.com"},
		{Name: "An", Email: "an@example.com"},
	}, "2026-08-30T00:00:00Z", outcome)

	if len(valid) != 1 {
		t.Fatalf("valid rows: got=%d want=1", len(valid))
	}
	if valid[0]["name"] != "An" {
		t.Fatalf("unexpected survivor: %v", valid[0]["name"])
	}
}

func TestValidateUserBatchDuplicateIDs(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(2)
	valid := validateUserBatch([]domain.UserRecord{
		{ID: "u1", Name: "An", Email: "an@example.com"},
		{ID: "u1", Name: "Bình", Email: "binh@example.com"},
	}, "2026-08-30T00:00:00Z", outcome)

	if len(valid) != 1 {
		t.Fatalf("valid rows: got=%d want=1", len(valid))
	}
	if got := outcome.Errors[0]; !strings.Contains(got, "Duplicate ID") {
		t.Fatalf("error message: got=%q", got)
	}
}

func TestValidateUserBatchDefaults(t *testing.T) {
	t.Parallel()

	outcome := bulk.NewOutcome(1)
	valid := validateUserBatch([]domain.UserRecord{
		{Name: "  An  ", Email: " An@Example.com "},
	}, "2026-08-30T00:00:00Z", outcome)

	if len(valid) != 1 {
		t.Fatalf("valid rows: got=%d want=1", len(valid))
	}
	row := valid[0]
	if row["name"] != "An" || row["email"] != "an@example.com" {
		t.Fatalf("normalization: name=%v email=%v", row["name"], row["email"])
	}
	if row["age"] != domain.DefaultAge {
		t.Fatalf("age default: got=%v want=%d", row["age"], domain.DefaultAge)
	}
	if row["id"] == "" {
		t.Fatal("expected a generated id")
	}
}
