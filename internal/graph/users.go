package graph

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

func (s *Store) ListUsers(ctx context.Context) ([]Props, error) {
	records, err := s.readRecords(ctx, `MATCH (u:User) RETURN u ORDER BY u.name`, nil)
	if err != nil {
		return nil, err
	}
	users := make([]Props, 0, len(records))
	for _, rec := range records {
		users = append(users, entityProps(rec, "u"))
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (Props, error) {
	records, err := s.readRecords(ctx, `MATCH (u:User {id: $user_id}) RETURN u`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	return entityProps(records[0], "u"), nil
}

func (s *Store) CreateUser(ctx context.Context, in domain.UserRecord) (Props, error) {
	email := domain.NormalizeEmail(in.Email)
	age := domain.DefaultAge
	if in.Age != nil {
		age = *in.Age
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	now := nowStamp()

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		existing, err := runCollect(ctx, tx, `MATCH (u:User {email: $email}) RETURN u.id AS id`, map[string]any{"email": email})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, apierr.Conflict("email already exists")
		}

		existing, err = runCollect(ctx, tx, `MATCH (u:User {id: $id}) RETURN u.id AS id`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, apierr.Conflict("user id already exists")
		}

		records, err := runCollect(ctx, tx, `
CREATE (u:User {
    id: $id, name: $name, email: $email, age: $age,
    createdAt: $now, updatedAt: $now
})
RETURN u`, map[string]any{
			"id":    id,
			"name":  strings.TrimSpace(in.Name),
			"email": email,
			"age":   age,
			"now":   now,
		})
		if err != nil {
			return nil, err
		}
		return entityProps(records[0], "u"), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

// validateUserBatch screens records before any database work: required
// fields, email format, and in-batch duplicate emails and IDs. A record
// rejected here never reserves its email or ID for later siblings.
func validateUserBatch(users []domain.UserRecord, now string, outcome *bulk.Outcome) []map[string]any {
	valid := make([]map[string]any, 0, len(users))
	usedIDs := make(map[string]bool, len(users))
	seenEmails := make(map[string]bool, len(users))
	for i, u := range users {
		if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
			outcome.Reject("User", i, "Missing name or email")
			continue
		}
		if !domain.ValidEmail(u.Email) {
			outcome.Reject("User", i, "Invalid email format")
			continue
		}
		email := domain.NormalizeEmail(u.Email)
		if seenEmails[email] {
			outcome.Reject("User", i, fmt.Sprintf("Duplicate email %q in batch", email))
			continue
		}

		id := strings.TrimSpace(u.ID)
		if u.ID != "" && id == "" {
			outcome.Reject("User", i, "Empty ID provided")
			continue
		}
		if id != "" {
			if usedIDs[id] {
				outcome.Reject("User", i, fmt.Sprintf("Duplicate ID %q in batch", id))
				continue
			}
		} else {
			id = uuid.New().String()
		}
		seenEmails[email] = true
		usedIDs[id] = true

		age := domain.DefaultAge
		if u.Age != nil {
			age = *u.Age
		}
		valid = append(valid, map[string]any{
			"id":        id,
			"name":      strings.TrimSpace(u.Name),
			"email":     email,
			"age":       age,
			"createdAt": now,
			"updatedAt": now,
		})
	}
	return valid
}

// BulkCreateUsers runs the full import pipeline: per-record validation,
// store-collision filtering, then chunked UNWIND creates inside one
// transaction. Per-record failures are collected; only a transaction fault
// fails the call.
func (s *Store) BulkCreateUsers(ctx context.Context, users []domain.UserRecord, batchSize int) (*bulk.Outcome, error) {
	if batchSize <= 0 {
		batchSize = bulk.DefaultUserBatchSize
	}
	outcome := bulk.NewOutcome(len(users))
	valid := validateUserBatch(users, nowStamp(), outcome)

	if len(valid) == 0 {
		return outcome, apierr.Invalid("no valid users to import")
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return outcome, apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	if err := func() error {
		emails := make([]string, 0, len(valid))
		ids := make([]string, 0, len(valid))
		for _, u := range valid {
			emails = append(emails, u["email"].(string))
			ids = append(ids, u["id"].(string))
		}

		records, err := runCollect(ctx, tx, `
MATCH (u:User) WHERE u.email IN $emails RETURN u.email AS id`, map[string]any{"emails": emails})
		if err != nil {
			return err
		}
		existingEmails := collectIDs(records)

		records, err = runCollect(ctx, tx, `
MATCH (u:User) WHERE u.id IN $ids RETURN u.id AS id`, map[string]any{"ids": ids})
		if err != nil {
			return err
		}
		existingIDs := collectIDs(records)

		fresh := make([]map[string]any, 0, len(valid))
		for _, u := range valid {
			skip := false
			if existingEmails[u["email"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("Email %s already exists", u["email"]))
				skip = true
			}
			if existingIDs[u["id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("ID %s already exists", u["id"]))
				skip = true
			}
			if !skip {
				fresh = append(fresh, u)
			}
		}

		for _, chunk := range bulk.Chunk(fresh, batchSize) {
			records, err := runCollect(ctx, tx, `
UNWIND $users AS user
CREATE (u:User {
    id: user.id, name: user.name, email: user.email,
    age: user.age, createdAt: user.createdAt, updatedAt: user.updatedAt
})
RETURN u`, map[string]any{"users": chunk})
			if err != nil {
				return err
			}
			for _, rec := range records {
				outcome.Add(entityProps(rec, "u"))
			}
		}
		return tx.Commit(ctx)
	}(); err != nil {
		_ = tx.Rollback(ctx)
		s.log.Error("bulk user import transaction failed", "error", err)
		return bulk.NewOutcome(len(users)), apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	return outcome, nil
}
