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

func (s *Store) ListAnswers(ctx context.Context, userID, questionID string) ([]Props, error) {
	cypher := `
MATCH (u:User)-[:ANSWERED]->(a:Answer)-[:ANSWERS_QUESTION]->(q:Question)
WHERE ($user_id = '' OR u.id = $user_id)
  AND ($question_id = '' OR q.id = $question_id)
RETURN a, u.name AS user_name, u.id AS user_id,
       q.title AS question_title, q.id AS question_id
ORDER BY a.createdAt DESC`

	records, err := s.readRecords(ctx, cypher, map[string]any{
		"user_id":     userID,
		"question_id": questionID,
	})
	if err != nil {
		return nil, err
	}
	answers := make([]Props, 0, len(records))
	for _, rec := range records {
		a := entityProps(rec, "a")
		a["user_name"] = stringVal(rec, "user_name")
		a["user_id"] = stringVal(rec, "user_id")
		a["question_title"] = stringVal(rec, "question_title")
		a["question_id"] = stringVal(rec, "question_id")
		answers = append(answers, a)
	}
	return answers, nil
}

// CreateAnswer records one attempt, linking the user to the answer and the
// answer to its question.
func (s *Store) CreateAnswer(ctx context.Context, in domain.AnswerRecord) (Props, error) {
	now := nowStamp()

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		user, err := runCollect(ctx, tx, `MATCH (u:User {id: $user_id}) RETURN u.id AS id`, map[string]any{"user_id": in.UserID})
		if err != nil {
			return nil, err
		}
		if len(user) == 0 {
			return nil, apierr.NotFound("user %s not found", in.UserID)
		}
		question, err := runCollect(ctx, tx, `MATCH (q:Question {id: $question_id}) RETURN q.id AS id`, map[string]any{"question_id": in.QuestionID})
		if err != nil {
			return nil, err
		}
		if len(question) == 0 {
			return nil, apierr.NotFound("question %s not found", in.QuestionID)
		}

		records, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})
MATCH (q:Question {id: $question_id})
CREATE (a:Answer {
    id: $id, student_answer: $student_answer, is_correct: $is_correct,
    start_time: $start_time, completion_time: $completion_time,
    duration_seconds: $duration_seconds, createdAt: $now, updatedAt: $now
})
CREATE (u)-[:ANSWERED]->(a)
CREATE (a)-[:ANSWERS_QUESTION]->(q)
RETURN a`, map[string]any{
			"user_id":          in.UserID,
			"question_id":      in.QuestionID,
			"id":               uuid.New().String(),
			"student_answer":   in.StudentAnswer,
			"is_correct":       in.IsCorrect != nil && *in.IsCorrect,
			"start_time":       in.StartTime,
			"completion_time":  in.CompletionTime,
			"duration_seconds": in.DurationSeconds,
			"now":              now,
		})
		if err != nil {
			return nil, err
		}
		return entityProps(records[0], "a"), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

// BulkCreateAnswers imports answers with both relationships created per
// batch; individual records referencing a missing user or question are
// rejected without aborting the rest.
func (s *Store) BulkCreateAnswers(ctx context.Context, answers []domain.AnswerRecord, batchSize int) (*bulk.Outcome, error) {
	if batchSize <= 0 {
		batchSize = bulk.DefaultAnswerBatchSize
	}
	outcome := bulk.NewOutcome(len(answers))

	now := nowStamp()
	valid := make([]map[string]any, 0, len(answers))
	userIDs := make([]string, 0, len(answers))
	questionIDs := make([]string, 0, len(answers))
	seenUsers := make(map[string]bool)
	seenQuestions := make(map[string]bool)
	for i, a := range answers {
		var missing []string
		if strings.TrimSpace(a.UserID) == "" {
			missing = append(missing, "user_id")
		}
		if strings.TrimSpace(a.QuestionID) == "" {
			missing = append(missing, "question_id")
		}
		if strings.TrimSpace(a.StudentAnswer) == "" {
			missing = append(missing, "student_answer")
		}
		if a.IsCorrect == nil {
			missing = append(missing, "is_correct")
		}
		if len(missing) > 0 {
			outcome.Reject("Answer", i, "Missing "+strings.Join(missing, ", "))
			continue
		}

		valid = append(valid, map[string]any{
			"id":               uuid.New().String(),
			"user_id":          a.UserID,
			"question_id":      a.QuestionID,
			"student_answer":   a.StudentAnswer,
			"is_correct":       *a.IsCorrect,
			"start_time":       a.StartTime,
			"completion_time":  a.CompletionTime,
			"duration_seconds": a.DurationSeconds,
			"createdAt":        now,
			"updatedAt":        now,
		})
		if !seenUsers[a.UserID] {
			seenUsers[a.UserID] = true
			userIDs = append(userIDs, a.UserID)
		}
		if !seenQuestions[a.QuestionID] {
			seenQuestions[a.QuestionID] = true
			questionIDs = append(questionIDs, a.QuestionID)
		}
	}

	if len(valid) == 0 {
		return outcome, apierr.Invalid("no valid answers to import")
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return outcome, apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	if err := func() error {
		records, err := runCollect(ctx, tx, `MATCH (u:User) WHERE u.id IN $ids RETURN u.id AS id`, map[string]any{"ids": userIDs})
		if err != nil {
			return err
		}
		existingUsers := collectIDs(records)

		records, err = runCollect(ctx, tx, `MATCH (q:Question) WHERE q.id IN $ids RETURN q.id AS id`, map[string]any{"ids": questionIDs})
		if err != nil {
			return err
		}
		existingQuestions := collectIDs(records)

		linked := make([]map[string]any, 0, len(valid))
		for _, a := range valid {
			if !existingUsers[a["user_id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("User %s not found", a["user_id"]))
				continue
			}
			if !existingQuestions[a["question_id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("Question %s not found", a["question_id"]))
				continue
			}
			linked = append(linked, a)
		}

		for _, chunk := range bulk.Chunk(linked, batchSize) {
			records, err := runCollect(ctx, tx, `
UNWIND $answers AS row
MATCH (u:User {id: row.user_id})
MATCH (q:Question {id: row.question_id})
CREATE (a:Answer {
    id: row.id, student_answer: row.student_answer, is_correct: row.is_correct,
    start_time: row.start_time, completion_time: row.completion_time,
    duration_seconds: row.duration_seconds,
    createdAt: row.createdAt, updatedAt: row.updatedAt
})
CREATE (u)-[:ANSWERED]->(a)
CREATE (a)-[:ANSWERS_QUESTION]->(q)
RETURN a`, map[string]any{"answers": chunk})
			if err != nil {
				return err
			}
			for _, rec := range records {
				outcome.Add(entityProps(rec, "a"))
			}
		}
		return tx.Commit(ctx)
	}(); err != nil {
		_ = tx.Rollback(ctx)
		s.log.Error("bulk answer import transaction failed", "error", err)
		return bulk.NewOutcome(len(answers)), apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	return outcome, nil
}

// UserAnswerHistory returns a user's attempts newest first along with an
// accuracy summary.
func (s *Store) UserAnswerHistory(ctx context.Context, userID string, limit int) (Props, error) {
	if limit <= 0 {
		limit = 50
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[:ANSWERED]->(a:Answer)-[:ANSWERS_QUESTION]->(q:Question)
MATCH (q)-[:BELONGS_TO_LESSON]->(l:Lesson)
RETURN a, q.title AS question_title, q.id AS question_id,
       q.difficulty AS difficulty, l.name AS lesson_name
ORDER BY a.createdAt DESC
LIMIT $limit`, map[string]any{"user_id": userID, "limit": limit})
	if err != nil {
		return nil, err
	}

	history := make([]Props, 0, len(records))
	correct := 0
	for _, rec := range records {
		a := entityProps(rec, "a")
		a["question_title"] = stringVal(rec, "question_title")
		a["question_id"] = stringVal(rec, "question_id")
		a["difficulty"] = stringVal(rec, "difficulty")
		a["lesson_name"] = stringVal(rec, "lesson_name")
		if boolProp(a, "is_correct") {
			correct++
		}
		history = append(history, a)
	}

	return Props{
		"user_id":       userID,
		"history":       history,
		"total_answers": len(history),
		"total_correct": correct,
		"accuracy":      domain.Round1(domain.Accuracy(correct, len(history))),
	}, nil
}
