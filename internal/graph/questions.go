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

// questionWithHierarchy returns q plus the names of every ancestor level.
const questionHierarchyReturn = `
RETURN q, l.name AS lesson_name, c.name AS chapter_name,
       t.name AS typebook_name, s.name AS subject_name`

func questionFromRecord(rec *neo4j.Record) Props {
	q := entityProps(rec, "q")
	q["lesson_name"] = stringVal(rec, "lesson_name")
	q["chapter_name"] = stringVal(rec, "chapter_name")
	q["typebook_name"] = stringVal(rec, "typebook_name")
	q["subject_name"] = stringVal(rec, "subject_name")
	return q
}

func (s *Store) ListQuestions(ctx context.Context, lessonID, chapterID string) ([]Props, error) {
	var cypher string
	params := map[string]any{}
	switch {
	case lessonID != "":
		cypher = `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l:Lesson {id: $lesson_id})
MATCH (l)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)
MATCH (t)-[:BELONGS_TO_SUBJECT]->(s:Subject)` + questionHierarchyReturn + `
ORDER BY q.page`
		params["lesson_id"] = lessonID
	case chapterID != "":
		cypher = `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter {id: $chapter_id})
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)
MATCH (t)-[:BELONGS_TO_SUBJECT]->(s:Subject)` + questionHierarchyReturn + `
ORDER BY l.order, q.page`
		params["chapter_id"] = chapterID
	default:
		cypher = `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)
MATCH (t)-[:BELONGS_TO_SUBJECT]->(s:Subject)` + questionHierarchyReturn + `
ORDER BY s.name, t.name, c.order, l.order, q.page`
	}

	records, err := s.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	questions := make([]Props, 0, len(records))
	for _, rec := range records {
		questions = append(questions, questionFromRecord(rec))
	}
	return questions, nil
}

func (s *Store) CreateQuestion(ctx context.Context, in domain.QuestionRecord) (Props, error) {
	if !domain.ValidDifficulty(in.Difficulty) {
		return nil, apierr.Invalid("difficulty must be one of easy, medium, hard")
	}
	now := nowStamp()

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		lesson, err := runCollect(ctx, tx, `MATCH (l:Lesson {id: $lesson_id}) RETURN l.id AS id`, map[string]any{"lesson_id": in.LessonID})
		if err != nil {
			return nil, err
		}
		if len(lesson) == 0 {
			return nil, apierr.NotFound("lesson %s not found", in.LessonID)
		}

		records, err := runCollect(ctx, tx, `
MATCH (l:Lesson {id: $lesson_id})
CREATE (q:Question {
    id: $id, title: $title, content: $content,
    correct_answer: $correct_answer, image_question: $image_question,
    image_answer: $image_answer, difficulty: $difficulty,
    page: $page, createdAt: $now, updatedAt: $now
})
CREATE (q)-[:BELONGS_TO_LESSON]->(l)
RETURN q`, map[string]any{
			"lesson_id":      in.LessonID,
			"id":             uuid.New().String(),
			"title":          in.Title,
			"content":        in.Content,
			"correct_answer": in.CorrectAnswer,
			"image_question": in.ImageQuestion,
			"image_answer":   in.ImageAnswer,
			"difficulty":     in.Difficulty,
			"page":           pageOf(in),
			"now":            now,
		})
		if err != nil {
			return nil, err
		}
		return entityProps(records[0], "q"), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

func pageOf(in domain.QuestionRecord) int {
	if in.Page == nil {
		return 0
	}
	return *in.Page
}

// BulkCreateQuestions imports questions and their lesson relationships.
// Records referencing a missing lesson fail individually; the rest of the
// batch still commits.
func (s *Store) BulkCreateQuestions(ctx context.Context, questions []domain.QuestionRecord, batchSize int) (*bulk.Outcome, error) {
	if batchSize <= 0 {
		batchSize = bulk.DefaultQuestionBatchSize
	}
	outcome := bulk.NewOutcome(len(questions))

	now := nowStamp()
	valid := make([]map[string]any, 0, len(questions))
	lessonIDs := make([]string, 0, len(questions))
	seenLessons := make(map[string]bool)
	for i, q := range questions {
		var missing []string
		if strings.TrimSpace(q.LessonID) == "" {
			missing = append(missing, "lesson_id")
		}
		if strings.TrimSpace(q.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(q.Content) == "" {
			missing = append(missing, "content")
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			missing = append(missing, "correct_answer")
		}
		if strings.TrimSpace(q.Difficulty) == "" {
			missing = append(missing, "difficulty")
		}
		if q.Page == nil {
			missing = append(missing, "page")
		}
		if len(missing) > 0 {
			outcome.Reject("Question", i, "Missing "+strings.Join(missing, ", "))
			continue
		}
		if !domain.ValidDifficulty(q.Difficulty) {
			outcome.Reject("Question", i, fmt.Sprintf("Invalid difficulty %q", q.Difficulty))
			continue
		}

		valid = append(valid, map[string]any{
			"id":             uuid.New().String(),
			"lesson_id":      q.LessonID,
			"title":          q.Title,
			"content":        q.Content,
			"correct_answer": q.CorrectAnswer,
			"image_question": q.ImageQuestion,
			"image_answer":   q.ImageAnswer,
			"difficulty":     q.Difficulty,
			"page":           *q.Page,
			"createdAt":      now,
			"updatedAt":      now,
		})
		if !seenLessons[q.LessonID] {
			seenLessons[q.LessonID] = true
			lessonIDs = append(lessonIDs, q.LessonID)
		}
	}

	if len(valid) == 0 {
		return outcome, apierr.Invalid("no valid questions to import")
	}

	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		return outcome, apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	if err := func() error {
		records, err := runCollect(ctx, tx, `
MATCH (l:Lesson) WHERE l.id IN $lesson_ids RETURN l.id AS id`, map[string]any{"lesson_ids": lessonIDs})
		if err != nil {
			return err
		}
		existingLessons := collectIDs(records)

		linked := make([]map[string]any, 0, len(valid))
		for _, q := range valid {
			if !existingLessons[q["lesson_id"].(string)] {
				outcome.RejectRecord(fmt.Sprintf("Lesson %s not found for question %s", q["lesson_id"], q["title"]))
				continue
			}
			linked = append(linked, q)
		}

		for _, chunk := range bulk.Chunk(linked, batchSize) {
			records, err := runCollect(ctx, tx, `
UNWIND $questions AS row
CREATE (q:Question {
    id: row.id, title: row.title, content: row.content,
    correct_answer: row.correct_answer, image_question: row.image_question,
    image_answer: row.image_answer, difficulty: row.difficulty,
    page: row.page, createdAt: row.createdAt, updatedAt: row.updatedAt
})
RETURN q`, map[string]any{"questions": chunk})
			if err != nil {
				return err
			}
			for _, rec := range records {
				outcome.Add(entityProps(rec, "q"))
			}

			rels := make([]map[string]any, 0, len(chunk))
			for _, q := range chunk {
				rels = append(rels, map[string]any{"question_id": q["id"], "lesson_id": q["lesson_id"]})
			}
			if err := runConsume(ctx, tx, `
UNWIND $rels AS rel
MATCH (l:Lesson {id: rel.lesson_id})
MATCH (q:Question {id: rel.question_id})
CREATE (q)-[:BELONGS_TO_LESSON]->(l)`, map[string]any{"rels": rels}); err != nil {
				return err
			}
		}
		return tx.Commit(ctx)
	}(); err != nil {
		_ = tx.Rollback(ctx)
		s.log.Error("bulk question import transaction failed", "error", err)
		return bulk.NewOutcome(len(questions)), apierr.New(http.StatusInternalServerError, "transaction_failed", fmt.Errorf("transaction failed: %w", err))
	}

	return outcome, nil
}

// RandomFilter narrows random-question sampling.
type RandomFilter struct {
	Difficulty string
	SubjectID  string
	ExcludeIDs []string
	Limit      int
}

func (s *Store) RandomQuestions(ctx context.Context, f RandomFilter) ([]Props, error) {
	if f.Difficulty != "" && !domain.ValidDifficulty(f.Difficulty) {
		return nil, apierr.Invalid("difficulty must be one of easy, medium, hard")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}

	records, err := s.readRecords(ctx, `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)
MATCH (t)-[:BELONGS_TO_SUBJECT]->(s:Subject)
WHERE ($difficulty = '' OR q.difficulty = $difficulty)
  AND ($subject_id = '' OR s.id = $subject_id)
  AND NOT q.id IN $exclude_ids
WITH q, l, c, t, s, rand() AS shuffle
ORDER BY shuffle
LIMIT $limit`+questionHierarchyReturn, map[string]any{
		"difficulty":  f.Difficulty,
		"subject_id":  f.SubjectID,
		"exclude_ids": exclude,
		"limit":       limit,
	})
	if err != nil {
		return nil, err
	}
	questions := make([]Props, 0, len(records))
	for _, rec := range records {
		questions = append(questions, questionFromRecord(rec))
	}
	return questions, nil
}

// GenerateQuiz samples questions into a one-off quiz envelope.
func (s *Store) GenerateQuiz(ctx context.Context, f RandomFilter) (Props, error) {
	if f.Limit <= 0 {
		return nil, apierr.Invalid("count must be positive")
	}
	questions, err := s.RandomQuestions(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("no questions match the quiz filters")
	}
	return Props{
		"quiz_id":      uuid.New().String(),
		"generated_at": nowStamp(),
		"questions":    questions,
		"count":        len(questions),
		"filters": Props{
			"difficulty":  f.Difficulty,
			"subject_id":  f.SubjectID,
			"exclude_ids": f.ExcludeIDs,
			"count":       f.Limit,
		},
	}, nil
}
