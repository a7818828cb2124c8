package graph

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

// CreateCompleteTest stores a finished test in one shot: the Test node, a
// TestQuestion per item, a TestAnswer per attempted item, and the score
// rollup computed from the submitted questions.
func (s *Store) CreateCompleteTest(ctx context.Context, in domain.CompleteTestInput) (Props, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.Invalid("title is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, apierr.Invalid("user_id is required")
	}
	if len(in.Questions) == 0 {
		return nil, apierr.Invalid("questions must not be empty")
	}
	for i, q := range in.Questions {
		missing := []string{}
		if strings.TrimSpace(q.Question) == "" {
			missing = append(missing, "question")
		}
		if strings.TrimSpace(q.Answer) == "" {
			missing = append(missing, "answer")
		}
		if strings.TrimSpace(q.StudentAnswer) == "" {
			missing = append(missing, "student_answer")
		}
		if q.IsCorrect == nil {
			missing = append(missing, "is_correct")
		}
		if len(missing) > 0 {
			return nil, apierr.Invalid("question %d: missing %s", i, strings.Join(missing, ", "))
		}
		if q.Difficulty != "" && !domain.ValidDifficulty(q.Difficulty) {
			return nil, apierr.Invalid("question %d: difficulty must be one of easy, medium, hard", i)
		}
	}

	now := nowStamp()
	testID := uuid.New().String()

	totalPoints := 0
	earnedPoints := 0
	correct := 0
	rows := make([]map[string]any, 0, len(in.Questions))
	for i, q := range in.Questions {
		points := 1
		if q.Points != nil {
			points = *q.Points
		}
		isCorrect := q.IsCorrect != nil && *q.IsCorrect
		totalPoints += points
		if isCorrect {
			earnedPoints += points
			correct++
		}
		rows = append(rows, map[string]any{
			"id":               uuid.New().String(),
			"answer_id":        uuid.New().String(),
			"order":            i + 1,
			"question":         q.Question,
			"answer":           q.Answer,
			"student_answer":   q.StudentAnswer,
			"is_correct":       isCorrect,
			"points":           points,
			"difficulty":       q.Difficulty,
			"image_question":   q.ImageQuestion,
			"image_answer":     q.ImageAnswer,
			"duration_seconds": q.DurationSeconds,
		})
	}
	accuracy := domain.Round2(domain.Accuracy(earnedPoints, totalPoints))
	startTime := in.StartTime
	if startTime == "" {
		startTime = now
	}

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

		records, err := runCollect(ctx, tx, `
MATCH (u:User {id: $user_id})
CREATE (t:Test {
    id: $id, title: $title, description: $description, status: 'completed',
    total_questions: $total_questions, correct_answers: $correct_answers,
    total_score: $total_score, max_possible_score: $max_possible_score,
    accuracy_percentage: $accuracy_percentage, duration_minutes: $duration_minutes,
    start_time: $start_time, end_time: $now, createdAt: $now, updatedAt: $now
})
CREATE (u)-[:TOOK]->(t)
RETURN t`, map[string]any{
			"user_id":             in.UserID,
			"id":                  testID,
			"title":               in.Title,
			"description":         in.Description,
			"total_questions":     len(in.Questions),
			"correct_answers":     correct,
			"total_score":         earnedPoints,
			"max_possible_score":  totalPoints,
			"accuracy_percentage": accuracy,
			"duration_minutes":    in.DurationMinutes,
			"start_time":          startTime,
			"now":                 now,
		})
		if err != nil {
			return nil, err
		}

		if err := runConsume(ctx, tx, `
MATCH (t:Test {id: $test_id})
UNWIND $questions AS row
CREATE (q:TestQuestion {
    id: row.id, order: row.order, question: row.question, answer: row.answer,
    points: row.points, difficulty: row.difficulty,
    image_question: row.image_question, image_answer: row.image_answer,
    createdAt: $now
})
CREATE (t)-[:CONTAINS_QUESTION]->(q)
CREATE (a:TestAnswer {
    id: row.answer_id, student_answer: row.student_answer,
    is_correct: row.is_correct, duration_seconds: row.duration_seconds,
    createdAt: $now
})
CREATE (q)-[:HAS_ANSWER]->(a)`, map[string]any{
			"test_id":   testID,
			"questions": rows,
			"now":       now,
		}); err != nil {
			return nil, err
		}
		return entityProps(records[0], "t"), nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}

// UserTestHistory lists a user's tests newest first with each test's
// questions and answers attached, plus an overall summary.
func (s *Store) UserTestHistory(ctx context.Context, userID string, limit int) (Props, error) {
	if limit <= 0 {
		limit = 20
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[:TOOK]->(t:Test)
RETURN t
ORDER BY t.createdAt DESC
LIMIT $limit`, map[string]any{"user_id": userID, "limit": limit})
	if err != nil {
		return nil, err
	}

	tests := make([]Props, 0, len(records))
	testIDs := make([]string, 0, len(records))
	var scoreSum float64
	var totalQuestions, totalCorrect int64
	for _, rec := range records {
		t := entityProps(rec, "t")
		if v, ok := t["accuracy_percentage"].(float64); ok {
			scoreSum += v
		}
		totalQuestions += intProp(t, "total_questions")
		totalCorrect += intProp(t, "correct_answers")
		t["questions"] = []Props{}
		tests = append(tests, t)
		testIDs = append(testIDs, stringProp(t, "id"))
	}

	if len(testIDs) > 0 {
		qRecords, err := s.readRecords(ctx, `
MATCH (t:Test)-[:CONTAINS_QUESTION]->(q:TestQuestion)
WHERE t.id IN $test_ids
OPTIONAL MATCH (q)-[:HAS_ANSWER]->(a:TestAnswer)
RETURN t.id AS test_id, q, a
ORDER BY q.order`, map[string]any{"test_ids": testIDs})
		if err != nil {
			return nil, err
		}
		byTest := make(map[string]Props, len(tests))
		for _, t := range tests {
			byTest[stringProp(t, "id")] = t
		}
		for _, rec := range qRecords {
			t, ok := byTest[stringVal(rec, "test_id")]
			if !ok {
				continue
			}
			q := entityProps(rec, "q")
			if a := entityProps(rec, "a"); len(a) > 0 {
				q["student_answer"] = a["student_answer"]
				q["is_correct"] = a["is_correct"]
				q["duration_seconds"] = a["duration_seconds"]
			}
			t["questions"] = append(t["questions"].([]Props), q)
		}
	}

	avg := 0.0
	if len(tests) > 0 {
		avg = scoreSum / float64(len(tests))
	}

	return Props{
		"user_id": userID,
		"tests":   tests,
		"summary": Props{
			"total_tests":     len(tests),
			"total_questions": totalQuestions,
			"total_correct":   totalCorrect,
			"average_score":   domain.Round1(avg),
			"accuracy":        domain.Round1(domain.Accuracy(int(totalCorrect), int(totalQuestions))),
		},
	}, nil
}

// TestDetails returns the test metadata, its questions with answers in
// order, and per-difficulty accuracy.
func (s *Store) TestDetails(ctx context.Context, testID string) (Props, error) {
	testRecords, err := s.readRecords(ctx, `
MATCH (u:User)-[:TOOK]->(t:Test {id: $test_id})
RETURN t, u.id AS user_id, u.name AS user_name`, map[string]any{"test_id": testID})
	if err != nil {
		return nil, err
	}
	if len(testRecords) == 0 {
		return nil, apierr.NotFound("test %s not found", testID)
	}
	test := entityProps(testRecords[0], "t")
	test["user_id"] = stringVal(testRecords[0], "user_id")
	test["user_name"] = stringVal(testRecords[0], "user_name")

	records, err := s.readRecords(ctx, `
MATCH (t:Test {id: $test_id})-[:CONTAINS_QUESTION]->(q:TestQuestion)
OPTIONAL MATCH (q)-[:HAS_ANSWER]->(a:TestAnswer)
RETURN q, a
ORDER BY q.order`, map[string]any{"test_id": testID})
	if err != nil {
		return nil, err
	}

	type diffStat struct{ total, correct int }
	byDifficulty := map[string]*diffStat{}
	questions := make([]Props, 0, len(records))
	correct := 0
	var totalTime int64
	for _, rec := range records {
		q := entityProps(rec, "q")
		a := entityProps(rec, "a")
		if len(a) > 0 {
			q["student_answer"] = a["student_answer"]
			q["is_correct"] = a["is_correct"]
			q["duration_seconds"] = a["duration_seconds"]
		}
		questions = append(questions, q)

		if boolProp(q, "is_correct") {
			correct++
		}
		totalTime += intProp(q, "duration_seconds")

		diff := stringProp(q, "difficulty")
		if diff == "" {
			diff = "unspecified"
		}
		stat, ok := byDifficulty[diff]
		if !ok {
			stat = &diffStat{}
			byDifficulty[diff] = stat
		}
		stat.total++
		if boolProp(q, "is_correct") {
			stat.correct++
		}
	}

	analysis := make(map[string]Props, len(byDifficulty))
	for diff, stat := range byDifficulty {
		analysis[diff] = Props{
			"total":    stat.total,
			"correct":  stat.correct,
			"accuracy": domain.Round2(domain.Accuracy(stat.correct, stat.total)),
		}
	}

	avgTime := 0.0
	if len(questions) > 0 {
		avgTime = float64(totalTime) / float64(len(questions))
	}

	return Props{
		"test":      test,
		"questions": questions,
		"summary": Props{
			"total_questions":     len(questions),
			"correct_answers":     correct,
			"accuracy_percentage": domain.Round2(domain.Accuracy(correct, len(questions))),
			"total_time_seconds":  totalTime,
			"avg_time_seconds":    domain.Round2(avgTime),
		},
		"difficulty_analysis": analysis,
	}, nil
}

// TestSearchFilter narrows test searches. Zero values mean "no filter".
type TestSearchFilter struct {
	UserID   string
	Query    string
	MinScore float64
	MaxScore float64
	From     string
	To       string
	Limit    int
}

// SearchTests filters tests with a dynamically assembled WHERE clause.
func (s *Store) SearchTests(ctx context.Context, f TestSearchFilter) ([]Props, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	clauses := []string{}
	params := map[string]any{"limit": limit}
	if f.UserID != "" {
		clauses = append(clauses, "u.id = $user_id")
		params["user_id"] = f.UserID
	}
	if f.Query != "" {
		clauses = append(clauses, "toLower(t.title) CONTAINS toLower($query)")
		params["query"] = f.Query
	}
	if f.MinScore > 0 {
		clauses = append(clauses, "t.accuracy_percentage >= $min_score")
		params["min_score"] = f.MinScore
	}
	if f.MaxScore > 0 {
		clauses = append(clauses, "t.accuracy_percentage <= $max_score")
		params["max_score"] = f.MaxScore
	}
	if f.From != "" {
		clauses = append(clauses, "t.createdAt >= $from")
		params["from"] = f.From
	}
	if f.To != "" {
		clauses = append(clauses, "t.createdAt <= $to")
		params["to"] = f.To
	}

	cypher := "MATCH (u:User)-[:TOOK]->(t:Test)\n"
	if len(clauses) > 0 {
		cypher += "WHERE " + strings.Join(clauses, " AND ") + "\n"
	}
	cypher += `RETURN t, u.id AS user_id, u.name AS user_name
ORDER BY t.createdAt DESC
LIMIT $limit`

	records, err := s.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	tests := make([]Props, 0, len(records))
	for _, rec := range records {
		t := entityProps(rec, "t")
		t["user_id"] = stringVal(rec, "user_id")
		t["user_name"] = stringVal(rec, "user_name")
		tests = append(tests, t)
	}
	return tests, nil
}

// DeleteTest removes the test plus its questions and answers.
func (s *Store) DeleteTest(ctx context.Context, testID string) (Props, error) {
	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := runCollect(ctx, tx, `
MATCH (t:Test {id: $test_id})
OPTIONAL MATCH (t)-[:CONTAINS_QUESTION]->(q:TestQuestion)
OPTIONAL MATCH (q)-[:HAS_ANSWER]->(a:TestAnswer)
WITH t, collect(DISTINCT q) AS questions, collect(DISTINCT a) AS answers
WITH t, questions, answers, size(questions) AS question_count, size(answers) AS answer_count
FOREACH (a IN answers | DETACH DELETE a)
FOREACH (q IN questions | DETACH DELETE q)
DETACH DELETE t
RETURN question_count, answer_count`, map[string]any{"test_id": testID})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, apierr.NotFound("test %s not found", testID)
		}
		return Props{
			"test_id":           testID,
			"deleted_questions": intVal(records[0], "question_count"),
			"deleted_answers":   intVal(records[0], "answer_count"),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(Props), nil
}
