package graph

import (
	"context"

	"github.com/hoclieu/edugraph-api/internal/domain"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

// UserAnalytics reports one user's test performance: the overall numbers
// across every test they took, plus a per-difficulty breakdown.
func (s *Store) UserAnalytics(ctx context.Context, userID string) (Props, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overallRecords, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[:TOOK]->(t:Test)-[:CONTAINS_QUESTION]->(q:TestQuestion)-[:HAS_ANSWER]->(a:TestAnswer)
RETURN count(DISTINCT t) AS total_tests,
       count(q) AS total_questions_answered,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_answers,
       avg(a.duration_seconds) AS avg_time_per_question,
       sum(a.duration_seconds) AS total_study_time`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}

	overall := Props{
		"total_tests":              0,
		"total_questions_answered": 0,
		"correct_answers":          0,
		"overall_accuracy":         0.0,
		"avg_time_per_question":    0.0,
		"total_study_time":         0,
	}
	if len(overallRecords) > 0 {
		rec := overallRecords[0]
		total := intVal(rec, "total_questions_answered")
		correct := intVal(rec, "correct_answers")
		overall = Props{
			"total_tests":              intVal(rec, "total_tests"),
			"total_questions_answered": total,
			"correct_answers":          correct,
			"overall_accuracy":         domain.Round2(domain.Accuracy(int(correct), int(total))),
			"avg_time_per_question":    domain.Round2(floatVal(rec, "avg_time_per_question")),
			"total_study_time":         intVal(rec, "total_study_time"),
		}
	}

	difficultyRecords, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[:TOOK]->(t:Test)-[:CONTAINS_QUESTION]->(q:TestQuestion)-[:HAS_ANSWER]->(a:TestAnswer)
RETURN q.difficulty AS difficulty_level,
       count(q) AS total_questions,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_answers
ORDER BY difficulty_level`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	byDifficulty := make([]Props, 0, len(difficultyRecords))
	for _, rec := range difficultyRecords {
		total := intVal(rec, "total_questions")
		correct := intVal(rec, "correct_answers")
		byDifficulty = append(byDifficulty, Props{
			"difficulty_level": stringVal(rec, "difficulty_level"),
			"total_questions":  total,
			"correct_answers":  correct,
			"accuracy_rate":    domain.Round2(domain.Accuracy(int(correct), int(total))),
		})
	}

	return Props{
		"user":                   user,
		"overall_statistics":     overall,
		"difficulty_performance": byDifficulty,
	}, nil
}

// scoreBucket maps a test score onto its reporting bucket.
func scoreBucket(score float64) string {
	switch {
	case score >= 90:
		return "Excellent (90-100%)"
	case score >= 80:
		return "Good (80-89%)"
	case score >= 70:
		return "Average (70-79%)"
	case score >= 60:
		return "Below Average (60-69%)"
	default:
		return "Poor (<60%)"
	}
}

// SystemAnalytics returns system-wide totals, the most active test takers,
// and a distribution of test scores over fixed buckets.
func (s *Store) SystemAnalytics(ctx context.Context) (Props, error) {
	statRecords, err := s.readRecords(ctx, `
MATCH (u:User)
OPTIONAL MATCH (u)-[:TOOK]->(t:Test)
OPTIONAL MATCH (t)-[:CONTAINS_QUESTION]->(q:TestQuestion)-[:HAS_ANSWER]->(a:TestAnswer)
RETURN count(DISTINCT u) AS total_users,
       count(DISTINCT t) AS total_tests,
       count(DISTINCT q) AS total_questions,
       count(a) AS total_answers,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS total_correct_answers`, nil)
	if err != nil {
		return nil, err
	}
	overall := Props{}
	if len(statRecords) > 0 {
		rec := statRecords[0]
		answers := intVal(rec, "total_answers")
		correct := intVal(rec, "total_correct_answers")
		overall = Props{
			"total_users":           intVal(rec, "total_users"),
			"total_tests":           intVal(rec, "total_tests"),
			"total_questions":       intVal(rec, "total_questions"),
			"total_answers":         answers,
			"total_correct_answers": correct,
			"system_accuracy":       domain.Round2(domain.Accuracy(int(correct), int(answers))),
		}
	}

	activeRecords, err := s.readRecords(ctx, `
MATCH (u:User)-[:TOOK]->(t:Test)
RETURN u.name AS user_name, u.email AS user_email,
       count(t) AS tests_taken, max(t.createdAt) AS latest_activity
ORDER BY tests_taken DESC
LIMIT 10`, nil)
	if err != nil {
		return nil, err
	}
	topUsers := make([]Props, 0, len(activeRecords))
	for _, rec := range activeRecords {
		topUsers = append(topUsers, Props{
			"user_name":       stringVal(rec, "user_name"),
			"user_email":      stringVal(rec, "user_email"),
			"tests_taken":     intVal(rec, "tests_taken"),
			"latest_activity": stringVal(rec, "latest_activity"),
		})
	}

	scoreRecords, err := s.readRecords(ctx, `
MATCH (t:Test)
WHERE t.accuracy_percentage IS NOT NULL
RETURN t.accuracy_percentage AS score`, nil)
	if err != nil {
		return nil, err
	}
	distribution := Props{}
	for _, rec := range scoreRecords {
		bucket := scoreBucket(floatVal(rec, "score"))
		n, _ := distribution[bucket].(int)
		distribution[bucket] = n + 1
	}

	return Props{
		"overall_statistics":       overall,
		"top_active_users":         topUsers,
		"performance_distribution": distribution,
	}, nil
}

// SubjectAnalytics reports answer activity under one subject, broken down
// by chapter and by question difficulty.
func (s *Store) SubjectAnalytics(ctx context.Context, subjectID string) (Props, error) {
	exists, err := s.readRecords(ctx, `MATCH (s:Subject {id: $id}) RETURN s.name AS name`, map[string]any{"id": subjectID})
	if err != nil {
		return nil, err
	}
	if len(exists) == 0 {
		return nil, apierr.NotFound("subject %s not found", subjectID)
	}

	totalRecords, err := s.readRecords(ctx, `
MATCH (s:Subject {id: $id})
OPTIONAL MATCH (t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s)
OPTIONAL MATCH (c:Chapter)-[:BELONGS_TO_TYPE_BOOK]->(t)
OPTIONAL MATCH (l:Lesson)-[:BELONGS_TO_CHAPTER]->(c)
OPTIONAL MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l)
OPTIONAL MATCH (a:Answer)-[:ANSWERS_QUESTION]->(q)
RETURN count(DISTINCT t) AS typebooks, count(DISTINCT c) AS chapters,
       count(DISTINCT l) AS lessons, count(DISTINCT q) AS questions,
       count(a) AS answers,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_answers`, map[string]any{"id": subjectID})
	if err != nil {
		return nil, err
	}

	chapterRecords, err := s.readRecords(ctx, `
MATCH (c:Chapter)-[:BELONGS_TO_TYPE_BOOK]->(:TypeBook)-[:BELONGS_TO_SUBJECT]->(s:Subject {id: $id})
OPTIONAL MATCH (q:Question)-[:BELONGS_TO_LESSON]->(:Lesson)-[:BELONGS_TO_CHAPTER]->(c)
OPTIONAL MATCH (a:Answer)-[:ANSWERS_QUESTION]->(q)
RETURN c.id AS chapter_id, c.name AS chapter_name,
       count(DISTINCT q) AS questions, count(a) AS answers,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_answers
ORDER BY chapter_name`, map[string]any{"id": subjectID})
	if err != nil {
		return nil, err
	}
	byChapter := make([]Props, 0, len(chapterRecords))
	for _, rec := range chapterRecords {
		answers := intVal(rec, "answers")
		correct := intVal(rec, "correct_answers")
		byChapter = append(byChapter, Props{
			"chapter_id":      stringVal(rec, "chapter_id"),
			"chapter_name":    stringVal(rec, "chapter_name"),
			"questions":       intVal(rec, "questions"),
			"answers":         answers,
			"correct_answers": correct,
			"accuracy":        domain.Round2(domain.Accuracy(int(correct), int(answers))),
		})
	}

	difficultyRecords, err := s.readRecords(ctx, `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(:Lesson)-[:BELONGS_TO_CHAPTER]->(:Chapter)
      -[:BELONGS_TO_TYPE_BOOK]->(:TypeBook)-[:BELONGS_TO_SUBJECT]->(s:Subject {id: $id})
OPTIONAL MATCH (a:Answer)-[:ANSWERS_QUESTION]->(q)
RETURN q.difficulty AS difficulty, count(DISTINCT q) AS questions,
       count(a) AS answers,
       sum(CASE WHEN a.is_correct THEN 1 ELSE 0 END) AS correct_answers
ORDER BY difficulty`, map[string]any{"id": subjectID})
	if err != nil {
		return nil, err
	}
	byDifficulty := make([]Props, 0, len(difficultyRecords))
	for _, rec := range difficultyRecords {
		answers := intVal(rec, "answers")
		correct := intVal(rec, "correct_answers")
		byDifficulty = append(byDifficulty, Props{
			"difficulty":      stringVal(rec, "difficulty"),
			"questions":       intVal(rec, "questions"),
			"answers":         answers,
			"correct_answers": correct,
			"accuracy":        domain.Round2(domain.Accuracy(int(correct), int(answers))),
		})
	}

	out := Props{
		"subject_id":    subjectID,
		"subject_name":  stringVal(exists[0], "name"),
		"by_chapter":    byChapter,
		"by_difficulty": byDifficulty,
	}
	if len(totalRecords) > 0 {
		rec := totalRecords[0]
		answers := intVal(rec, "answers")
		correct := intVal(rec, "correct_answers")
		out["typebooks"] = intVal(rec, "typebooks")
		out["chapters"] = intVal(rec, "chapters")
		out["lessons"] = intVal(rec, "lessons")
		out["questions"] = intVal(rec, "questions")
		out["answers"] = answers
		out["correct_answers"] = correct
		out["accuracy"] = domain.Round2(domain.Accuracy(int(correct), int(answers)))
	}
	return out, nil
}

// HierarchyAnalytics breaks question volume down per subject, with
// difficulty distribution.
func (s *Store) HierarchyAnalytics(ctx context.Context) ([]Props, error) {
	records, err := s.readRecords(ctx, `
MATCH (s:Subject)
OPTIONAL MATCH (t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s)
OPTIONAL MATCH (c:Chapter)-[:BELONGS_TO_TYPE_BOOK]->(t)
OPTIONAL MATCH (l:Lesson)-[:BELONGS_TO_CHAPTER]->(c)
OPTIONAL MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l)
RETURN s.id AS subject_id, s.name AS subject_name,
       count(DISTINCT t) AS typebooks, count(DISTINCT c) AS chapters,
       count(DISTINCT l) AS lessons, count(DISTINCT q) AS questions,
       sum(CASE WHEN q.difficulty = 'easy' THEN 1 ELSE 0 END) AS easy,
       sum(CASE WHEN q.difficulty = 'medium' THEN 1 ELSE 0 END) AS medium,
       sum(CASE WHEN q.difficulty = 'hard' THEN 1 ELSE 0 END) AS hard
ORDER BY subject_name`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Props, 0, len(records))
	for _, rec := range records {
		out = append(out, Props{
			"subject_id":   stringVal(rec, "subject_id"),
			"subject_name": stringVal(rec, "subject_name"),
			"typebooks":    intVal(rec, "typebooks"),
			"chapters":     intVal(rec, "chapters"),
			"lessons":      intVal(rec, "lessons"),
			"questions":    intVal(rec, "questions"),
			"by_difficulty": Props{
				"easy":   intVal(rec, "easy"),
				"medium": intVal(rec, "medium"),
				"hard":   intVal(rec, "hard"),
			},
		})
	}
	return out, nil
}
