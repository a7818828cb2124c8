package graph

import (
	"context"

	"github.com/hoclieu/edugraph-api/internal/domain"
)

// StudentDetailed returns one student's full picture: every answer with its
// hierarchy context, learning progress per subject, the most recent
// mistakes, and the distinct days they studied.
func (s *Store) StudentDetailed(ctx context.Context, userID string) (Props, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	answerRecords, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[:ANSWERED]->(a:Answer)-[:ANSWERS_QUESTION]->(q:Question)
MATCH (q)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s:Subject)
RETURN a, q.title AS question_title, q.difficulty AS difficulty,
       l.name AS lesson_name, c.name AS chapter_name,
       t.name AS typebook_name, s.name AS subject_name
ORDER BY a.createdAt DESC`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}

	answers := make([]Props, 0, len(answerRecords))
	mistakes := make([]Props, 0, 10)
	studyDays := make([]string, 0)
	seenDays := make(map[string]bool)
	correct := 0
	for _, rec := range answerRecords {
		a := entityProps(rec, "a")
		a["question_title"] = stringVal(rec, "question_title")
		a["difficulty"] = stringVal(rec, "difficulty")
		a["lesson_name"] = stringVal(rec, "lesson_name")
		a["chapter_name"] = stringVal(rec, "chapter_name")
		a["typebook_name"] = stringVal(rec, "typebook_name")
		a["subject_name"] = stringVal(rec, "subject_name")
		answers = append(answers, a)

		if boolProp(a, "is_correct") {
			correct++
		} else if len(mistakes) < 10 {
			mistakes = append(mistakes, a)
		}
		if created := stringProp(a, "createdAt"); len(created) >= 10 {
			day := created[:10]
			if !seenDays[day] {
				seenDays[day] = true
				studyDays = append(studyDays, day)
			}
		}
	}

	progressRecords, err := s.readRecords(ctx, `
MATCH (u:User {id: $user_id})-[r:LEARNED]->(k:Knowledge)
RETURN k.subject AS subject, count(k) AS topics, avg(r.progress) AS avg_progress,
       sum(CASE WHEN r.status IN ['completed', 'mastered'] THEN 1 ELSE 0 END) AS finished
ORDER BY subject`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	progress := make([]Props, 0, len(progressRecords))
	for _, rec := range progressRecords {
		progress = append(progress, Props{
			"subject":      stringVal(rec, "subject"),
			"topics":       intVal(rec, "topics"),
			"avg_progress": domain.Round2(floatVal(rec, "avg_progress")),
			"finished":     intVal(rec, "finished"),
		})
	}

	return Props{
		"user":              user,
		"answers":           answers,
		"recent_mistakes":   mistakes,
		"learning_progress": progress,
		"study_dates":       studyDays,
		"total_answers":     len(answers),
		"correct_answers":   correct,
		"accuracy":          domain.Round2(domain.Accuracy(correct, len(answers))),
		"total_study_days":  len(studyDays),
	}, nil
}

// StudentFilter narrows the cohort view. Empty values mean "no filter".
type StudentFilter struct {
	UserIDs   []string
	SubjectID string
	ChapterID string
	LessonID  string
	Limit     int
}

// studentRow is one answer observation used by the cohort aggregation.
type studentRow struct {
	user       Props
	subject    string
	difficulty string
	answered   bool
	isCorrect  bool
	duration   int64
}

// StudentsDetailed returns per-student answer metrics for a filtered
// cohort: accuracy rate, average duration, per-subject grouping, and
// per-difficulty performance.
func (s *Store) StudentsDetailed(ctx context.Context, f StudentFilter) ([]Props, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	userIDs := f.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}

	records, err := s.readRecords(ctx, `
MATCH (u:User)
WHERE size($user_ids) = 0 OR u.id IN $user_ids
WITH u ORDER BY u.name LIMIT $limit
OPTIONAL MATCH (u)-[:ANSWERED]->(a:Answer)-[:ANSWERS_QUESTION]->(q:Question)
OPTIONAL MATCH (q)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
OPTIONAL MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s:Subject)
WITH u, a, q, l, c, s
WHERE a IS NULL OR (
      ($subject_id = '' OR s.id = $subject_id)
  AND ($chapter_id = '' OR c.id = $chapter_id)
  AND ($lesson_id = '' OR l.id = $lesson_id))
RETURN u, s.name AS subject, q.difficulty AS difficulty,
       a.is_correct AS is_correct, a.duration_seconds AS duration`, map[string]any{
		"user_ids":   userIDs,
		"limit":      limit,
		"subject_id": f.SubjectID,
		"chapter_id": f.ChapterID,
		"lesson_id":  f.LessonID,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]studentRow, 0, len(records))
	for _, rec := range records {
		answered := anyVal(rec, "is_correct") != nil
		rows = append(rows, studentRow{
			user:       entityProps(rec, "u"),
			subject:    stringVal(rec, "subject"),
			difficulty: stringVal(rec, "difficulty"),
			answered:   answered,
			isCorrect:  answered && boolVal(rec, "is_correct"),
			duration:   intVal(rec, "duration"),
		})
	}
	return aggregateStudentRows(rows), nil
}

func bump(group map[string]*[2]int, key string, correct bool) {
	if key == "" {
		return
	}
	stat, ok := group[key]
	if !ok {
		stat = &[2]int{}
		group[key] = stat
	}
	stat[0]++
	if correct {
		stat[1]++
	}
}

// aggregateStudentRows folds per-answer rows into one metrics map per
// student. Input order decides output order.
func aggregateStudentRows(rows []studentRow) []Props {
	type acc struct {
		user         Props
		total        int
		correct      int
		durationSum  int64
		bySubject    map[string]*[2]int // total, correct
		byDifficulty map[string]*[2]int
	}

	order := make([]string, 0)
	accs := make(map[string]*acc)
	for _, row := range rows {
		id := stringProp(row.user, "id")
		a, ok := accs[id]
		if !ok {
			a = &acc{
				user:         row.user,
				bySubject:    map[string]*[2]int{},
				byDifficulty: map[string]*[2]int{},
			}
			accs[id] = a
			order = append(order, id)
		}
		if !row.answered {
			continue
		}
		a.total++
		a.durationSum += row.duration
		if row.isCorrect {
			a.correct++
		}
		bump(a.bySubject, row.subject, row.isCorrect)
		bump(a.byDifficulty, row.difficulty, row.isCorrect)
	}

	out := make([]Props, 0, len(order))
	for _, id := range order {
		a := accs[id]
		avgDuration := 0.0
		if a.total > 0 {
			avgDuration = float64(a.durationSum) / float64(a.total)
		}

		bySubject := make(Props, len(a.bySubject))
		for subject, stat := range a.bySubject {
			bySubject[subject] = Props{
				"total":    stat[0],
				"correct":  stat[1],
				"accuracy": domain.Round2(domain.Accuracy(stat[1], stat[0])),
			}
		}
		byDifficulty := make(Props, len(a.byDifficulty))
		for diff, stat := range a.byDifficulty {
			byDifficulty[diff] = Props{
				"total":    stat[0],
				"correct":  stat[1],
				"accuracy": domain.Round2(domain.Accuracy(stat[1], stat[0])),
			}
		}

		student := Props{}
		for k, v := range a.user {
			student[k] = v
		}
		student["total_answers"] = a.total
		student["correct_answers"] = a.correct
		student["accuracy_rate"] = domain.Round2(domain.Accuracy(a.correct, a.total))
		student["avg_duration_seconds"] = domain.Round2(avgDuration)
		student["by_subject"] = bySubject
		student["difficulty_performance"] = byDifficulty
		out = append(out, student)
	}
	return out
}
