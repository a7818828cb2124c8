package graph

import (
	"context"
)

const treeRowsCypher = `
MATCH (s:Subject)
OPTIONAL MATCH (t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s)
OPTIONAL MATCH (c:Chapter)-[:BELONGS_TO_TYPE_BOOK]->(t)
OPTIONAL MATCH (l:Lesson)-[:BELONGS_TO_CHAPTER]->(c)
OPTIONAL MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l)
RETURN s.id AS subject_id, s.name AS subject_name,
       t.id AS typebook_id, t.name AS typebook_name, t.grade AS typebook_grade,
       c.id AS chapter_id, c.name AS chapter_name, c.order AS chapter_order,
       l.id AS lesson_id, l.name AS lesson_name, l.order AS lesson_order,
       collect({id: q.id, title: q.title, page: q.page}) AS questions
ORDER BY subject_name, typebook_name, chapter_order, lesson_order`

// TreeOptions controls which optional payloads the tree carries.
type TreeOptions struct {
	IncludeUsers     bool
	IncludeQuestions bool
}

// Tree returns the content hierarchy nested subject-down, optionally with
// each lesson's questions and the user list alongside.
func (s *Store) Tree(ctx context.Context, opts TreeOptions) (Props, error) {
	subjects, err := s.treeSubjects(ctx, opts.IncludeQuestions)
	if err != nil {
		return nil, err
	}

	users := []Props{}
	if opts.IncludeUsers {
		records, err := s.readRecords(ctx,
			`MATCH (u:User) RETURN u.id AS id, u.name AS name, u.email AS email ORDER BY u.name`, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			users = append(users, recordToMap(rec))
		}
	}

	return Props{
		"tree_structure": subjects,
		"users":          users,
		"summary": Props{
			"total_subjects":    len(subjects),
			"total_users":       len(users),
			"include_users":     opts.IncludeUsers,
			"include_questions": opts.IncludeQuestions,
		},
	}, nil
}

func (s *Store) treeSubjects(ctx context.Context, includeQuestions bool) ([]Props, error) {
	records, err := s.readRecords(ctx, treeRowsCypher, nil)
	if err != nil {
		return nil, err
	}

	subjects := make([]Props, 0)
	subjectIdx := map[string]Props{}
	typebookIdx := map[string]Props{}
	chapterIdx := map[string]Props{}
	for _, rec := range records {
		subjectID := stringVal(rec, "subject_id")
		if subjectID == "" {
			continue
		}
		subject, ok := subjectIdx[subjectID]
		if !ok {
			subject = Props{
				"id":        subjectID,
				"name":      stringVal(rec, "subject_name"),
				"type":      "subject",
				"typebooks": []Props{},
			}
			subjectIdx[subjectID] = subject
			subjects = append(subjects, subject)
		}

		typebookID := stringVal(rec, "typebook_id")
		if typebookID == "" {
			continue
		}
		typebook, ok := typebookIdx[typebookID]
		if !ok {
			typebook = Props{
				"id":       typebookID,
				"name":     stringVal(rec, "typebook_name"),
				"grade":    anyVal(rec, "typebook_grade"),
				"type":     "typebook",
				"chapters": []Props{},
			}
			typebookIdx[typebookID] = typebook
			subject["typebooks"] = append(subject["typebooks"].([]Props), typebook)
		}

		chapterID := stringVal(rec, "chapter_id")
		if chapterID == "" {
			continue
		}
		chapter, ok := chapterIdx[chapterID]
		if !ok {
			chapter = Props{
				"id":      chapterID,
				"name":    stringVal(rec, "chapter_name"),
				"order":   anyVal(rec, "chapter_order"),
				"type":    "chapter",
				"lessons": []Props{},
			}
			chapterIdx[chapterID] = chapter
			typebook["chapters"] = append(typebook["chapters"].([]Props), chapter)
		}

		lessonID := stringVal(rec, "lesson_id")
		if lessonID == "" {
			continue
		}
		lesson := Props{
			"id":    lessonID,
			"name":  stringVal(rec, "lesson_name"),
			"order": anyVal(rec, "lesson_order"),
			"type":  "lesson",
		}
		if includeQuestions {
			raw, _ := anyVal(rec, "questions").([]any)
			questions := make([]Props, 0, len(raw))
			for _, item := range raw {
				q, _ := item.(map[string]any)
				if q == nil || q["id"] == nil {
					continue
				}
				questions = append(questions, q)
			}
			lesson["questions"] = questions
		}
		chapter["lessons"] = append(chapter["lessons"].([]Props), lesson)
	}
	return subjects, nil
}

// TreeIDs is the same nesting as Tree but carries ids only, for clients
// that sync structure without payload.
func (s *Store) TreeIDs(ctx context.Context) ([]Props, error) {
	full, err := s.treeSubjects(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]Props, 0, len(full))
	for _, subject := range full {
		slim := Props{"id": subject["id"], "typebooks": []Props{}}
		for _, typebook := range subject["typebooks"].([]Props) {
			slimTB := Props{"id": typebook["id"], "chapters": []Props{}}
			for _, chapter := range typebook["chapters"].([]Props) {
				slimCh := Props{"id": chapter["id"], "lessons": []Props{}}
				for _, lesson := range chapter["lessons"].([]Props) {
					slimCh["lessons"] = append(slimCh["lessons"].([]Props), Props{"id": lesson["id"]})
				}
				slimTB["chapters"] = append(slimTB["chapters"].([]Props), slimCh)
			}
			slim["typebooks"] = append(slim["typebooks"].([]Props), slimTB)
		}
		out = append(out, slim)
	}
	return out, nil
}

// TreeFlat returns one row per lesson path, no nesting.
func (s *Store) TreeFlat(ctx context.Context) ([]Props, error) {
	records, err := s.readRecords(ctx, treeRowsCypher, nil)
	if err != nil {
		return nil, err
	}
	rows := make([]Props, 0, len(records))
	for _, rec := range records {
		if stringVal(rec, "subject_id") == "" {
			continue
		}
		row := recordToMap(rec)
		delete(row, "questions")
		rows = append(rows, row)
	}
	return rows, nil
}
