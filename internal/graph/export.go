package graph

import "context"

// Export dumps every user, every question with its hierarchy names, and
// every answer with its user and question context.
func (s *Store) Export(ctx context.Context) (Props, error) {
	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}

	questionRecords, err := s.readRecords(ctx, `
MATCH (q:Question)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
MATCH (c)-[:BELONGS_TO_TYPE_BOOK]->(t:TypeBook)-[:BELONGS_TO_SUBJECT]->(s:Subject)
RETURN q, l.name AS lesson_name, c.name AS chapter_name,
       t.name AS typebook_name, s.name AS subject_name`, nil)
	if err != nil {
		return nil, err
	}
	questions := make([]Props, 0, len(questionRecords))
	for _, rec := range questionRecords {
		q := entityProps(rec, "q")
		q["lesson_name"] = stringVal(rec, "lesson_name")
		q["chapter_name"] = stringVal(rec, "chapter_name")
		q["typebook_name"] = stringVal(rec, "typebook_name")
		q["subject_name"] = stringVal(rec, "subject_name")
		questions = append(questions, q)
	}

	answerRecords, err := s.readRecords(ctx, `
MATCH (u:User)-[:ANSWERED]->(a:Answer)-[:ANSWERS_QUESTION]->(q:Question)
MATCH (q)-[:BELONGS_TO_LESSON]->(l:Lesson)-[:BELONGS_TO_CHAPTER]->(c:Chapter)
RETURN a, u.id AS user_id, u.name AS student_name,
       q.id AS question_id, q.title AS question_title,
       l.name AS lesson_name, c.name AS chapter_name`, nil)
	if err != nil {
		return nil, err
	}
	answers := make([]Props, 0, len(answerRecords))
	for _, rec := range answerRecords {
		a := entityProps(rec, "a")
		a["user_id"] = stringVal(rec, "user_id")
		a["student_name"] = stringVal(rec, "student_name")
		a["question_id"] = stringVal(rec, "question_id")
		a["question_title"] = stringVal(rec, "question_title")
		a["lesson_name"] = stringVal(rec, "lesson_name")
		a["chapter_name"] = stringVal(rec, "chapter_name")
		answers = append(answers, a)
	}

	return Props{
		"users":     users,
		"questions": questions,
		"answers":   answers,
		"summary": Props{
			"total_users":     len(users),
			"total_questions": len(questions),
			"total_answers":   len(answers),
		},
	}, nil
}

// ExportFull dumps users, every test with its questions and answers, and
// every user-to-knowledge link.
func (s *Store) ExportFull(ctx context.Context) (Props, error) {
	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}

	testRecords, err := s.readRecords(ctx, `
MATCH (u:User)-[:TOOK]->(t:Test)
OPTIONAL MATCH (t)-[:CONTAINS_QUESTION]->(q:TestQuestion)
OPTIONAL MATCH (q)-[:HAS_ANSWER]->(a:TestAnswer)
WITH u, t, q, a ORDER BY q.order
RETURN t, u.id AS user_id, u.name AS user_name,
       collect({question: q, answer: a}) AS qa_pairs`, nil)
	if err != nil {
		return nil, err
	}
	tests := make([]Props, 0, len(testRecords))
	for _, rec := range testRecords {
		test := entityProps(rec, "t")
		test["user_id"] = stringVal(rec, "user_id")
		test["user_name"] = stringVal(rec, "user_name")

		pairs, _ := anyVal(rec, "qa_pairs").([]any)
		qa := make([]Props, 0, len(pairs))
		for _, raw := range pairs {
			pair, _ := raw.(map[string]any)
			if pair == nil || pair["question"] == nil {
				continue
			}
			qa = append(qa, Props{
				"question": nodeProps(pair["question"]),
				"answer":   nodeProps(pair["answer"]),
			})
		}
		test["questions_and_answers"] = qa
		tests = append(tests, test)
	}

	linkRecords, err := s.readRecords(ctx, `
MATCH (u:User)-[r:LEARNED]->(k:Knowledge)
RETURN u.id AS user_id, u.name AS user_name, k, r`, nil)
	if err != nil {
		return nil, err
	}
	links := make([]Props, 0, len(linkRecords))
	for _, rec := range linkRecords {
		links = append(links, Props{
			"user_id":      stringVal(rec, "user_id"),
			"user_name":    stringVal(rec, "user_name"),
			"knowledge":    entityProps(rec, "k"),
			"relationship": entityProps(rec, "r"),
		})
	}

	return Props{
		"users":           users,
		"tests":           tests,
		"knowledge_links": links,
		"summary": Props{
			"total_users":           len(users),
			"total_tests":           len(tests),
			"total_knowledge_links": len(links),
		},
		"exported_at": nowStamp(),
	}, nil
}

func (s *Store) allUsers(ctx context.Context) ([]Props, error) {
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
