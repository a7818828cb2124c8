package graph

import "context"

func (s *Store) ListSubjects(ctx context.Context) ([]Props, error) {
	records, err := s.readRecords(ctx, `MATCH (s:Subject) RETURN s ORDER BY s.name`, nil)
	if err != nil {
		return nil, err
	}
	subjects := make([]Props, 0, len(records))
	for _, rec := range records {
		subjects = append(subjects, entityProps(rec, "s"))
	}
	return subjects, nil
}

func (s *Store) ListTypeBooks(ctx context.Context, subjectID string) ([]Props, error) {
	cypher := `
MATCH (s:Subject)<-[:BELONGS_TO_SUBJECT]-(t:TypeBook)
RETURN t, s.name AS subject_name
ORDER BY s.name, t.name`
	params := map[string]any{}
	if subjectID != "" {
		cypher = `
MATCH (s:Subject {id: $subject_id})<-[:BELONGS_TO_SUBJECT]-(t:TypeBook)
RETURN t, s.name AS subject_name
ORDER BY t.name`
		params["subject_id"] = subjectID
	}

	records, err := s.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	typebooks := make([]Props, 0, len(records))
	for _, rec := range records {
		tb := entityProps(rec, "t")
		tb["subject_name"] = stringVal(rec, "subject_name")
		typebooks = append(typebooks, tb)
	}
	return typebooks, nil
}

func (s *Store) ListChapters(ctx context.Context, typebookID string) ([]Props, error) {
	cypher := `
MATCH (t:TypeBook)<-[:BELONGS_TO_TYPE_BOOK]-(c:Chapter)
RETURN c, t.name AS typebook_name
ORDER BY t.name, c.order`
	params := map[string]any{}
	if typebookID != "" {
		cypher = `
MATCH (t:TypeBook {id: $typebook_id})<-[:BELONGS_TO_TYPE_BOOK]-(c:Chapter)
RETURN c, t.name AS typebook_name
ORDER BY c.order`
		params["typebook_id"] = typebookID
	}

	records, err := s.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	chapters := make([]Props, 0, len(records))
	for _, rec := range records {
		ch := entityProps(rec, "c")
		ch["typebook_name"] = stringVal(rec, "typebook_name")
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

func (s *Store) ListLessons(ctx context.Context, chapterID string) ([]Props, error) {
	cypher := `
MATCH (c:Chapter)<-[:BELONGS_TO_CHAPTER]-(l:Lesson)
RETURN l, c.name AS chapter_name
ORDER BY c.order, l.order`
	params := map[string]any{}
	if chapterID != "" {
		cypher = `
MATCH (c:Chapter {id: $chapter_id})<-[:BELONGS_TO_CHAPTER]-(l:Lesson)
RETURN l, c.name AS chapter_name
ORDER BY l.order`
		params["chapter_id"] = chapterID
	}

	records, err := s.readRecords(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	lessons := make([]Props, 0, len(records))
	for _, rec := range records {
		l := entityProps(rec, "l")
		l["chapter_name"] = stringVal(rec, "chapter_name")
		lessons = append(lessons, l)
	}
	return lessons, nil
}
