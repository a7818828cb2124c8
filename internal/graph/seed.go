package graph

import (
	"context"

	"github.com/google/uuid"
)

// Ensure* methods are used by the seed tool. Each MERGEs on the natural key
// so re-running an import is idempotent, and returns the node id.

func (s *Store) EnsureSubject(ctx context.Context, name string) (string, error) {
	return s.ensure(ctx, `
MERGE (s:Subject {name: $name})
ON CREATE SET s.id = $id, s.createdAt = $now, s.updatedAt = $now
RETURN s.id AS id`, map[string]any{"name": name})
}

func (s *Store) EnsureTypeBook(ctx context.Context, subjectID, name, grade string) (string, error) {
	return s.ensure(ctx, `
MATCH (s:Subject {id: $subject_id})
MERGE (t:TypeBook {name: $name, grade: $grade})-[:BELONGS_TO_SUBJECT]->(s)
ON CREATE SET t.id = $id, t.createdAt = $now, t.updatedAt = $now
RETURN t.id AS id`, map[string]any{"subject_id": subjectID, "name": name, "grade": grade})
}

func (s *Store) EnsureChapter(ctx context.Context, typebookID, name string, order int) (string, error) {
	return s.ensure(ctx, `
MATCH (t:TypeBook {id: $typebook_id})
MERGE (c:Chapter {name: $name})-[:BELONGS_TO_TYPE_BOOK]->(t)
ON CREATE SET c.id = $id, c.order = $order, c.createdAt = $now, c.updatedAt = $now
RETURN c.id AS id`, map[string]any{"typebook_id": typebookID, "name": name, "order": order})
}

func (s *Store) EnsureLesson(ctx context.Context, chapterID, name string, order int) (string, error) {
	return s.ensure(ctx, `
MATCH (c:Chapter {id: $chapter_id})
MERGE (l:Lesson {name: $name})-[:BELONGS_TO_CHAPTER]->(c)
ON CREATE SET l.id = $id, l.order = $order, l.createdAt = $now, l.updatedAt = $now
RETURN l.id AS id`, map[string]any{"chapter_id": chapterID, "name": name, "order": order})
}

func (s *Store) ensure(ctx context.Context, cypher string, params map[string]any) (string, error) {
	params["id"] = uuid.New().String()
	params["now"] = nowStamp()
	records, err := s.writeRecords(ctx, cypher, params)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", nil
	}
	return stringVal(records[0], "id"), nil
}
