package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type cleanupStep struct {
	key     string
	cascade string
	cypher  string
}

// cleanupSteps run in order inside one transaction. The test_questions step
// counts DISTINCT questions so the OPTIONAL MATCH fan-out over answers does
// not inflate the figure; cascaded answers are reported under their own key.
var cleanupSteps = []cleanupStep{
	{"questions", "", `
MATCH (q:Question)
WHERE NOT (q)-[:HAS_ANSWER]-() AND NOT (q)<-[:CONTAINS_QUESTION]-()
  AND NOT (q)-[:BELONGS_TO_LESSON]->()
DETACH DELETE q
RETURN count(*) AS deleted`},
	{"answers", "", `
MATCH (a:Answer)
WHERE NOT (:User)-[:ANSWERED]->(a) OR NOT (a)-[:ANSWERS_QUESTION]->(:Question)
DETACH DELETE a
RETURN count(*) AS deleted`},
	{"test_questions", "test_answers_cascaded", `
MATCH (q:TestQuestion)
WHERE NOT (:Test)-[:CONTAINS_QUESTION]->(q)
OPTIONAL MATCH (q)-[:HAS_ANSWER]->(a:TestAnswer)
DETACH DELETE q, a
RETURN count(DISTINCT q) AS deleted, count(DISTINCT a) AS cascaded`},
	{"test_answers", "", `
MATCH (a:TestAnswer)
WHERE NOT (:TestQuestion)-[:HAS_ANSWER]->(a)
DETACH DELETE a
RETURN count(*) AS deleted`},
}

func sumDeleted(counts Props) int64 {
	var total int64
	for _, v := range counts {
		if n, ok := v.(int64); ok {
			total += n
		}
	}
	return total
}

// CleanupOrphans deletes nodes whose required edges are gone: questions
// connected to nothing at all, answers without a user or question, test
// questions and answers detached from their test.
func (s *Store) CleanupOrphans(ctx context.Context) (Props, error) {
	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		counts := Props{}
		for _, step := range cleanupSteps {
			records, err := runCollect(ctx, tx, step.cypher, nil)
			if err != nil {
				return nil, err
			}
			var deleted, cascaded int64
			if len(records) > 0 {
				deleted = intVal(records[0], "deleted")
				cascaded = intVal(records[0], "cascaded")
			}
			counts[step.key] = deleted
			if step.cascade != "" {
				counts[step.cascade] = cascaded
			}
		}
		return counts, nil
	})
	if err != nil {
		return nil, err
	}

	counts := out.(Props)
	counts["total_deleted"] = sumDeleted(counts)
	return counts, nil
}

// WipeDatabase removes every node and relationship. Used by the seed tool
// before a fresh import, never exposed over HTTP.
func (s *Store) WipeDatabase(ctx context.Context) error {
	session := s.db.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runConsume(ctx, tx, `MATCH (n) DETACH DELETE n`, nil)
	})
	return err
}
