package graph

import (
	"strings"
	"testing"
)

func TestCleanupStepsCountQuestionsOnce(t *testing.T) {
	t.Parallel()

	var step cleanupStep
	for _, s := range cleanupSteps {
		if s.key == "test_questions" {
			step = s
			break
		}
	}
	if step.key == "" {
		t.Fatal("no test_questions cleanup step")
	}
	if !strings.Contains(step.cypher, "count(DISTINCT q)") {
		t.Fatalf("step must count distinct questions, got query:\n%s", step.cypher)
	}
	if step.cascade != "test_answers_cascaded" {
		t.Fatalf("cascade key: got=%q want=%q", step.cascade, "test_answers_cascaded")
	}
}

func TestSumDeletedIncludesCascaded(t *testing.T) {
	t.Parallel()

	counts := Props{
		"questions":             int64(1),
		"test_questions":        int64(2),
		"test_answers_cascaded": int64(3),
		"test_answers":          int64(0),
	}
	if got := sumDeleted(counts); got != 6 {
		t.Fatalf("total: got=%d want=6", got)
	}
}
