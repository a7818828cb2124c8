package bulk

import (
	"reflect"
	"testing"
)

func TestChunkPreservesOrderAndBounds(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}
	chunks := Chunk(items, 3)

	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("unexpected chunks: got=%v want=%v", chunks, want)
	}
}

func TestChunkEdgeCases(t *testing.T) {
	t.Parallel()

	if got := Chunk([]int{}, 3); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
	if got := Chunk([]int{1, 2}, 0); len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("non-positive size should yield one chunk, got %v", got)
	}
	if got := Chunk([]int{1, 2}, 5); len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("size larger than input should yield one chunk, got %v", got)
	}
}

func TestOutcomeAggregation(t *testing.T) {
	t.Parallel()

	o := NewOutcome(3)
	o.Reject("User", 1, "Missing name or email")
	o.RejectRecord("Email a@b.c already exists")
	o.Add(map[string]any{"id": "u1"})

	if o.TotalProcessed != 3 {
		t.Fatalf("total_processed: got=%d want=3", o.TotalProcessed)
	}
	if o.TotalCreated() != 1 || o.TotalErrors() != 2 {
		t.Fatalf("counts: created=%d errors=%d", o.TotalCreated(), o.TotalErrors())
	}
	if !o.Success() {
		t.Fatalf("outcome with one created record should be success")
	}
	if got := o.Errors[0]; got != "User 1: Missing name or email" {
		t.Fatalf("error format: got=%q", got)
	}
}

func TestOutcomeWithoutCreationsIsFailure(t *testing.T) {
	t.Parallel()

	o := NewOutcome(2)
	o.Reject("Answer", 0, "Missing question_id")
	if o.Success() {
		t.Fatalf("outcome without created records must not be success")
	}
	if o.CreatedList() == nil || o.ErrorList() == nil {
		t.Fatalf("lists must marshal as arrays, not null")
	}
}

func TestBatchesProcessed(t *testing.T) {
	t.Parallel()

	if got := BatchesProcessed(1200, 500); got != 3 {
		t.Fatalf("got=%d want=3", got)
	}
	if got := BatchesProcessed(10, 0); got != 1 {
		t.Fatalf("got=%d want=1", got)
	}
}
