// Package bulk holds the record-processing pieces shared by every bulk-import
// endpoint: per-record rejection tracking, fixed-size chunking, and the
// aggregated result envelope.
package bulk

import "fmt"

// Default chunk sizes. Relationship-creating imports use the smaller size to
// bound per-statement payload.
const (
	DefaultUserBatchSize     = 1000
	DefaultQuestionBatchSize = 500
	DefaultAnswerBatchSize   = 500
)

// Chunk slices items into fixed-size chunks, final chunk possibly shorter.
// Order is preserved; size <= 0 yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// BatchesProcessed reports the batch count for the performance block.
func BatchesProcessed(n, size int) int {
	if size <= 0 {
		return 1
	}
	return n/size + 1
}

// Outcome accumulates per-record results across validation and chunked
// writes, in input order.
type Outcome struct {
	Created        []map[string]any
	Errors         []string
	TotalProcessed int
}

func NewOutcome(totalProcessed int) *Outcome {
	return &Outcome{TotalProcessed: totalProcessed}
}

// Reject records a per-record failure as "<entity> <index>: <reason>".
// Rejections never abort the run; sibling records still proceed.
func (o *Outcome) Reject(entity string, index int, reason string) {
	o.Errors = append(o.Errors, fmt.Sprintf("%s %d: %s", entity, index, reason))
}

// RejectRecord records a failure not tied to an input position, e.g.
// "Email x already exists" or "Question <id> not found".
func (o *Outcome) RejectRecord(reason string) {
	o.Errors = append(o.Errors, reason)
}

func (o *Outcome) Add(created ...map[string]any) {
	o.Created = append(o.Created, created...)
}

func (o *Outcome) TotalCreated() int { return len(o.Created) }
func (o *Outcome) TotalErrors() int  { return len(o.Errors) }

// Success is true when at least one record was created, even alongside
// per-record errors.
func (o *Outcome) Success() bool { return len(o.Created) > 0 }

// ErrorList never marshals as null.
func (o *Outcome) ErrorList() []string {
	if o.Errors == nil {
		return []string{}
	}
	return o.Errors
}

// CreatedList never marshals as null.
func (o *Outcome) CreatedList() []map[string]any {
	if o.Created == nil {
		return []map[string]any{}
	}
	return o.Created
}
