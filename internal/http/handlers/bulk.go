package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/bulk"
	"github.com/hoclieu/edugraph-api/internal/http/response"
	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

// writeBulkOutcome renders the shared bulk-import envelope. createdKey names
// the created-record list ("created_users", "created_questions", ...).
// batchSize > 0 adds the performance block. Status is 201 when anything was
// created, 400 otherwise.
func writeBulkOutcome(c *gin.Context, outcome *bulk.Outcome, message, createdKey string, batchSize int) {
	body := gin.H{
		"message":         message,
		createdKey:        outcome.CreatedList(),
		"total_processed": outcome.TotalProcessed,
		"total_created":   outcome.TotalCreated(),
		"total_errors":    outcome.TotalErrors(),
		"errors":          outcome.ErrorList(),
		"success":         outcome.Success(),
	}
	if batchSize > 0 {
		body["performance"] = gin.H{
			"batch_size":        batchSize,
			"batches_processed": bulk.BatchesProcessed(outcome.TotalProcessed, batchSize),
		}
	}
	status := http.StatusCreated
	if !outcome.Success() {
		status = http.StatusBadRequest
	}
	c.JSON(status, body)
}

// failBulk is the error envelope for bulk requests that never reached the
// database, keeping the per-record errors visible.
func failBulk(c *gin.Context, err error, outcome *bulk.Outcome) {
	if outcome == nil {
		response.FromError(c, err)
		return
	}
	response.Fail(c, apierr.StatusOf(err), err.Error(), gin.H{
		"errors":          outcome.ErrorList(),
		"total_processed": outcome.TotalProcessed,
		"total_errors":    outcome.TotalErrors(),
	})
}
