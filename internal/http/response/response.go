// Package response shapes every API payload. Success envelopes carry
// "success": true alongside the data; failures carry the error message and
// "success": false.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/platform/apierr"
)

func OK(c *gin.Context, body gin.H) {
	respond(c, http.StatusOK, body)
}

func Created(c *gin.Context, body gin.H) {
	respond(c, http.StatusCreated, body)
}

func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// Fail writes an error envelope. Extra fields (a bulk import's error list,
// for example) merge into the body.
func Fail(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": false, "error": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// FromError maps an error to its HTTP status via apierr and writes the
// failure envelope.
func FromError(c *gin.Context, err error) {
	Fail(c, apierr.StatusOf(err), err.Error(), nil)
}
