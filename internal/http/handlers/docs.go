package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DocsHandler struct{}

func NewDocsHandler() *DocsHandler { return &DocsHandler{} }

// GET /
// A self-describing index so the API is explorable without external docs.
func (h *DocsHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "edugraph-api",
		"success": true,
		"endpoints": gin.H{
			"health": "GET /api/v1/health",
			"hierarchy": gin.H{
				"subjects":  "GET /api/v1/subjects",
				"typebooks": "GET /api/v1/typebooks?subject_id=",
				"chapters":  "GET /api/v1/chapters?typebook_id=",
				"lessons":   "GET /api/v1/lessons?chapter_id=",
				"tree":      "GET /api/v1/tree?include_users=&include_questions= | /api/v1/tree/ids-only | /api/v1/tree/flat",
			},
			"users": gin.H{
				"list":   "GET /api/v1/users",
				"get":    "GET /api/v1/users/:user_id",
				"create": "POST /api/v1/users",
				"bulk":   "POST /api/v1/users/bulk",
			},
			"questions": gin.H{
				"list":   "GET /api/v1/questions?lesson_id=|chapter_id=",
				"create": "POST /api/v1/questions",
				"bulk":   "POST /api/v1/questions/bulk",
				"random": "GET /api/v1/questions/random?difficulty=&subject_id=&limit=&exclude_ids=",
				"quiz":   "POST /api/v1/quiz/generate",
			},
			"answers": gin.H{
				"list":    "GET /api/v1/answers?user_id=&question_id=",
				"create":  "POST /api/v1/answers",
				"bulk":    "POST /api/v1/answers/bulk",
				"history": "GET /api/v1/users/:user_id/answers?limit=",
			},
			"knowledge": gin.H{
				"list":      "GET /api/v1/knowledge?subject=&grade=",
				"create":    "POST /api/v1/knowledge",
				"link":      "POST /api/v1/users/:user_id/knowledge/:knowledge_id",
				"bulk_link": "POST /api/v1/users/bulk/knowledge",
				"of_user":   "GET /api/v1/users/:user_id/knowledge",
				"users":     "GET /api/v1/knowledge/:knowledge_id/users",
				"progress":  "PUT /api/v1/users/:user_id/knowledge/:knowledge_id",
				"unlink":    "DELETE /api/v1/users/:user_id/knowledge/:knowledge_id",
				"analytics": "GET /api/v1/users-knowledge/analytics",
				"path":      "GET /api/v1/users/:user_id/learning-path?subject=&grade=",
			},
			"tests": gin.H{
				"complete": "POST /api/v1/tests/complete",
				"history":  "GET /api/v1/users/:user_id/tests?limit=",
				"details":  "GET /api/v1/tests/:test_id",
				"search":   "GET /api/v1/tests/search?user_id=&title=&min_score=&max_score=&from_date=&to_date=&limit=",
				"delete":   "DELETE /api/v1/tests/:test_id",
			},
			"students": gin.H{
				"detailed":     "GET /api/v1/students/:user_id/detailed",
				"all_detailed": "GET /api/v1/students/detailed?user_ids=&subject_id=&chapter_id=&lesson_id=&limit=",
			},
			"analytics": gin.H{
				"user":      "GET /api/v1/analytics/user/:user_id",
				"system":    "GET /api/v1/analytics/system",
				"subject":   "GET /api/v1/analytics/subject/:subject_id",
				"hierarchy": "GET /api/v1/analytics/hierarchy",
			},
			"export": gin.H{
				"content": "GET /api/v1/export",
				"full":    "GET /api/v1/export/full",
			},
			"maintenance": gin.H{
				"cleanup_orphans": "POST /api/v1/maintenance/cleanup-orphans",
			},
		},
	})
}
