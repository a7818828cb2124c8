// Package http assembles the gin engine: middleware chain plus the
// /api/v1 route table.
package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/hoclieu/edugraph-api/internal/http/handlers"
	httpMW "github.com/hoclieu/edugraph-api/internal/http/middleware"
	"github.com/hoclieu/edugraph-api/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	DocsHandler        *httpH.DocsHandler
	HealthHandler      *httpH.HealthHandler
	HierarchyHandler   *httpH.HierarchyHandler
	TreeHandler        *httpH.TreeHandler
	UserHandler        *httpH.UserHandler
	QuestionHandler    *httpH.QuestionHandler
	AnswerHandler      *httpH.AnswerHandler
	KnowledgeHandler   *httpH.KnowledgeHandler
	TestHandler        *httpH.TestHandler
	StudentHandler     *httpH.StudentHandler
	AnalyticsHandler   *httpH.AnalyticsHandler
	ExportHandler      *httpH.ExportHandler
	MaintenanceHandler *httpH.MaintenanceHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("edugraph-api"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.DocsHandler != nil {
		r.GET("/", cfg.DocsHandler.Index)
	}

	api := r.Group("/api/v1")

	if cfg.HealthHandler != nil {
		api.GET("/health", cfg.HealthHandler.Health)
	}

	if cfg.HierarchyHandler != nil {
		api.GET("/subjects", cfg.HierarchyHandler.ListSubjects)
		api.GET("/typebooks", cfg.HierarchyHandler.ListTypeBooks)
		api.GET("/chapters", cfg.HierarchyHandler.ListChapters)
		api.GET("/lessons", cfg.HierarchyHandler.ListLessons)
	}

	if cfg.TreeHandler != nil {
		api.GET("/tree", cfg.TreeHandler.Nested)
		api.GET("/tree/ids-only", cfg.TreeHandler.IDs)
		api.GET("/tree/flat", cfg.TreeHandler.Flat)
	}

	if cfg.UserHandler != nil {
		api.GET("/users", cfg.UserHandler.List)
		api.POST("/users", cfg.UserHandler.Create)
		api.POST("/users/bulk", cfg.UserHandler.BulkCreate)
		api.GET("/users/:user_id", cfg.UserHandler.Get)
	}

	if cfg.QuestionHandler != nil {
		api.GET("/questions", cfg.QuestionHandler.List)
		api.POST("/questions", cfg.QuestionHandler.Create)
		api.POST("/questions/bulk", cfg.QuestionHandler.BulkCreate)
		api.GET("/questions/random", cfg.QuestionHandler.Random)
		api.POST("/quiz/generate", cfg.QuestionHandler.GenerateQuiz)
	}

	if cfg.AnswerHandler != nil {
		api.GET("/answers", cfg.AnswerHandler.List)
		api.POST("/answers", cfg.AnswerHandler.Create)
		api.POST("/answers/bulk", cfg.AnswerHandler.BulkCreate)
		api.GET("/users/:user_id/answers", cfg.AnswerHandler.History)
	}

	if cfg.KnowledgeHandler != nil {
		api.GET("/knowledge", cfg.KnowledgeHandler.List)
		api.POST("/knowledge", cfg.KnowledgeHandler.Create)
		api.GET("/knowledge/:knowledge_id/users", cfg.KnowledgeHandler.Users)
		api.GET("/users/:user_id/knowledge", cfg.KnowledgeHandler.OfUser)
		api.POST("/users/:user_id/knowledge/:knowledge_id", cfg.KnowledgeHandler.Link)
		api.PUT("/users/:user_id/knowledge/:knowledge_id", cfg.KnowledgeHandler.UpdateProgress)
		api.DELETE("/users/:user_id/knowledge/:knowledge_id", cfg.KnowledgeHandler.Unlink)
		api.POST("/users/bulk/knowledge", cfg.KnowledgeHandler.BulkLink)
		api.GET("/users-knowledge/analytics", cfg.KnowledgeHandler.Analytics)
		api.GET("/users/:user_id/learning-path", cfg.KnowledgeHandler.LearningPath)
	}

	if cfg.TestHandler != nil {
		api.POST("/tests/complete", cfg.TestHandler.Complete)
		api.GET("/tests/search", cfg.TestHandler.Search)
		api.GET("/tests/:test_id", cfg.TestHandler.Details)
		api.DELETE("/tests/:test_id", cfg.TestHandler.Delete)
		api.GET("/users/:user_id/tests", cfg.TestHandler.History)
	}

	if cfg.StudentHandler != nil {
		api.GET("/students/detailed", cfg.StudentHandler.AllDetailed)
		api.GET("/students/:user_id/detailed", cfg.StudentHandler.Detailed)
	}

	if cfg.AnalyticsHandler != nil {
		api.GET("/analytics/user/:user_id", cfg.AnalyticsHandler.User)
		api.GET("/analytics/system", cfg.AnalyticsHandler.System)
		api.GET("/analytics/subject/:subject_id", cfg.AnalyticsHandler.Subject)
		api.GET("/analytics/hierarchy", cfg.AnalyticsHandler.Hierarchy)
	}

	if cfg.ExportHandler != nil {
		api.GET("/export", cfg.ExportHandler.Content)
		api.GET("/export/full", cfg.ExportHandler.Full)
	}

	if cfg.MaintenanceHandler != nil {
		api.POST("/maintenance/cleanup-orphans", cfg.MaintenanceHandler.CleanupOrphans)
	}

	return r
}
