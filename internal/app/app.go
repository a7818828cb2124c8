// Package app wires the pieces together: config, logger, database client,
// graph store, handlers and the router.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/hoclieu/edugraph-api/internal/graph"
	apihttp "github.com/hoclieu/edugraph-api/internal/http"
	httpH "github.com/hoclieu/edugraph-api/internal/http/handlers"
	"github.com/hoclieu/edugraph-api/internal/observability"
	"github.com/hoclieu/edugraph-api/internal/platform/logger"
	"github.com/hoclieu/edugraph-api/internal/platform/neo4jdb"
)

type App struct {
	Log    *logger.Logger
	DB     *neo4jdb.Client
	Store  *graph.Store
	Router *gin.Engine
	Cfg    Config

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "edugraph-api",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	db, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	db.InitSchema(ctx)

	store := graph.NewStore(db, log)

	router := apihttp.NewRouter(apihttp.RouterConfig{
		Log:                log,
		DocsHandler:        httpH.NewDocsHandler(),
		HealthHandler:      httpH.NewHealthHandler(store),
		HierarchyHandler:   httpH.NewHierarchyHandler(store),
		TreeHandler:        httpH.NewTreeHandler(store),
		UserHandler:        httpH.NewUserHandler(store),
		QuestionHandler:    httpH.NewQuestionHandler(store),
		AnswerHandler:      httpH.NewAnswerHandler(store),
		KnowledgeHandler:   httpH.NewKnowledgeHandler(store),
		TestHandler:        httpH.NewTestHandler(store),
		StudentHandler:     httpH.NewStudentHandler(store),
		AnalyticsHandler:   httpH.NewAnalyticsHandler(store),
		ExportHandler:      httpH.NewExportHandler(store),
		MaintenanceHandler: httpH.NewMaintenanceHandler(store),
	})

	return &App{
		Log:          log,
		DB:           db,
		Store:        store,
		Router:       router,
		Cfg:          cfg,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
