package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"

	"github.com/caseflow/caseflow/internal/backend"
	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/models"
	"github.com/caseflow/caseflow/internal/pipeline"
	"github.com/caseflow/caseflow/internal/pool"
	"github.com/caseflow/caseflow/internal/recognition"
	"github.com/caseflow/caseflow/internal/storage/postgres"
	"github.com/caseflow/caseflow/internal/worker"
	"github.com/caseflow/caseflow/middleware"
)

func main() {
	logger.Initialize()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Fatalf("failed to load db config: %v", err)
	}
	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	if err := postgres.MigrateModels(db, &models.Case{}, &models.Document{}, &models.Job{}); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	jobRepo := postgres.NewJobRepository(db)
	caseRepo := postgres.NewCaseRepository(db)
	docRepo := postgres.NewDocumentRepository(db)

	syncer := job.NewSyncer(jobRepo, caseRepo)
	runner := pipeline.NewRunner(jobRepo, caseRepo, pipeline.LoggingStages(), cfg.DrainPollInterval, cfg.DrainTimeout)
	trigger := pipeline.NewTrigger(jobRepo, caseRepo, runner)

	deps := worker.Deps{
		Jobs:       jobRepo,
		Docs:       docRepo,
		Recognizer: recognition.NewStubRecognizer(),
		Syncer:     syncer,
		Trigger:    trigger,
	}

	be, err := buildBackend(cfg, deps)
	if err != nil {
		logger.Fatalf("failed to build %s backend: %v", cfg.QueueBackend, err)
	}
	if err := be.Start(ctx); err != nil {
		logger.Fatalf("failed to start backend: %v", err)
	}

	service := job.NewService(jobRepo, caseRepo, docRepo, be, syncer, cfg.JobMaxAttempts)
	handler := job.NewHandler(service, trigger)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.ErrorHandler())
	router.POST("/cases", handler.CreateCase)
	router.GET("/cases/:id", handler.GetCase)
	router.POST("/cases/:id/documents", handler.AddDocument)
	router.POST("/cases/:id/pipeline", handler.RunPipeline)
	router.POST("/jobs", handler.Enqueue)
	router.GET("/jobs/:id", handler.GetJob)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}

	go func() {
		logger.Infof("api listening on :%s (backend=%s)", cfg.HTTPPort, cfg.QueueBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	be.Stop()
	logger.Info("shutdown complete")
}

func buildBackend(cfg *config.Config, deps worker.Deps) (backend.Backend, error) {
	switch cfg.QueueBackend {
	case config.BackendTemporal:
		c, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		})
		if err != nil {
			return nil, err
		}
		return backend.NewTemporalBackend(c, cfg.TemporalTaskQueue), nil
	default:
		p := pool.NewWorkerPool(cfg.WorkerCount, deps, cfg.PollInterval)
		return backend.NewPollerBackend(p), nil
	}
}
