package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/pipeline"
	"github.com/caseflow/caseflow/internal/pool"
	"github.com/caseflow/caseflow/internal/recognition"
	"github.com/caseflow/caseflow/internal/storage/postgres"
	"github.com/caseflow/caseflow/internal/worker"
)

// Standalone in-process worker: polls the job store directly. Used when
// QUEUE_BACKEND=poller and the pool should run outside the api process.
func main() {
	logger.Initialize()
	logger.Info("starting worker")

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

	workerPool := pool.NewWorkerPool(cfg.WorkerCount, deps, cfg.PollInterval)
	workerPool.Start()
	logger.Info("worker pool active, press Ctrl+C to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	workerPool.Stop()
	logger.Info("shutdown complete")
}
