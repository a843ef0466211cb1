package main

import (
	"context"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/caseflow/caseflow/internal/config"
	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/pipeline"
	"github.com/caseflow/caseflow/internal/recognition"
	"github.com/caseflow/caseflow/internal/storage/postgres"
	caseflowtemporal "github.com/caseflow/caseflow/internal/temporal"
	"github.com/caseflow/caseflow/internal/worker"
)

// Broker-mode worker: consumes job ids from the Temporal task queue and
// runs the same outcome handler the in-process pollers use.
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

	jobRepo := postgres.NewJobRepository(db)
	caseRepo := postgres.NewCaseRepository(db)
	docRepo := postgres.NewDocumentRepository(db)

	syncer := job.NewSyncer(jobRepo, caseRepo)
	runner := pipeline.NewRunner(jobRepo, caseRepo, pipeline.LoggingStages(), cfg.DrainPollInterval, cfg.DrainTimeout)
	trigger := pipeline.NewTrigger(jobRepo, caseRepo, runner)

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		logger.Fatalf("connect temporal: %v", err)
	}
	defer temporalClient.Close()

	activities := &caseflowtemporal.Activities{
		Deps: worker.Deps{
			Jobs:       jobRepo,
			Docs:       docRepo,
			Recognizer: recognition.NewStubRecognizer(),
			Syncer:     syncer,
			Trigger:    trigger,
		},
	}

	w := sdkworker.New(temporalClient, cfg.TemporalTaskQueue, sdkworker.Options{})
	w.RegisterWorkflowWithOptions(caseflowtemporal.DocumentJobWorkflow,
		workflow.RegisterOptions{Name: caseflowtemporal.DocumentJobWorkflowName})
	w.RegisterActivity(activities.ProcessDocumentJobActivity)

	logger.Infof("broker worker running on task queue %s", cfg.TemporalTaskQueue)
	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		logger.Fatalf("broker worker stopped with error: %v", err)
	}
}
