// Package temporal implements the external-broker execution strategy: the
// orchestrator publishes a job id to a Temporal task queue and standalone
// broker-worker processes run the shared outcome handler for it.
package temporal

import (
	"time"

	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// DocumentJobWorkflowName is the named remote operation the enqueue
	// path starts. Its single argument is the job id as a string.
	DocumentJobWorkflowName = "DocumentJobWorkflow"

	ProcessDocumentJobActivityName = "ProcessDocumentJobActivity"
)

// Broker-side retry translation: fixed delay, no backoff growth. The
// attempt ceiling here is a generous transport bound — the job store's
// max_attempts stays authoritative, enforced when the activity claims the
// row (a refused claim completes the activity without retrying).
var documentJobActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 5 * time.Minute,
	RetryPolicy: &sdktemporal.RetryPolicy{
		InitialInterval:    10 * time.Second,
		BackoffCoefficient: 1.0,
		MaximumInterval:    10 * time.Second,
		MaximumAttempts:    5,
	},
}

// DocumentJobWorkflow runs one recognition job end to end on the broker
// path. Retry pacing is delegated to the activity retry policy.
func DocumentJobWorkflow(ctx workflow.Context, jobID string) error {
	ctx = workflow.WithActivityOptions(ctx, documentJobActivityOptions)
	return workflow.ExecuteActivity(ctx, ProcessDocumentJobActivityName, jobID).Get(ctx, nil)
}
