package backend

import (
	"context"
	"fmt"
	"strconv"

	"go.temporal.io/sdk/client"

	caseflowtemporal "github.com/caseflow/caseflow/internal/temporal"
)

// TemporalBackend publishes job ids to a Temporal task queue. Separate
// broker-worker processes consume them and run the shared outcome handler.
type TemporalBackend struct {
	client    client.Client
	taskQueue string
}

func NewTemporalBackend(c client.Client, taskQueue string) *TemporalBackend {
	return &TemporalBackend{client: c, taskQueue: taskQueue}
}

var _ Backend = (*TemporalBackend)(nil)

// Dispatch starts the document-job workflow with the job id as its single
// argument. The workflow id is derived from the job id so a duplicate
// dispatch of the same job cannot start a second run.
func (b *TemporalBackend) Dispatch(ctx context.Context, jobID uint) error {
	opts := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("document-job-%d", jobID),
		TaskQueue: b.taskQueue,
	}
	_, err := b.client.ExecuteWorkflow(ctx, opts,
		caseflowtemporal.DocumentJobWorkflowName,
		strconv.FormatUint(uint64(jobID), 10))
	if err != nil {
		return fmt.Errorf("dispatch job %d to broker: %w", jobID, err)
	}
	return nil
}

// Start is a no-op: processing happens in broker-worker processes.
func (b *TemporalBackend) Start(ctx context.Context) error { return nil }

func (b *TemporalBackend) Stop() {
	b.client.Close()
}
