package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/models"
)

const (
	DefaultDrainPollInterval = 2 * time.Second
	DefaultDrainTimeout      = 900 * time.Second
)

// DrainTimeoutError is returned when a case's jobs do not drain within the
// budget. It carries the last observed counts for diagnostics.
type DrainTimeoutError struct {
	CaseID uint
	Counts models.JobCounts
	Waited time.Duration
}

func (e *DrainTimeoutError) Error() string {
	return fmt.Sprintf(
		"case %d did not drain within %s (queued=%d processing=%d completed=%d failed=%d)",
		e.CaseID, e.Waited, e.Counts.Queued, e.Counts.Processing, e.Counts.Completed, e.Counts.Failed,
	)
}

// Runner executes the downstream pipeline for one case once its document
// jobs have drained. Stage errors and drain timeouts both land on the case
// as a terminal failed status and propagate to the caller.
type Runner struct {
	jobs         job.JobRepoInterface
	cases        job.CaseRepoInterface
	stages       []NamedStage
	pollInterval time.Duration
	drainTimeout time.Duration
}

func NewRunner(
	jobs job.JobRepoInterface,
	cases job.CaseRepoInterface,
	stages []NamedStage,
	pollInterval, drainTimeout time.Duration,
) *Runner {
	if pollInterval <= 0 {
		pollInterval = DefaultDrainPollInterval
	}
	if drainTimeout <= 0 {
		drainTimeout = DefaultDrainTimeout
	}
	return &Runner{
		jobs:         jobs,
		cases:        cases,
		stages:       stages,
		pollInterval: pollInterval,
		drainTimeout: drainTimeout,
	}
}

var _ job.PipelineRunner = (*Runner)(nil)

// WaitForDrain polls the job counts for the case until nothing is queued or
// processing, or the timeout elapses. Returns the final counts.
func (r *Runner) WaitForDrain(ctx context.Context, caseID uint, timeout time.Duration) (models.JobCounts, error) {
	if timeout <= 0 {
		timeout = r.drainTimeout
	}
	deadline := time.Now().Add(timeout)

	var counts models.JobCounts
	for {
		var err error
		counts, err = r.jobs.CountByCase(ctx, caseID)
		if err != nil {
			return counts, fmt.Errorf("wait for drain: %w", err)
		}
		if counts.Active() == 0 {
			return counts, nil
		}
		if time.Now().After(deadline) {
			return counts, &DrainTimeoutError{CaseID: caseID, Counts: counts, Waited: timeout}
		}

		select {
		case <-time.After(r.pollInterval):
		case <-ctx.Done():
			return counts, ctx.Err()
		}
	}
}

// Run waits for the case to drain and then invokes the stages strictly in
// order. Any failure marks the case failed with a truncated reason and is
// returned to the caller.
func (r *Runner) Run(ctx context.Context, caseID uint) error {
	counts, err := r.WaitForDrain(ctx, caseID, r.drainTimeout)
	if err != nil {
		if ferr := r.cases.MarkFailed(ctx, caseID, err.Error()); ferr != nil {
			logger.Errorf("case %d: record drain failure: %v", caseID, ferr)
		}
		return err
	}

	c, err := r.cases.Get(ctx, caseID)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	logger.Infof("case %d drained (completed=%d failed=%d), running pipeline for %s",
		caseID, counts.Completed, counts.Failed, c.PublicID)

	for _, stage := range r.stages {
		if err := stage.Stage.Run(ctx, c.PublicID); err != nil {
			reason := fmt.Sprintf("%s: %v", stage.Name, err)
			if ferr := r.cases.MarkFailed(ctx, caseID, reason); ferr != nil {
				logger.Errorf("case %d: record stage failure: %v", caseID, ferr)
			}
			return fmt.Errorf("stage %s for case %d: %w", stage.Name, caseID, err)
		}
		logger.Infof("case %d: stage %s done", caseID, stage.Name)
	}

	return nil
}
