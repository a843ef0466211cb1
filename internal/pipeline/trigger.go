package pipeline

import (
	"context"
	"sync"

	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/logger"
)

// Trigger decides when a case's document jobs have fully drained and starts
// the downstream pipeline exactly once. The last two jobs of a case can
// finish on different workers within microseconds of each other, so the
// decision is guarded by a test-and-set on an in-process set of case ids.
//
// The marker lives in memory: it does not survive a restart and does not
// coordinate across multiple orchestrator instances.
type Trigger struct {
	jobs   job.JobRepoInterface
	cases  job.CaseRepoInterface
	runner job.PipelineRunner

	mu       sync.Mutex
	inflight map[uint]struct{}
}

var _ job.PipelineStarter = (*Trigger)(nil)

func NewTrigger(jobs job.JobRepoInterface, cases job.CaseRepoInterface, runner job.PipelineRunner) *Trigger {
	return &Trigger{
		jobs:     jobs,
		cases:    cases,
		runner:   runner,
		inflight: make(map[uint]struct{}),
	}
}

// Evaluate checks the trigger condition for a case and, when it holds,
// starts the pipeline in the background. Only the caller that wins the
// test-and-set proceeds; everyone else returns immediately. A single failed
// job vetoes the pipeline: the case is failed, not classified.
func (t *Trigger) Evaluate(ctx context.Context, caseID uint) {
	counts, err := t.jobs.CountByCase(ctx, caseID)
	if err != nil {
		logger.Errorf("trigger: count jobs for case %d: %v", caseID, err)
		return
	}
	if counts.Completed == 0 || counts.Failed > 0 || counts.Active() > 0 {
		return
	}

	c, err := t.cases.Get(ctx, caseID)
	if err != nil {
		logger.Errorf("trigger: load case %d: %v", caseID, err)
		return
	}
	if c.Status.PipelineStage() {
		return
	}

	if t.Start(ctx, caseID) {
		logger.Infof("case %d drained, triggering downstream pipeline", caseID)
	}
}

// Start begins a pipeline run for the case unless one is already in flight,
// reporting whether this call started it. Drain-triggered and manually
// requested runs share the same inflight guard, so at most one run is active
// per case regardless of entry point.
func (t *Trigger) Start(ctx context.Context, caseID uint) bool {
	if !t.tryAcquire(caseID) {
		return false
	}

	// Detached context: the run outlives the worker iteration or HTTP
	// request that started it.
	go func() {
		defer t.release(caseID)
		if err := t.runner.Run(context.Background(), caseID); err != nil {
			logger.Errorf("pipeline run for case %d: %v", caseID, err)
		}
	}()
	return true
}

func (t *Trigger) tryAcquire(caseID uint) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inflight[caseID]; ok {
		return false
	}
	t.inflight[caseID] = struct{}{}
	return true
}

func (t *Trigger) release(caseID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, caseID)
}
