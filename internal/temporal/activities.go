package temporal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/models"
	"github.com/caseflow/caseflow/internal/worker"
)

// Activities carries the broker worker's dependencies. Deps is the same
// bundle the in-process pollers use, so both strategies produce identical
// case-state outcomes.
type Activities struct {
	Deps worker.Deps
}

// ProcessDocumentJobActivity reconstructs the job from its id, claims it,
// and runs the shared outcome handler.
//
// Returning an error makes the broker redeliver on its own schedule; that
// only happens when the job was requeued, i.e. the store still has attempts
// left. A claim refusal (terminal row, concurrent claim, exhausted budget)
// completes the activity quietly — the store has already settled the job.
func (a *Activities) ProcessDocumentJobActivity(ctx context.Context, jobID string) error {
	id, err := strconv.ParseUint(jobID, 10, 0)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", jobID, err)
	}

	claimed, err := a.Deps.Jobs.ClaimByID(ctx, uint(id))
	if err != nil {
		return fmt.Errorf("claim job %s: %w", jobID, err)
	}
	if claimed == nil {
		logger.Debugf("broker worker: job %s not claimable, skipping", jobID)
		return nil
	}

	status, procErr := worker.HandleClaimed(ctx, a.Deps, claimed)
	if status == models.JobStatusQueued {
		// Requeued: let the broker's fixed-delay retry drive the next
		// attempt.
		return fmt.Errorf("job %s attempt %d/%d failed: %w",
			jobID, claimed.Attempts, claimed.MaxAttempts, procErr)
	}
	if status == models.JobStatusProcessing && procErr != nil {
		// Store-level failure before an outcome could be recorded.
		return procErr
	}
	return nil
}
