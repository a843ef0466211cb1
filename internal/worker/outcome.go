package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/caseflow/caseflow/internal/job"
	"github.com/caseflow/caseflow/internal/models"
	"github.com/caseflow/caseflow/internal/recognition"
)

// TriggerEvaluator checks whether a case has drained and, if so, starts the
// downstream pipeline at most once.
type TriggerEvaluator interface {
	Evaluate(ctx context.Context, caseID uint)
}

// Deps bundles everything needed to process one claimed job. Both execution
// backends (in-process pollers and broker workers) share it so case-state
// outcomes are identical regardless of strategy.
type Deps struct {
	Jobs       job.JobRepoInterface
	Docs       job.DocumentRepoInterface
	Recognizer recognition.Recognizer
	Syncer     *job.Syncer
	Trigger    TriggerEvaluator
}

// HandleClaimed runs recognition for a claimed job and records the outcome:
//
//   - success: completed, result persisted
//   - document missing: failed immediately, no retry
//   - anything else: requeued while attempts remain, failed once exhausted
//
// After the outcome it resynchronizes the case status and evaluates the
// pipeline trigger. The returned status is the job's final state for this
// attempt; procErr carries the processing failure (nil on success) so broker
// workers can translate a requeue into a broker-level retry.
func HandleClaimed(ctx context.Context, d Deps, claimed *models.ClaimedJob) (models.JobStatus, error) {
	status, procErr := d.processOutcome(ctx, claimed)

	if _, err := d.Syncer.Sync(ctx, claimed.CaseID); err != nil {
		return status, err
	}
	if d.Trigger != nil {
		d.Trigger.Evaluate(ctx, claimed.CaseID)
	}
	return status, procErr
}

func (d Deps) processOutcome(ctx context.Context, claimed *models.ClaimedJob) (models.JobStatus, error) {
	doc, err := d.Docs.Get(ctx, claimed.DocumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg := fmt.Sprintf("document %d no longer exists", claimed.DocumentID)
			if ferr := d.Jobs.MarkFailed(ctx, claimed.JobID, msg); ferr != nil {
				return models.JobStatusProcessing, ferr
			}
			return models.JobStatusFailed, errors.New(msg)
		}
		// Store error, not a processing outcome: leave the job claimed and
		// surface the error; the attempt already counted.
		return models.JobStatusProcessing, err
	}

	result, procErr := d.Recognizer.Process(ctx, doc.ID, doc.StorageKey)
	if procErr == nil {
		payload, _ := json.Marshal(result)
		if err := d.Jobs.MarkCompleted(ctx, claimed.JobID, datatypes.JSON(payload)); err != nil {
			return models.JobStatusProcessing, err
		}
		return models.JobStatusCompleted, nil
	}

	if errors.Is(procErr, recognition.ErrNotFound) {
		if err := d.Jobs.MarkFailed(ctx, claimed.JobID, procErr.Error()); err != nil {
			return models.JobStatusProcessing, err
		}
		return models.JobStatusFailed, procErr
	}

	if claimed.Attempts >= claimed.MaxAttempts {
		if err := d.Jobs.MarkFailed(ctx, claimed.JobID, procErr.Error()); err != nil {
			return models.JobStatusProcessing, err
		}
		return models.JobStatusFailed, procErr
	}

	if err := d.Jobs.Requeue(ctx, claimed.JobID, procErr.Error()); err != nil {
		return models.JobStatusProcessing, err
	}
	return models.JobStatusQueued, procErr
}
