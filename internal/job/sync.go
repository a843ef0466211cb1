package job

import (
	"context"
	"fmt"

	"github.com/caseflow/caseflow/internal/models"
)

// DeriveCaseStatus maps a case's job counts to its pre-pipeline lifecycle
// status. Any active job means the case is processing. Once drained, a
// single failed job fails the whole case regardless of how many completed;
// documents_classified requires every job to have completed. No jobs at all
// leaves the case as created.
func DeriveCaseStatus(counts models.JobCounts) models.CaseStatus {
	switch {
	case counts.Active() > 0:
		return models.CaseStatusProcessing
	case counts.Failed > 0:
		return models.CaseStatusFailed
	case counts.Completed > 0:
		return models.CaseStatusDocumentsClassified
	default:
		return models.CaseStatusCreated
	}
}

// Syncer recomputes a case's lifecycle status from its job counts after
// every job transition. Safe to call redundantly; the repository guard keeps
// it from downgrading a case the downstream pipeline already advanced.
type Syncer struct {
	jobs  JobRepoInterface
	cases CaseRepoInterface
}

func NewSyncer(jobs JobRepoInterface, cases CaseRepoInterface) *Syncer {
	return &Syncer{jobs: jobs, cases: cases}
}

// Sync recomputes and persists the case status, returning the derived value.
func (s *Syncer) Sync(ctx context.Context, caseID uint) (models.CaseStatus, error) {
	counts, err := s.jobs.CountByCase(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("sync case %d: %w", caseID, err)
	}

	status := DeriveCaseStatus(counts)
	if err := s.cases.UpdateLifecycleStatus(ctx, caseID, status); err != nil {
		return "", fmt.Errorf("sync case %d: %w", caseID, err)
	}
	return status, nil
}
