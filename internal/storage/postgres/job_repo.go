package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caseflow/caseflow/internal/models"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new queued job row. The unique (case_id, document_id)
// index rejects a second job for the same document.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Get retrieves a single job record by its ID.
func (r *JobRepository) Get(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %w", err)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// ListByCase retrieves all jobs belonging to a case, oldest first.
func (r *JobRepository) ListByCase(ctx context.Context, caseID uint) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// ClaimNext atomically takes the oldest eligible queued job: it locks the
// row with SKIP LOCKED semantics so concurrent claimants never wait on each
// other nor double-claim, then moves it to processing and increments
// attempts in the same transaction. Returns nil when no eligible row exists.
//
// The update re-checks status and attempts so the claim stays correct on
// stores without row locks (sqlite in tests): a lost race counts as no claim.
func (r *JobRepository) ClaimNext(ctx context.Context) (*models.ClaimedJob, error) {
	var claimed *models.ClaimedJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.
			Where("status = ? AND attempts < max_attempts", models.JobStatusQueued).
			Order("created_at ASC")

		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		var job models.Job
		if err := query.First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("select claimable job: %w", err)
		}

		c, err := claimRow(tx, &job)
		if err != nil {
			return err
		}
		claimed = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim next job: %w", err)
	}
	return claimed, nil
}

// ClaimByID performs the same queued->processing transition for a specific
// job, used by broker workers that receive the job id over the wire. Returns
// nil when the job is terminal, already claimed, or out of attempts — the
// job store stays authoritative regardless of the broker's own retry count.
func (r *JobRepository) ClaimByID(ctx context.Context, id uint) (*models.ClaimedJob, error) {
	var claimed *models.ClaimedJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", id)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}

		var job models.Job
		if err := query.First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("select job: %w", err)
		}
		if job.Status != models.JobStatusQueued || job.Attempts >= job.MaxAttempts {
			return nil
		}

		c, err := claimRow(tx, &job)
		if err != nil {
			return err
		}
		claimed = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claim job %d: %w", id, err)
	}
	return claimed, nil
}

// claimRow applies the claim transition with a compare-and-swap guard on the
// previously observed status and attempts.
func claimRow(tx *gorm.DB, job *models.Job) (*models.ClaimedJob, error) {
	now := time.Now().UTC()
	res := tx.Model(&models.Job{}).
		Where("id = ? AND status = ? AND attempts = ?", job.ID, models.JobStatusQueued, job.Attempts).
		Updates(map[string]any{
			"status":        models.JobStatusProcessing,
			"attempts":      job.Attempts + 1,
			"started_at":    now,
			"error_message": "",
		})
	if res.Error != nil {
		return nil, fmt.Errorf("mark job processing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Another claimant won the row between select and update.
		return nil, nil
	}

	return &models.ClaimedJob{
		JobID:       job.ID,
		CaseID:      job.CaseID,
		DocumentID:  job.DocumentID,
		Attempts:    job.Attempts + 1,
		MaxAttempts: job.MaxAttempts,
	}, nil
}

// MarkCompleted finalizes a successful job with the recognition result.
func (r *JobRepository) MarkCompleted(ctx context.Context, id uint, result datatypes.JSON) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.JobStatusCompleted,
			"completed_at":  now,
			"error_message": "",
			"result":        result,
		}).Error; err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return nil
}

// MarkFailed finalizes a job terminally with a truncated diagnostic.
func (r *JobRepository) MarkFailed(ctx context.Context, id uint, msg string) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.JobStatusFailed,
			"completed_at":  now,
			"error_message": models.TruncateMessage(msg),
		}).Error; err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}

// Requeue returns a processing job to the queue for another attempt. The
// diagnostic is kept until the next claim clears it.
func (r *JobRepository) Requeue(ctx context.Context, id uint, msg string) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        models.JobStatusQueued,
			"started_at":    nil,
			"error_message": models.TruncateMessage(msg),
		}).Error; err != nil {
		return fmt.Errorf("requeue job: %w", err)
	}
	return nil
}

// CountByCase returns the per-status job counts for one case.
func (r *JobRepository) CountByCase(ctx context.Context, caseID uint) (models.JobCounts, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("status, count(*) as count").
		Where("case_id = ?", caseID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return models.JobCounts{}, fmt.Errorf("count jobs: %w", err)
	}

	var counts models.JobCounts
	for _, row := range rows {
		switch row.Status {
		case models.JobStatusQueued:
			counts.Queued = row.Count
		case models.JobStatusProcessing:
			counts.Processing = row.Count
		case models.JobStatusCompleted:
			counts.Completed = row.Count
		case models.JobStatusFailed:
			counts.Failed = row.Count
		}
	}
	return counts, nil
}
