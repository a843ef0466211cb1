package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caseflow/caseflow/internal/models"
)

type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create inserts a new case in the created status with a fresh public id.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	if c.PublicID == uuid.Nil {
		c.PublicID = uuid.New()
	}
	if c.Status == "" {
		c.Status = models.CaseStatusCreated
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// Get retrieves a case by its internal ID.
func (r *CaseRepository) Get(ctx context.Context, id uint) (*models.Case, error) {
	var c models.Case
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("case not found: %w", err)
		}
		return nil, fmt.Errorf("get case: %w", err)
	}
	return &c, nil
}

// UpdateLifecycleStatus writes one of the pre-pipeline statuses. For every
// status except failed the write is guarded against clobbering a case that
// has already progressed into the downstream pipeline; failed always applies.
func (r *CaseRepository) UpdateLifecycleStatus(ctx context.Context, id uint, status models.CaseStatus) error {
	query := r.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id)
	if status != models.CaseStatusFailed {
		query = query.Where("status NOT IN ?", models.PipelineStageStatuses)
	}
	if err := query.Update("status", status).Error; err != nil {
		return fmt.Errorf("update case status: %w", err)
	}
	return nil
}

// MarkFailed sets the failed status together with a truncated reason.
func (r *CaseRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	if err := r.db.WithContext(ctx).Model(&models.Case{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         models.CaseStatusFailed,
			"failure_reason": models.TruncateMessage(reason),
		}).Error; err != nil {
		return fmt.Errorf("mark case failed: %w", err)
	}
	return nil
}
