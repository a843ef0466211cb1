package dto

import (
	"encoding/json"
	"time"

	"github.com/caseflow/caseflow/internal/models"
)

type EnqueueJobRequest struct {
	CaseID     uint `json:"case_id" validate:"required"`
	DocumentID uint `json:"document_id" validate:"required"`
}

type JobResponse struct {
	ID           uint             `json:"id"`
	CaseID       uint             `json:"case_id"`
	DocumentID   uint             `json:"document_id"`
	Status       models.JobStatus `json:"status"`
	Attempts     int              `json:"attempts"`
	MaxAttempts  int              `json:"max_attempts"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Result       json.RawMessage  `json:"result,omitempty"`
	StartedAt    *time.Time       `json:"started_at,omitempty"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
