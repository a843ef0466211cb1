package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/caseflow/caseflow/internal/models"
)

type CreateDocumentRequest struct {
	Filename   string `json:"filename" validate:"required"`
	StorageKey string `json:"storage_key" validate:"required"`
}

type CaseStatusResponse struct {
	ID            uint              `json:"id"`
	PublicID      uuid.UUID         `json:"public_id"`
	Status        models.CaseStatus `json:"status"`
	FailureReason string            `json:"failure_reason,omitempty"`
	JobCounts     models.JobCounts  `json:"job_counts"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
