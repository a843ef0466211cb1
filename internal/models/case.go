package models

import (
	"time"

	"github.com/google/uuid"
)

type CaseStatus string

// Pre-pipeline statuses are the only ones this subsystem writes. The
// remaining statuses belong to the downstream pipeline collaborators.
const (
	CaseStatusCreated             CaseStatus = "created"
	CaseStatusProcessing          CaseStatus = "processing"
	CaseStatusDocumentsClassified CaseStatus = "documents_classified"
	CaseStatusFailed              CaseStatus = "failed"
	CaseStatusFeaturesExtracted   CaseStatus = "features_extracted"
	CaseStatusEligibilityScored   CaseStatus = "eligibility_scored"
	CaseStatusReportGenerated     CaseStatus = "report_generated"
	CaseStatusSubmitted           CaseStatus = "submitted"
)

// PipelineStageStatuses are the statuses a case reaches only once the
// downstream pipeline has started producing results. The synchronizer must
// never overwrite them with a pre-pipeline status (failed excepted).
var PipelineStageStatuses = []CaseStatus{
	CaseStatusFeaturesExtracted,
	CaseStatusEligibilityScored,
	CaseStatusReportGenerated,
	CaseStatusSubmitted,
}

// PipelineStage reports whether the status was written by a downstream
// pipeline stage rather than by the orchestrator.
func (s CaseStatus) PipelineStage() bool {
	for _, ps := range PipelineStageStatuses {
		if s == ps {
			return true
		}
	}
	return false
}

// Case carries the derived lifecycle of one intake case. PublicID is the
// identifier handed to external collaborators.
type Case struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PublicID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"public_id"`
	Status        CaseStatus `gorm:"type:varchar(30);not null;default:'created'" json:"status"`
	FailureReason string     `gorm:"type:text" json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
