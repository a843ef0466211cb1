package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed for the status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ErrorMessageMaxLen bounds every persisted diagnostic message, job or case.
const ErrorMessageMaxLen = 1000

// DefaultMaxAttempts is the attempts budget stamped onto a job at creation
// unless configuration overrides it.
const DefaultMaxAttempts = 2

// Job is one persisted unit of recognition work tied to a single document.
// Rows are never deleted; terminal rows are kept for audit.
type Job struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CaseID       uint           `gorm:"not null;index;uniqueIndex:idx_jobs_case_document" json:"case_id"`
	DocumentID   uint           `gorm:"not null;uniqueIndex:idx_jobs_case_document" json:"document_id"`
	Status       JobStatus      `gorm:"type:varchar(20);not null;default:'queued';index" json:"status"`
	Attempts     int            `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts  int            `gorm:"not null;default:2" json:"max_attempts"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	Result       datatypes.JSON `gorm:"type:jsonb" json:"result,omitempty"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// ClaimedJob is the lightweight descriptor handed to a worker by the claim
// protocol. Attempts reflects the value after the claim incremented it.
type ClaimedJob struct {
	JobID       uint
	CaseID      uint
	DocumentID  uint
	Attempts    int
	MaxAttempts int
}

// JobCounts is the per-case status breakdown used by the synchronizer,
// the pipeline trigger, and the drain wait.
type JobCounts struct {
	Queued     int64 `json:"queued"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// Active reports how many jobs are still queued or processing.
func (c JobCounts) Active() int64 { return c.Queued + c.Processing }

// Total reports how many jobs exist for the case.
func (c JobCounts) Total() int64 {
	return c.Queued + c.Processing + c.Completed + c.Failed
}

// TruncateMessage clamps a diagnostic message to ErrorMessageMaxLen runes.
func TruncateMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= ErrorMessageMaxLen {
		return msg
	}
	return string(runes[:ErrorMessageMaxLen])
}
