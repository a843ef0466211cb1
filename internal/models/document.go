package models

import "time"

// Document references one uploaded file belonging to a case. The file itself
// lives in external storage; StorageKey is opaque to the orchestrator and is
// handed as-is to the recognition collaborator.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CaseID     uint      `gorm:"not null;index" json:"case_id"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"filename"`
	StorageKey string    `gorm:"type:varchar(512);not null" json:"storage_key"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
