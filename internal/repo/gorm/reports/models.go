package reports

import (
	"time"

	"gorm.io/datatypes"
)

// Job statuses. Transitions are forward-only:
// pending -> processing -> completed | failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ValidStatus reports whether s names a known job status. Filter values are
// rejected upstream when this is false, never silently ignored.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// TerminalStatus reports whether s is completed or failed.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the persisted record of one report/settlement generation request.
// ID, TenantID, TypeID and Parameters are immutable after creation; only the
// executor mutates the rest, and only until the job is terminal.
type Job struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID       string         `gorm:"size:64;index;not null" json:"tenant_id"`
	TypeID         string         `gorm:"size:64;index" json:"type_id"`
	Parameters     datatypes.JSON `gorm:"type:json" json:"parameters"`
	Status         string         `gorm:"size:16;index;default:pending" json:"status"`
	ResultLocation string         `gorm:"size:512" json:"result_location,omitempty"`
	ErrorDetail    string         `gorm:"size:512" json:"error_detail,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

func (Job) TableName() string { return "report_jobs" }
