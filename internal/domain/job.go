package domain

import "time"

// JobStatus represents the status of an ingestion job.
// Values include JobStatusPending, JobStatusRunning, JobStatusCompleted,
// and JobStatusFailed.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IngestionJob represents one complete pass over the input location and
// its progress metadata. A job is completed once every discovered
// document has reached a terminal status.
type IngestionJob struct {
	ID             string     `gorm:"type:text;primaryKey" json:"id"`
	InputDir       string     `gorm:"type:text;not null" json:"input_dir"`
	Status         JobStatus  `gorm:"default:pending" json:"status"`
	TotalItems     int        `gorm:"default:0" json:"total_items"`
	PersistedItems int        `gorm:"default:0" json:"persisted_items"`
	FailedItems    int        `gorm:"default:0" json:"failed_items"`
	SkippedItems   int        `gorm:"default:0" json:"skipped_items"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ErrorLog       string     `json:"error_log,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for IngestionJob.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (IngestionJob) TableName() string {
	return "ingestion_jobs"
}
