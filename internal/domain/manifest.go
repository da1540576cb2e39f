package domain

import "time"

// ManifestEntry summarizes the terminal state of one document within a
// job. The manifest is the single source of truth for per-file success
// or failure.
type ManifestEntry struct {
	JobID          string         `json:"job_id"`
	File           string         `json:"file"`
	ContentHash    string         `json:"content_hash,omitempty"`
	Status         DocumentStatus `json:"status"`
	TargetsAcked   int            `json:"targets_acked"`
	AckedTargets   []TargetName   `json:"acked_targets,omitempty"`
	SkippedTargets []TargetName   `json:"targets_skipped,omitempty"`
	FailedTargets  []TargetName   `json:"targets_failed,omitempty"`
	Error          string         `json:"error,omitempty"`
	CompletedAt    time.Time      `json:"completed_at"`
}

// ManifestSummary is the per-job roll-up written alongside the entries.
type ManifestSummary struct {
	JobID       string    `json:"job_id"`
	InputDir    string    `json:"input_dir"`
	Status      JobStatus `json:"status"`
	Total       int       `json:"total"`
	Persisted   int       `json:"persisted"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}
