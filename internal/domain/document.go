package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DocumentStatus represents the processing status of a document.
// Values include DocumentStatusPending, DocumentStatusExtracted,
// DocumentStatusPersisted, and DocumentStatusFailed.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusExtracted DocumentStatus = "extracted"
	DocumentStatusPersisted DocumentStatus = "persisted"
	DocumentStatusFailed    DocumentStatus = "failed"
)

// statusRank orders statuses along the processing pipeline.
// Terminal statuses share the highest rank.
var statusRank = map[DocumentStatus]int{
	DocumentStatusPending:   0,
	DocumentStatusExtracted: 1,
	DocumentStatusPersisted: 2,
	DocumentStatusFailed:    2,
}

// Terminal reports whether the status is a terminal state.
// Parameters: none.
// Returns:
//   - bool: true for Persisted or Failed.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusPersisted || s == DocumentStatusFailed
}

// ErrBackwardTransition is returned when a status change would move a
// document backward through the pipeline or out of a terminal state.
var ErrBackwardTransition = errors.New("document status cannot move backward")

// MetadataMap is a custom type for storing metadata key/value pairs as JSON
// in relational stores.
type MetadataMap map[string]string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the map.
//   - error: non-nil if marshaling fails.
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (m *MetadataMap) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan MetadataMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// Document represents one source file and its derived extracted content.
// Identity is the source path plus the content hash; upserts into backing
// stores are keyed by the content hash so repeat runs are no-ops.
type Document struct {
	ID          string         `gorm:"type:text;primaryKey" json:"id"`
	JobID       string         `gorm:"type:text;index:idx_documents_job" json:"job_id"`
	SourcePath  string         `gorm:"type:text;not null" json:"source_path"`
	ContentHash string         `gorm:"type:text;not null;uniqueIndex:idx_documents_hash" json:"content_hash"`
	FileSize    int64          `json:"file_size"`
	MIMEType    string         `gorm:"column:mime_type" json:"mime_type"`
	Text        string         `gorm:"type:text" json:"text"`
	Metadata    MetadataMap    `gorm:"type:text" json:"metadata"`
	Status      DocumentStatus `gorm:"type:text;index:idx_documents_status;default:pending" json:"status"`
	Error       string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName returns the database table name for Document.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Document) TableName() string {
	return "documents"
}

// Advance moves the document to the next status, enforcing forward-only
// transitions. Failed is reachable from any non-terminal status.
// Parameters:
//   - next: status to transition to.
// Returns:
//   - error: ErrBackwardTransition if the move is not allowed.
func (d *Document) Advance(next DocumentStatus) error {
	if d.Status.Terminal() {
		return fmt.Errorf("%w: %s is terminal", ErrBackwardTransition, d.Status)
	}
	if statusRank[next] <= statusRank[d.Status] {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, d.Status, next)
	}
	d.Status = next
	d.UpdatedAt = time.Now()
	return nil
}

// Fail marks the document as failed with the given error detail.
// No-op if the document is already terminal.
func (d *Document) Fail(err error) {
	if d.Status.Terminal() {
		return
	}
	d.Status = DocumentStatusFailed
	if err != nil {
		d.Error = err.Error()
	}
	d.UpdatedAt = time.Now()
}
