package store

import (
	"context"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

// Store is the uniform interface over one backing store. Implementations
// connect lazily: construction must not require the backend to be
// reachable, since orchestration order is not guaranteed.
type Store interface {
	// Name returns the target name this adapter serves.
	Name() domain.TargetName

	// Capabilities returns the fixed capability flags for this target.
	Capabilities() domain.Capabilities

	// Upsert writes a document keyed by its content hash. Repeat calls
	// with the same hash are idempotent.
	Upsert(ctx context.Context, doc *domain.Document) error

	// Healthy reports whether the backend is currently reachable.
	Healthy(ctx context.Context) bool

	// Close releases connections held by the adapter.
	Close() error
}

// JobRecorder persists ingestion job bookkeeping. Implemented by
// relational adapters; other backends do not track jobs.
type JobRecorder interface {
	SaveJob(ctx context.Context, job *domain.IngestionJob) error
	GetJob(ctx context.Context, id string) (*domain.IngestionJob, error)
	ListJobs(ctx context.Context, limit int) ([]domain.IngestionJob, error)
}
