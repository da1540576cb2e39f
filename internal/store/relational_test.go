package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

func newTestRelational(t *testing.T) *RelationalStore {
	t.Helper()
	s := NewRelationalStore(&RelationalConfig{
		Driver: "sqlite",
		Target: domain.TargetPostgres,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRelationalUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestRelational(t)

	doc := testDocument()
	require.NoError(t, s.Upsert(ctx, doc))

	// Same content hash again: no duplicate row
	again := testDocument()
	again.ID = "doc-2"
	again.Text = "hello"
	require.NoError(t, s.Upsert(ctx, again))

	db, err := s.conn(ctx)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&domain.Document{}).Where("content_hash = ?", doc.ContentHash).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRelationalJobRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestRelational(t)

	now := time.Now()
	job := &domain.IngestionJob{
		ID:         "job-42",
		InputDir:   "/data/input",
		Status:     domain.JobStatusRunning,
		TotalItems: 3,
		StartedAt:  &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.SaveJob(ctx, job))

	// Update through the same upsert path
	job.Status = domain.JobStatusCompleted
	job.PersistedItems = 3
	require.NoError(t, s.SaveJob(ctx, job))

	got, err := s.GetJob(ctx, "job-42")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	assert.Equal(t, 3, got.PersistedItems)

	jobs, err := s.ListJobs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestRelationalHealthy(t *testing.T) {
	s := newTestRelational(t)
	assert.True(t, s.Healthy(context.Background()))

	bad := NewRelationalStore(&RelationalConfig{
		Driver: "postgres",
		Target: domain.TargetPostgres,
		Host:   "127.0.0.1",
		Port:   1, // nothing listens here
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.False(t, bad.Healthy(ctx))
}

func TestRelationalUnknownDriver(t *testing.T) {
	s := NewRelationalStore(&RelationalConfig{Driver: "oracle", Target: domain.TargetPostgres})
	err := s.Upsert(context.Background(), testDocument())
	require.Error(t, err)
	assert.False(t, IsTransient(err), "unknown driver is a configuration problem, not retryable")
}
