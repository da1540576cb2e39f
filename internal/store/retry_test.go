package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreuzberg-io/kreuzberg/internal/domain"
)

func transientErr() error {
	return &Error{Target: domain.TargetPostgres, Op: "upsert", Err: errors.New("refused"), Transient: true}
}

func permanentErr() error {
	return &Error{Target: domain.TargetPostgres, Op: "upsert", Err: errors.New("constraint"), Transient: false}
}

func TestWithRetrySucceedsAfterTransient(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return transientErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnPermanent(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), 5, time.Millisecond, func() error {
		attempts++
		return permanentErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "permanent errors must not be retried")
	assert.False(t, IsTransient(err))
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, IsTransient(err))
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, 3, time.Millisecond, func() error {
		t.Fatal("operation must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetryInvalidBudget(t *testing.T) {
	err := WithRetry(context.Background(), 0, time.Millisecond, func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
