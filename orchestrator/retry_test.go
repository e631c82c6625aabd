package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ma-za-kpe/vibejudge/vjerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every test in this package runs with a millisecond-scale retry base
// instead of the production 1s, so the pre-flight and pipeline tests
// that exercise retryWithBackoff through real failure paths don't spend
// wall-clock seconds sleeping between attempts.
func init() {
	retryBase = 1 * time.Millisecond
}

func TestRetryWithBackoff_SucceedsWithoutRetryOnFirstTry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_NonRetryableErrorStopsImmediately(t *testing.T) {
	calls := 0
	sentinel := errors.New("permanent")
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RetryableErrorRetriesUpToMax(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		return vjerr.New("test.op", vjerr.CodeTransient, "transient failure")
	})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return vjerr.New("test.op", vjerr.CodeTransient, "transient failure")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := retryWithBackoff(ctx, func() error {
		calls++
		return vjerr.New("test.op", vjerr.CodeTransient, "transient failure")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
