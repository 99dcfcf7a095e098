package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zefanja/podcast2Anki/internal/llm"
)

func TestPollerWaitUntilCompleted(t *testing.T) {
	api := newFakeBatchAPI()
	api.statuses = []llm.BatchStatus{
		llm.BatchStatusPending,
		llm.BatchStatusRunning,
		llm.BatchStatusCompleted,
	}

	poller := NewPoller(api, time.Millisecond)
	outputFileID, err := poller.Wait(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "file-out", outputFileID)
	assert.Equal(t, 3, api.retrieveCalls)
}

func TestPollerFailedJobIsFatal(t *testing.T) {
	api := newFakeBatchAPI()
	api.statuses = []llm.BatchStatus{llm.BatchStatusFailed}

	poller := NewPoller(api, time.Millisecond)
	_, err := poller.Wait(context.Background(), "batch-1")
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrBatch))
	// The error names the job and its terminal status for inspection
	assert.Contains(t, err.Error(), "batch-1")
	assert.Contains(t, err.Error(), "failed")
}

func TestPollerCancelledJobIsFatal(t *testing.T) {
	api := newFakeBatchAPI()
	api.statuses = []llm.BatchStatus{llm.BatchStatusRunning, llm.BatchStatusCancelled}

	poller := NewPoller(api, time.Millisecond)
	_, err := poller.Wait(context.Background(), "batch-1")
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrBatch))
	assert.Contains(t, err.Error(), "cancelled")
}

func TestPollerIdempotentForPendingJob(t *testing.T) {
	api := newFakeBatchAPI()
	api.statuses = []llm.BatchStatus{llm.BatchStatusPending, llm.BatchStatusCompleted}

	poller := NewPoller(api, time.Millisecond)
	first, err := poller.Wait(context.Background(), "batch-1")
	require.NoError(t, err)

	// A second wait on the already-completed job observes the same locator
	api.statuses = []llm.BatchStatus{llm.BatchStatusCompleted}
	second, err := poller.Wait(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPollerContextCancellation(t *testing.T) {
	api := newFakeBatchAPI()
	api.statuses = []llm.BatchStatus{llm.BatchStatusPending}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poller := NewPoller(api, time.Hour)
	_, err := poller.Wait(ctx, "batch-1")
	require.Error(t, err)
}
