package jobs_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/eser/ajan/logfx"
	"github.com/eser/distill/pkg/pipeline/business/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchSuccess = []string{"completed"}

var batchFailure = []string{"failed", "expired", "cancelled"}

func newTestLogger(t *testing.T) *logfx.Logger {
	t.Helper()

	logger, err := logfx.NewLoggerAsDefault(io.Discard, &logfx.Config{})
	require.NoError(t, err)

	return logger
}

func sequenceFetch(statuses ...string) (jobs.StatusFunc, *int) {
	calls := 0
	fetch := func(_ context.Context) (string, error) {
		status := statuses[calls]
		calls++

		return status, nil
	}

	return fetch, &calls
}

func TestWaitForTerminal_SucceedsAfterNonTerminalStatuses(t *testing.T) {
	fetch, calls := sequenceFetch("validating", "in_progress", "completed")

	status, err := jobs.WaitForTerminal(context.Background(), newTestLogger(t), "batch", "batch-1", time.Millisecond, fetch, batchSuccess, batchFailure)

	require.NoError(t, err)
	assert.Equal(t, "completed", status)
	assert.Equal(t, 3, *calls)
}

func TestWaitForTerminal_TerminalFailureSurfacesImmediately(t *testing.T) {
	fetch, calls := sequenceFetch("validating", "failed")

	_, err := jobs.WaitForTerminal(context.Background(), newTestLogger(t), "batch", "batch-2", time.Millisecond, fetch, batchSuccess, batchFailure)

	var jobErr *jobs.JobFailedError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "batch-2", jobErr.JobID)
	assert.Equal(t, "failed", jobErr.Status)
	assert.Equal(t, 2, *calls)
}

func TestWaitForTerminal_ImmediateSuccessPollsOnce(t *testing.T) {
	fetch, calls := sequenceFetch("completed")

	status, err := jobs.WaitForTerminal(context.Background(), newTestLogger(t), "batch", "batch-3", time.Millisecond, fetch, batchSuccess, batchFailure)

	require.NoError(t, err)
	assert.Equal(t, "completed", status)
	assert.Equal(t, 1, *calls)
}

func TestWaitForTerminal_FetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("network down")
	fetch := func(_ context.Context) (string, error) { return "", fetchErr }

	_, err := jobs.WaitForTerminal(context.Background(), newTestLogger(t), "batch", "batch-4", time.Millisecond, fetch, batchSuccess, batchFailure)

	require.ErrorIs(t, err, fetchErr)
}

func TestWaitForTerminal_ContextCancellationStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(_ context.Context) (string, error) {
		cancel()

		return "in_progress", nil
	}

	_, err := jobs.WaitForTerminal(ctx, newTestLogger(t), "batch", "batch-5", time.Hour, fetch, batchSuccess, batchFailure)

	require.ErrorIs(t, err, context.Canceled)
}
