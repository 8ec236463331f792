package jobs

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/eser/ajan/logfx"
)

// StatusFunc fetches the current remote status of a job.
type StatusFunc func(ctx context.Context) (string, error)

// JobFailedError signals that a remote job reached a terminal failure status.
// Terminal failures are never retried; retry semantics while a job is in
// progress are the provider's responsibility.
type JobFailedError struct {
	JobID  string
	Status string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s ended with terminal status %q", e.JobID, e.Status)
}

// WaitForTerminal polls fetch until it reports a terminal status. Success
// statuses return the status; failure statuses return a *JobFailedError.
// Any other status sleeps pollInterval and polls again, indefinitely, since
// job duration is provider-controlled and unbounded. The fetch happens before
// the sleep, so a sequence of N statuses ending in a terminal one costs
// exactly N fetches.
func WaitForTerminal(
	ctx context.Context,
	logger *logfx.Logger,
	label string,
	jobID string,
	pollInterval time.Duration,
	fetch StatusFunc,
	successStatuses []string,
	failureStatuses []string,
) (string, error) {
	for {
		status, err := fetch(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to fetch status for job %s: %w", jobID, err)
		}

		if slices.Contains(successStatuses, status) {
			logger.InfoContext(ctx, "[Jobs] Job reached terminal status", "module", "jobs", "label", label, "jobId", jobID, "status", status)

			return status, nil
		}

		if slices.Contains(failureStatuses, status) {
			return status, &JobFailedError{JobID: jobID, Status: status}
		}

		logger.InfoContext(ctx, "[Jobs] Job still in progress, waiting", "module", "jobs", "label", label, "jobId", jobID, "status", status, "pollInterval", pollInterval)

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("polling for job %s interrupted: %w", jobID, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}
