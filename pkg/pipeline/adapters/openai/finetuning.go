package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
)

// CreateFineTuningJob creates a fine-tuning job from uploaded training files.
func (c *Client) CreateFineTuningJob(ctx context.Context, jobReq CreateFineTuningJobRequest) (*FineTuningJob, error) {
	var job FineTuningJob
	if err := c.postJSON(ctx, "/fine_tuning/jobs", jobReq, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// RetrieveFineTuningJob retrieves a fine-tuning job.
func (c *Client) RetrieveFineTuningJob(ctx context.Context, jobID string) (*FineTuningJob, error) {
	path := fmt.Sprintf("/fine_tuning/jobs/%s", jobID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var job FineTuningJob
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListFineTuningJobs lists your organization's fine-tuning jobs.
func (c *Client) ListFineTuningJobs(ctx context.Context, params *ListParams) (*ListFineTuningJobsResponse, error) {
	path := "/fine_tuning/jobs"
	if params != nil {
		q, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query params: %w", err)
		}
		if q.Encode() != "" {
			path = path + "?" + q.Encode()
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var response ListFineTuningJobsResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
