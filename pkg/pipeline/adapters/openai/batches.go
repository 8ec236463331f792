package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
)

// CreateBatch creates and executes a batch from an uploaded file.
func (c *Client) CreateBatch(ctx context.Context, batchReq CreateBatchRequest) (*Batch, error) {
	var batch Batch
	if err := c.postJSON(ctx, "/batches", batchReq, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// RetrieveBatch retrieves a batch.
func (c *Client) RetrieveBatch(ctx context.Context, batchID string) (*Batch, error) {
	path := fmt.Sprintf("/batches/%s", batchID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := c.do(req, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// CancelBatch cancels an in-progress batch.
func (c *Client) CancelBatch(ctx context.Context, batchID string) (*Batch, error) {
	path := fmt.Sprintf("/batches/%s/cancel", batchID)
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := c.do(req, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches lists your organization's batches.
func (c *Client) ListBatches(ctx context.Context, params *ListParams) (*ListBatchesResponse, error) {
	path := "/batches"
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

	var response ListBatchesResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
