package openai

import (
	"context"
)

// CreateEmbeddings generates embedding vectors for the given inputs.
func (c *Client) CreateEmbeddings(ctx context.Context, embReq CreateEmbeddingsRequest) (*CreateEmbeddingsResponse, error) {
	var response CreateEmbeddingsResponse
	if err := c.postJSON(ctx, "/embeddings", embReq, &response); err != nil {
		return nil, err
	}
	return &response, nil
}
