package api

import (
	"context"
	"encoding/json"
	"fmt"

	"nirman-fieldworks/internal/client/transport"
)

// WorkClient performs work-proposal operations.
type WorkClient struct {
	t *transport.Transport
}

// NewWorkClient creates a work client on the shared transport.
func NewWorkClient(t *transport.Transport) *WorkClient {
	return &WorkClient{t: t}
}

// ListProposals returns the server payload as-is. The shape has drifted
// across backend deployments (bare array, {data:[...]}, {proposals:[...]});
// callers normalize with ExtractProposals.
func (c *WorkClient) ListProposals(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.t.Get(ctx, "/work-proposals", &raw); err != nil {
		return nil, opError(err, "Failed to fetch work proposals")
	}
	return raw, nil
}

// GetProposal fetches one proposal by id.
func (c *WorkClient) GetProposal(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("work proposal id is required")
	}
	var raw json.RawMessage
	if err := c.t.Get(ctx, "/work-proposals/"+id, &raw); err != nil {
		return nil, opError(err, "Failed to fetch work proposal")
	}
	return raw, nil
}

// UpdateProposal sends a partial update for one proposal.
func (c *WorkClient) UpdateProposal(ctx context.Context, id string, patch interface{}) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("work proposal id is required")
	}
	var raw json.RawMessage
	if err := c.t.Put(ctx, "/work-proposals/"+id, patch, &raw); err != nil {
		return nil, opError(err, "Failed to update work proposal")
	}
	return raw, nil
}

// SubmitProgress uploads one progress report as a multipart request. The
// content type is overridden for this call only; token attachment and 401
// handling apply as for every other call.
func (c *WorkClient) SubmitProgress(ctx context.Context, id string, sub ProgressSubmission) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("work proposal id is required")
	}

	body, contentType, err := sub.encode()
	if err != nil {
		return nil, fmt.Errorf("failed to build progress payload: %w", err)
	}

	var raw json.RawMessage
	if err := c.t.Do(ctx, "POST", "/work-proposals/"+id+"/progress", contentType, body, &raw); err != nil {
		return nil, opError(err, "Failed to submit progress")
	}
	return raw, nil
}

// GetProgress returns the progress history payload unchanged.
func (c *WorkClient) GetProgress(ctx context.Context, id string) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("work proposal id is required")
	}
	var raw json.RawMessage
	if err := c.t.Get(ctx, "/work-proposals/"+id+"/progress", &raw); err != nil {
		return nil, opError(err, "Failed to fetch work progress")
	}
	return raw, nil
}
