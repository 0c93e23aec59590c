package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/domain/request"
)

// BatchItemResult is the outcome of one request within a bulk action.
type BatchItemResult struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`

	// Err keeps the underlying error for programmatic callers; Error above
	// is the serialized form.
	Err error `json:"-"`
}

// BatchResult collects per-item outcomes of a bulk action. Partial success
// is expected and surfaced, never swallowed: a failing item does not abort
// the batch and carries its own error.
type BatchResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}

func (b *BatchResult) add(id string, req *request.Request, err error) {
	item := BatchItemResult{RequestID: id, Err: err}
	if err != nil {
		item.Error = err.Error()
		b.Failed++
	} else {
		item.Status = req.Status
		b.Succeeded++
	}
	b.Items = append(b.Items, item)
}

// BulkApprove applies Approve independently to each request in the batch.
// Items are processed in order; each one carries the same per-request
// serialization guarantee as a single approve.
func (e *Engine) BulkApprove(ctx context.Context, requestIDs []string, actor request.User, comment string) *BatchResult {
	result := &BatchResult{}
	for _, id := range requestIDs {
		req, err := e.Approve(ctx, id, actor, comment)
		result.add(id, req, err)
	}

	e.logger.Info("Bulk approve finished",
		zap.String("actor_id", actor.ID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result
}

// BulkReject applies Reject independently to each request in the batch. The
// shared reason is validated once per item, so an empty reason fails every
// item rather than aborting the call.
func (e *Engine) BulkReject(ctx context.Context, requestIDs []string, actor request.User, reason string) *BatchResult {
	result := &BatchResult{}
	for _, id := range requestIDs {
		req, err := e.Reject(ctx, id, actor, reason)
		result.add(id, req, err)
	}

	e.logger.Info("Bulk reject finished",
		zap.String("actor_id", actor.ID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result
}
