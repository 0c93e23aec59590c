package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/adapter"
	"github.com/campusflow/approval-engine/internal/application/authz"
	"github.com/campusflow/approval-engine/internal/application/definition"
	"github.com/campusflow/approval-engine/internal/application/engine"
	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// RequestService is the application-facing surface for submitting and acting
// on requests. It wires adapters, the authorization gate and the engine;
// transition logic itself lives in the engine alone.
type RequestService interface {
	Submit(ctx context.Context, user request.User, requestType request.Type, payload map[string]interface{}) (*request.Request, error)
	Get(ctx context.Context, user request.User, requestID string) (*request.Request, error)
	Approve(ctx context.Context, actor request.User, requestID, comment string) (*request.Request, error)
	Reject(ctx context.Context, actor request.User, requestID, reason string) (*request.Request, error)
	BulkApprove(ctx context.Context, actor request.User, requestIDs []string, comment string) *engine.BatchResult
	BulkReject(ctx context.Context, actor request.User, requestIDs []string, reason string) *engine.BatchResult
	ListMine(ctx context.Context, user request.User, limit, offset int) ([]*request.Request, error)
	ListPending(ctx context.Context, user request.User, limit, offset int) ([]*request.Request, error)
}

type requestServiceImpl struct {
	registry    *adapter.Registry
	engine      *engine.Engine
	requests    port.RequestRepository
	events      port.ApprovalEventRepository
	definitions *definition.Store
	logger      *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	registry *adapter.Registry,
	eng *engine.Engine,
	requests port.RequestRepository,
	events port.ApprovalEventRepository,
	definitions *definition.Store,
	logger *zap.Logger,
) RequestService {
	return &requestServiceImpl{
		registry:    registry,
		engine:      eng,
		requests:    requests,
		events:      events,
		definitions: definitions,
		logger:      logger,
	}
}

// Submit maps the payload through the type's adapter and hands the generic
// request to the engine.
func (s *requestServiceImpl) Submit(ctx context.Context, user request.User, requestType request.Type, payload map[string]interface{}) (*request.Request, error) {
	a, err := s.registry.ForType(requestType)
	if err != nil {
		return nil, err
	}
	req, err := a.ToRequest(user, payload)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Submit(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get returns a request with its full approval history, gated by view
// authorization. An unauthorized viewer sees "not found" semantics kept
// distinct from "not authorized" per the gate's result.
func (s *requestServiceImpl) Get(ctx context.Context, user request.User, requestID string) (*request.Request, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	def := s.definitions.Resolve(ctx, req.RequestType, req.WorkflowKey)
	if !authz.CanView(user, req, def) {
		return nil, fmt.Errorf("%w: not permitted to view request %s", workflow.ErrUnauthorized, requestID)
	}

	events, err := s.events.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req.Approvals = events
	return req, nil
}

// Approve delegates to the engine.
func (s *requestServiceImpl) Approve(ctx context.Context, actor request.User, requestID, comment string) (*request.Request, error) {
	return s.engine.Approve(ctx, requestID, actor, comment)
}

// Reject delegates to the engine.
func (s *requestServiceImpl) Reject(ctx context.Context, actor request.User, requestID, reason string) (*request.Request, error) {
	return s.engine.Reject(ctx, requestID, actor, reason)
}

// BulkApprove delegates to the engine.
func (s *requestServiceImpl) BulkApprove(ctx context.Context, actor request.User, requestIDs []string, comment string) *engine.BatchResult {
	return s.engine.BulkApprove(ctx, requestIDs, actor, comment)
}

// BulkReject delegates to the engine.
func (s *requestServiceImpl) BulkReject(ctx context.Context, actor request.User, requestIDs []string, reason string) *engine.BatchResult {
	return s.engine.BulkReject(ctx, requestIDs, actor, reason)
}

// ListMine returns the user's own submissions.
func (s *requestServiceImpl) ListMine(ctx context.Context, user request.User, limit, offset int) ([]*request.Request, error) {
	return s.requests.ListBySubmitter(ctx, user.ID, limit, offset)
}

// ListPending returns the requests awaiting the user's role.
func (s *requestServiceImpl) ListPending(ctx context.Context, user request.User, limit, offset int) ([]*request.Request, error) {
	return s.requests.ListByApproverRole(ctx, user.Role, limit, offset)
}
