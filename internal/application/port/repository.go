package port

import (
	"context"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
	"github.com/campusflow/approval-engine/internal/domain/rule"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// RequestRepository defines persistence operations for the generic Request.
type RequestRepository interface {
	Create(ctx context.Context, req *request.Request) error

	// GetByID returns the request without its approval log.
	// Returns workflow.ErrNotFound when no such request exists.
	GetByID(ctx context.Context, id string) (*request.Request, error)

	// UpdateTransition conditionally writes the engine-owned fields (status,
	// current stage, current approver role, rejection reason) keyed on the
	// stage and status the caller read. Returns workflow.ErrInvalidState
	// when the row moved on under a concurrent action (zero rows matched).
	UpdateTransition(ctx context.Context, req *request.Request, fromStageIndex int, fromStatus string) error

	ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]*request.Request, error)
	ListByApproverRole(ctx context.Context, r role.Role, limit, offset int) ([]*request.Request, error)
}

// ApprovalEventRepository defines persistence for the append-only approval log.
type ApprovalEventRepository interface {
	Append(ctx context.Context, requestID string, ev *request.ApprovalEvent) error
	ListByRequestID(ctx context.Context, requestID string) ([]request.ApprovalEvent, error)
}

// DefinitionRepository defines persistence for admin-configured workflow
// definitions. The engine only reads; admin tooling writes.
type DefinitionRepository interface {
	// GetByKey returns workflow.ErrNotFound when no definition is configured
	// for the key.
	GetByKey(ctx context.Context, key string) (*workflow.Definition, error)
	Save(ctx context.Context, def *workflow.Definition) error
	List(ctx context.Context) ([]*workflow.Definition, error)
	Delete(ctx context.Context, key string) error
}

// RuleRepository defines persistence for auto-approval rules.
type RuleRepository interface {
	ListActiveByKey(ctx context.Context, key string) ([]rule.Rule, error)
	Save(ctx context.Context, r *rule.Rule) error
	List(ctx context.Context) ([]rule.Rule, error)
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
