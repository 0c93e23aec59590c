// Package engine owns the workflow transitions of a request. Status,
// current stage and the approval log are mutated here and nowhere else.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/definition"
	"github.com/campusflow/approval-engine/internal/application/dispatcher"
	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/event"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/rule"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Engine drives requests through their approval chain. Transitions are
// synchronous and serialized per request: the conditional write in
// UpdateTransition makes the second of two racing actions observe the moved
// stage and fail with ErrInvalidState.
type Engine struct {
	requests    port.RequestRepository
	events      port.ApprovalEventRepository
	rules       port.RuleRepository
	definitions *definition.Store
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
	logger      *zap.Logger
}

// New creates a new approval engine.
func New(
	requests port.RequestRepository,
	events port.ApprovalEventRepository,
	rules port.RuleRepository,
	definitions *definition.Store,
	txManager port.TransactionManager,
	disp dispatcher.Dispatcher,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		requests:    requests,
		events:      events,
		rules:       rules,
		definitions: definitions,
		txManager:   txManager,
		dispatcher:  disp,
		logger:      logger,
	}
}

// Submit places a new request at its initial stage and persists it. The
// initial stage is the first one whose approver outranks the submitter, so a
// submitter never approves their own request. After placement the
// auto-approval rules for the request's workflow key are evaluated; a match
// short-circuits the chain straight to Approved with a synthetic approval
// event.
func (e *Engine) Submit(ctx context.Context, req *request.Request) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}

	def := e.definitions.Resolve(ctx, req.RequestType, req.WorkflowKey)

	idx := def.InitialStageIndex(req.SubmitterRole)
	stage, err := def.StageAt(idx)
	if err != nil {
		return err
	}
	req.CurrentStageIndex = idx
	req.Status = stage.Name
	req.CurrentApproverRole = stage.ApproverRole

	// A synthetic approval is seeded in two cases: the whole chain is at or
	// below the submitter's own rank, or an auto-approval rule matched.
	var autoEvent *request.ApprovalEvent
	var autoRule *rule.Rule
	if req.IsTerminal() {
		autoEvent = syntheticApproval(idx,
			fmt.Sprintf("Approved on submission: no stage outranks submitter role %s", req.SubmitterRole))
	} else {
		rules, err := e.rules.ListActiveByKey(ctx, req.WorkflowKey)
		if err != nil {
			// Rule lookup failure must not block submission.
			e.logger.Warn("Auto-approval rule lookup failed",
				zap.String("workflow_key", req.WorkflowKey),
				zap.Error(err))
		} else if autoRule, _ = rule.Evaluate(req.Fields, rules); autoRule != nil {
			autoEvent = syntheticApproval(idx,
				fmt.Sprintf("Auto-approved by rule %q", autoRule.Name))
		}
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		fromIdx, fromStatus := req.CurrentStageIndex, req.Status

		if err := e.requests.Create(txCtx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if autoEvent == nil {
			return nil
		}

		req.CurrentStageIndex = def.TerminalIndex()
		req.Status = workflow.StageNameApproved
		req.CurrentApproverRole = ""
		req.Approvals = append(req.Approvals, *autoEvent)

		if fromIdx != req.CurrentStageIndex || fromStatus != req.Status {
			if err := e.requests.UpdateTransition(txCtx, req, fromIdx, fromStatus); err != nil {
				return fmt.Errorf("auto-approve request: %w", err)
			}
		}
		return e.events.Append(txCtx, req.ID, autoEvent)
	})
	if err != nil {
		return err
	}

	submitted := e.emit(ctx, event.TypeRequestSubmitted, req, map[string]interface{}{
		"status":      req.Status,
		"stage_index": req.CurrentStageIndex,
	})
	if autoRule != nil {
		e.emitCorrelated(ctx, event.TypeRequestAutoApproved, req, map[string]interface{}{
			"rule": autoRule.Name,
		}, submitted.CorrelationID)
	}
	if req.IsTerminal() {
		e.emitCorrelated(ctx, event.TypeRequestTerminal, req, terminalPayload(req), submitted.CorrelationID)
	}

	e.logger.Info("Request submitted",
		zap.String("request_id", req.ID),
		zap.String("request_type", req.RequestType.String()),
		zap.String("status", req.Status),
		zap.Bool("auto_approved", autoEvent != nil))
	return nil
}

func syntheticApproval(stageIndex int, comment string) *request.ApprovalEvent {
	return &request.ApprovalEvent{
		StageIndex:   stageIndex,
		ApproverID:   "system",
		ApproverName: "System",
		Status:       request.DecisionApproved,
		Comment:      comment,
		Timestamp:    time.Now(),
	}
}

// Approve advances a request by exactly one stage on behalf of the actor.
// The actor must be an admin or hold the current stage's approver role,
// checked against the definition resolved now, not against any cached claim.
func (e *Engine) Approve(ctx context.Context, requestID string, actor request.User, comment string) (*request.Request, error) {
	return e.transition(ctx, requestID, actor, request.DecisionApproved, comment)
}

// Reject terminates a request with a mandatory reason. The rejection keeps
// the current stage index untouched so the audit trail shows where the
// request died.
func (e *Engine) Reject(ctx context.Context, requestID string, actor request.User, reason string) (*request.Request, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", workflow.ErrValidation)
	}
	return e.transition(ctx, requestID, actor, request.DecisionRejected, reason)
}

func (e *Engine) transition(ctx context.Context, requestID string, actor request.User, decision request.Decision, comment string) (*request.Request, error) {
	req, err := e.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is already %s", workflow.ErrInvalidState, req.ID, req.Status)
	}

	def := e.definitions.Resolve(ctx, req.RequestType, req.WorkflowKey)
	stage, err := def.StageAt(req.CurrentStageIndex)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsAdmin() && (!stage.Actionable() || !stage.ApproverRole.Equals(actor.Role)) {
		return nil, fmt.Errorf("%w: %s may not act at stage %q", workflow.ErrUnauthorized, actor.Role, stage.Name)
	}

	ev := &request.ApprovalEvent{
		StageIndex:   req.CurrentStageIndex,
		ApproverRole: actor.Role,
		ApproverID:   actor.ID,
		ApproverName: actor.Name,
		Status:       decision,
		Comment:      comment,
		Timestamp:    time.Now(),
	}

	fromIdx, fromStatus := req.CurrentStageIndex, req.Status

	if decision == request.DecisionApproved {
		next := req.CurrentStageIndex + 1
		req.CurrentStageIndex = next
		if def.IsTerminalIndex(next) {
			req.Status = workflow.StageNameApproved
			req.CurrentApproverRole = ""
		} else {
			nextStage, err := def.StageAt(next)
			if err != nil {
				return nil, err
			}
			req.Status = nextStage.Name
			req.CurrentApproverRole = nextStage.ApproverRole
		}
	} else {
		req.Status = workflow.StatusRejected
		req.RejectionReason = comment
		req.CurrentApproverRole = ""
	}
	req.Approvals = append(req.Approvals, *ev)

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.requests.UpdateTransition(txCtx, req, fromIdx, fromStatus); err != nil {
			return err
		}
		return e.events.Append(txCtx, req.ID, ev)
	})
	if err != nil {
		return nil, err
	}

	if req.IsTerminal() {
		e.emit(ctx, event.TypeRequestTerminal, req, terminalPayload(req))
	} else {
		e.emit(ctx, event.TypeStageAdvanced, req, map[string]interface{}{
			"status":        req.Status,
			"stage_index":   req.CurrentStageIndex,
			"approver_role": req.CurrentApproverRole.String(),
			"actor_id":      actor.ID,
		})
	}

	e.logger.Info("Request transitioned",
		zap.String("request_id", req.ID),
		zap.String("decision", string(decision)),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", actor.Role.String()),
		zap.String("status", req.Status))
	return req, nil
}

func (e *Engine) emit(ctx context.Context, t event.Type, req *request.Request, payload map[string]interface{}) *event.Event {
	evt := event.New(t, req.ID, req.RequestType.String(), payload)
	e.dispatch(ctx, evt)
	return evt
}

// emitCorrelated links a follow-up event to the one that triggered it, so
// subscribers can tie an auto-approval or terminal event back to the
// submission that produced it.
func (e *Engine) emitCorrelated(ctx context.Context, t event.Type, req *request.Request, payload map[string]interface{}, correlationID string) {
	e.dispatch(ctx, event.NewWithCorrelation(t, req.ID, req.RequestType.String(), payload, correlationID))
}

func (e *Engine) dispatch(ctx context.Context, evt *event.Event) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.DispatchAsync(ctx, evt)
}

func terminalPayload(req *request.Request) map[string]interface{} {
	return map[string]interface{}{
		"status":           req.Status,
		"rejection_reason": req.RejectionReason,
		"submitter_id":     req.SubmitterID,
	}
}
