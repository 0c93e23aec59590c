package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// RequestRepository implements port.RequestRepository on SQLite.
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository.
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

const requestColumns = `
	id, request_type, workflow_key, submitter_id, submitter_name,
	submitter_role, status, current_stage_index, current_approver_role,
	rejection_reason, submitted_at, fields
`

// Create inserts a new request.
func (r *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	fields, err := json.Marshal(req.Fields)
	if err != nil {
		return fmt.Errorf("marshal request fields: %w", err)
	}

	query := `
		INSERT INTO requests (
			id, request_type, workflow_key, submitter_id, submitter_name,
			submitter_role, status, current_stage_index, current_approver_role,
			rejection_reason, submitted_at, fields
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.ID,
		req.RequestType.String(),
		req.WorkflowKey,
		req.SubmitterID,
		req.SubmitterName,
		req.SubmitterRole.String(),
		req.Status,
		req.CurrentStageIndex,
		req.CurrentApproverRole.String(),
		req.RejectionReason,
		req.SubmittedAt,
		string(fields),
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID, without its approval log.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*request.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	req, err := scanRequest(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %s", workflow.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// UpdateTransition writes the engine-owned fields conditionally on the stage
// and status the engine read. A concurrent transition leaves zero matching
// rows and surfaces as ErrInvalidState.
func (r *RequestRepository) UpdateTransition(ctx context.Context, req *request.Request, fromStageIndex int, fromStatus string) error {
	query := `
		UPDATE requests
		SET status = ?, current_stage_index = ?, current_approver_role = ?,
			rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND current_stage_index = ? AND status = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.Status,
		req.CurrentStageIndex,
		req.CurrentApproverRole.String(),
		req.RejectionReason,
		req.ID,
		fromStageIndex,
		fromStatus,
	)
	if err != nil {
		r.logger.Error("Failed to update request", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: request %s changed under concurrent action", workflow.ErrInvalidState, req.ID)
	}
	return nil
}

// ListBySubmitter returns a user's own submissions, newest first.
func (r *RequestRepository) ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]*request.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE submitter_id = ?
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?
	`
	return r.list(ctx, query, submitterID, limit, offset)
}

// ListByApproverRole returns non-terminal requests currently waiting on the
// given role, oldest first.
func (r *RequestRepository) ListByApproverRole(ctx context.Context, approver role.Role, limit, offset int) ([]*request.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE current_approver_role = ? COLLATE NOCASE
			AND status NOT IN (?, ?)
		ORDER BY submitted_at ASC
		LIMIT ? OFFSET ?
	`
	return r.list(ctx, query, approver.String(), workflow.StageNameApproved, workflow.StatusRejected, limit, offset)
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*request.Request, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*request.Request
	for rows.Next() {
		req, err := scanRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row *sql.Row) (*request.Request, error) {
	return scanRequestRow(row)
}

func scanRequestRow(row rowScanner) (*request.Request, error) {
	var req request.Request
	var requestType, submitterRole, approverRole, fields string
	var rejectionReason sql.NullString

	err := row.Scan(
		&req.ID,
		&requestType,
		&req.WorkflowKey,
		&req.SubmitterID,
		&req.SubmitterName,
		&submitterRole,
		&req.Status,
		&req.CurrentStageIndex,
		&approverRole,
		&rejectionReason,
		&req.SubmittedAt,
		&fields,
	)
	if err != nil {
		return nil, err
	}

	req.RequestType = request.Type(requestType)
	req.SubmitterRole = role.Role(submitterRole)
	req.CurrentApproverRole = role.Role(approverRole)
	req.RejectionReason = rejectionReason.String
	if fields != "" {
		if err := json.Unmarshal([]byte(fields), &req.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal request fields: %w", err)
		}
	}
	return &req, nil
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
