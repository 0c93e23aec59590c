package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
)

// ApprovalEventRepository implements port.ApprovalEventRepository. The table
// is append-only: events are never updated or deleted.
type ApprovalEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalEventRepository creates a new approval event repository.
func NewApprovalEventRepository(db *sql.DB, logger *zap.Logger) port.ApprovalEventRepository {
	return &ApprovalEventRepository{
		db:     db,
		logger: logger,
	}
}

// Append inserts one approval event for a request.
func (r *ApprovalEventRepository) Append(ctx context.Context, requestID string, ev *request.ApprovalEvent) error {
	query := `
		INSERT INTO approval_events (
			request_id, stage_index, approver_role, approver_id,
			approver_name, status, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		requestID,
		ev.StageIndex,
		ev.ApproverRole.String(),
		ev.ApproverID,
		ev.ApproverName,
		string(ev.Status),
		ev.Comment,
		ev.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append approval event",
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("failed to append approval event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	ev.ID = id
	return nil
}

// ListByRequestID returns a request's approval log in insertion order.
func (r *ApprovalEventRepository) ListByRequestID(ctx context.Context, requestID string) ([]request.ApprovalEvent, error) {
	query := `
		SELECT id, stage_index, approver_role, approver_id, approver_name,
			status, comment, timestamp
		FROM approval_events
		WHERE request_id = ?
		ORDER BY id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval events: %w", err)
	}
	defer rows.Close()

	var events []request.ApprovalEvent
	for rows.Next() {
		var ev request.ApprovalEvent
		var approverRole, status string
		if err := rows.Scan(
			&ev.ID,
			&ev.StageIndex,
			&approverRole,
			&ev.ApproverID,
			&ev.ApproverName,
			&status,
			&ev.Comment,
			&ev.Timestamp,
		); err != nil {
			return nil, err
		}
		ev.ApproverRole = role.Role(approverRole)
		ev.Status = request.Decision(status)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Verify interface compliance
var _ port.ApprovalEventRepository = (*ApprovalEventRepository)(nil)
