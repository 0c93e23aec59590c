package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/notification"
)

// NotificationRepository implements the notification outbox store.
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) notification.Repository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new outbox entry.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			request_id, request_type, event_type, recipient, message,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		n.RequestID,
		n.RequestType,
		n.EventType,
		n.Recipient,
		n.Message,
		n.Status,
		n.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.String("request_id", n.RequestID),
			zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	n.ID = id
	return nil
}

// GetPending returns undelivered entries, oldest first.
func (r *NotificationRepository) GetPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	query := `
		SELECT id, request_id, request_type, event_type, recipient, message,
			status, sent_at, error_message, created_at
		FROM notifications
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, notification.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var sentAt sql.NullTime
		var errorMsg sql.NullString
		if err := rows.Scan(
			&n.ID,
			&n.RequestID,
			&n.RequestType,
			&n.EventType,
			&n.Recipient,
			&n.Message,
			&n.Status,
			&sentAt,
			&errorMsg,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		n.ErrorMsg = errorMsg.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkSent records successful delivery.
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, notification.StatusSent, id); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	query := `UPDATE notifications SET status = ?, error_message = ? WHERE id = ?`
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, notification.StatusFailed, errorMsg, id); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ notification.Repository = (*NotificationRepository)(nil)
