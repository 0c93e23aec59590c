// Package notification records a pending notification row for every
// workflow transition. Delivery (email, in-app) belongs to an external
// dispatcher reading this outbox; recording failures are logged and never
// block the workflow.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/dispatcher"
	"github.com/campusflow/approval-engine/internal/domain/event"
)

// Notification statuses.
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// Notification is one outbox entry awaiting external delivery.
type Notification struct {
	ID          int64      `json:"id"`
	RequestID   string     `json:"request_id"`
	RequestType string     `json:"request_type"`
	EventType   string     `json:"event_type"`
	Recipient   string     `json:"recipient"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	ErrorMsg    string     `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Repository defines the outbox persistence the recorder needs.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetPending(ctx context.Context, limit int) ([]*Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// Recorder subscribes to workflow events and writes outbox rows.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
}

// NewRecorder creates a new recorder.
func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Register subscribes the recorder to the transitions worth notifying on.
func (r *Recorder) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeStageAdvanced, "notification-recorder", r.onStageAdvanced)
	d.SubscribeNamed(event.TypeRequestTerminal, "notification-recorder", r.onTerminal)
}

// onStageAdvanced notifies the role now holding the request.
func (r *Recorder) onStageAdvanced(ctx context.Context, evt *event.Event) error {
	n := &Notification{
		RequestID:   evt.RequestID,
		RequestType: evt.RequestType,
		EventType:   evt.Type.String(),
		Recipient:   evt.GetPayloadString("approver_role"),
		Message:     "A " + evt.RequestType + " request awaits your approval",
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	return r.record(ctx, n)
}

// onTerminal notifies the submitter of the final outcome.
func (r *Recorder) onTerminal(ctx context.Context, evt *event.Event) error {
	n := &Notification{
		RequestID:   evt.RequestID,
		RequestType: evt.RequestType,
		EventType:   evt.Type.String(),
		Recipient:   evt.GetPayloadString("submitter_id"),
		Message:     "Your " + evt.RequestType + " request is " + evt.GetPayloadString("status"),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	return r.record(ctx, n)
}

func (r *Recorder) record(ctx context.Context, n *Notification) error {
	if err := r.repo.Create(ctx, n); err != nil {
		// Losing a notification must not surface as a workflow failure.
		r.logger.Error("Failed to record notification",
			zap.String("request_id", n.RequestID),
			zap.String("event_type", n.EventType),
			zap.Error(err))
	}
	return nil
}
