package notification

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/dispatcher"
	"github.com/campusflow/approval-engine/internal/domain/event"
)

type mockOutboxRepo struct {
	createFunc func(ctx context.Context, n *Notification) error
	created    []*Notification
}

func (m *mockOutboxRepo) Create(ctx context.Context, n *Notification) error {
	m.created = append(m.created, n)
	if m.createFunc != nil {
		return m.createFunc(ctx, n)
	}
	return nil
}

func (m *mockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*Notification, error) {
	return m.created, nil
}

func (m *mockOutboxRepo) MarkSent(ctx context.Context, id int64) error { return nil }

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	return nil
}

func TestRecorder_OnStageAdvanced(t *testing.T) {
	repo := &mockOutboxRepo{}
	r := NewRecorder(repo, zap.NewNop())

	evt := event.New(event.TypeStageAdvanced, "req-1", "Excuse", map[string]interface{}{
		"approver_role": "HOD",
		"status":        "Pending HOD Approval",
	})
	if err := r.onStageAdvanced(context.Background(), evt); err != nil {
		t.Fatalf("onStageAdvanced() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("recorded %d notifications, want 1", len(repo.created))
	}
	n := repo.created[0]
	if n.Recipient != "HOD" {
		t.Errorf("recipient = %q, want the role now holding the request", n.Recipient)
	}
	if n.Status != StatusPending {
		t.Errorf("status = %q, want %q", n.Status, StatusPending)
	}
	if n.RequestID != "req-1" || n.RequestType != "Excuse" {
		t.Errorf("notification = %+v", n)
	}
}

func TestRecorder_OnTerminal(t *testing.T) {
	repo := &mockOutboxRepo{}
	r := NewRecorder(repo, zap.NewNop())

	evt := event.New(event.TypeRequestTerminal, "req-1", "Leave", map[string]interface{}{
		"status":       "Rejected",
		"submitter_id": "staff-9",
	})
	if err := r.onTerminal(context.Background(), evt); err != nil {
		t.Fatalf("onTerminal() error = %v", err)
	}

	n := repo.created[0]
	if n.Recipient != "staff-9" {
		t.Errorf("recipient = %q, want the submitter", n.Recipient)
	}
	if n.Message != "Your Leave request is Rejected" {
		t.Errorf("message = %q", n.Message)
	}
}

func TestRecorder_RecordsAfterCallerContextCanceled(t *testing.T) {
	var ctxErr error
	repo := &mockOutboxRepo{
		createFunc: func(ctx context.Context, n *Notification) error {
			ctxErr = ctx.Err()
			return ctx.Err()
		},
	}
	r := NewRecorder(repo, zap.NewNop())

	d := dispatcher.New(zap.NewNop())
	r.Register(d)

	// The workflow transition committed, then the client went away before
	// the async handlers ran. The outbox row must still be written.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.DispatchAsync(ctx, event.New(event.TypeStageAdvanced, "req-1", "Excuse", map[string]interface{}{
		"approver_role": "HOD",
	}))
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("recorded %d notifications, want 1", len(repo.created))
	}
	if ctxErr != nil {
		t.Errorf("outbox write saw context error %v, want detached context", ctxErr)
	}
}

func TestRecorder_RepositoryFailureIsSwallowed(t *testing.T) {
	repo := &mockOutboxRepo{
		createFunc: func(ctx context.Context, n *Notification) error {
			return errors.New("outbox table locked")
		},
	}
	r := NewRecorder(repo, zap.NewNop())

	evt := event.New(event.TypeStageAdvanced, "req-1", "Excuse", nil)
	if err := r.onStageAdvanced(context.Background(), evt); err != nil {
		t.Errorf("onStageAdvanced() error = %v, recording failures must not propagate", err)
	}
}
