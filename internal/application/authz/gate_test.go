package authz

import (
	"testing"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

func pendingRequest(idx int) *request.Request {
	def := workflow.DefaultDefinition("Leave", "Leave")
	stage := def.Steps[idx]
	return &request.Request{
		ID:                  "req-1",
		RequestType:         request.TypeLeave,
		WorkflowKey:         "Leave",
		SubmitterID:         "staff-9",
		SubmitterRole:       role.RoleStaff,
		Status:              stage.Name,
		CurrentStageIndex:   idx,
		CurrentApproverRole: stage.ApproverRole,
	}
}

func TestCanView(t *testing.T) {
	def := workflow.DefaultDefinition("Leave", "Leave")
	req := pendingRequest(1)

	tests := []struct {
		name string
		user request.User
		want bool
	}{
		{name: "submitter", user: request.User{ID: "staff-9", Role: role.RoleStaff}, want: true},
		{name: "admin", user: request.User{ID: "adm-1", Role: role.RoleAdmin}, want: true},
		{name: "current approver", user: request.User{ID: "lec-1", Role: role.RoleLecturer}, want: true},
		{name: "later approver in chain", user: request.User{ID: "dean-1", Role: role.RoleDean}, want: true},
		{name: "role outside chain", user: request.User{ID: "vc-1", Role: role.RoleVC}, want: false},
		{name: "unrelated student", user: request.User{ID: "stu-1", Role: role.RoleStudent}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.user, req, def); got != tt.want {
				t.Errorf("CanView(%v) = %v, want %v", tt.user.Role, got, tt.want)
			}
		})
	}
}

func TestCanAct(t *testing.T) {
	def := workflow.DefaultDefinition("Leave", "Leave")

	tests := []struct {
		name string
		req  *request.Request
		user request.User
		want bool
	}{
		{name: "current stage approver", req: pendingRequest(1),
			user: request.User{ID: "lec-1", Role: role.RoleLecturer}, want: true},
		{name: "case-insensitive role match", req: pendingRequest(1),
			user: request.User{ID: "lec-1", Role: role.Role("lecturer")}, want: true},
		{name: "admin anywhere", req: pendingRequest(2),
			user: request.User{ID: "adm-1", Role: role.RoleAdmin}, want: true},
		{name: "approver of a different stage", req: pendingRequest(1),
			user: request.User{ID: "hod-1", Role: role.RoleHOD}, want: false},
		{name: "submitter cannot act", req: pendingRequest(1),
			user: request.User{ID: "staff-9", Role: role.RoleStaff}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAct(tt.user, tt.req, def); got != tt.want {
				t.Errorf("CanAct(%v) = %v, want %v", tt.user.Role, got, tt.want)
			}
		})
	}
}

func TestCanAct_TerminalRequest(t *testing.T) {
	def := workflow.DefaultDefinition("Leave", "Leave")
	req := pendingRequest(1)
	req.Status = workflow.StatusRejected

	if CanAct(request.User{ID: "adm-1", Role: role.RoleAdmin}, req, def) {
		t.Errorf("CanAct() = true on a terminal request, even admins cannot act")
	}
}
