// Package authz decides who may see and who may act on a request.
package authz

import (
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// CanView reports whether the user may read a request and its approval
// history: the submitter, an admin, or any approver anywhere in the resolved
// chain. Approvers past or future keep visibility for audit purposes.
func CanView(user request.User, req *request.Request, def workflow.Definition) bool {
	if user.ID != "" && user.ID == req.SubmitterID {
		return true
	}
	if user.Role.IsAdmin() {
		return true
	}
	return def.HasApprover(user.Role)
}

// CanAct reports whether the user may approve or reject the request right
// now: an admin, or the holder of the current stage's approver role, and
// only while the request is non-terminal.
func CanAct(user request.User, req *request.Request, def workflow.Definition) bool {
	if req.IsTerminal() {
		return false
	}
	if user.Role.IsAdmin() {
		return true
	}
	stage, err := def.StageAt(req.CurrentStageIndex)
	if err != nil || !stage.Actionable() {
		return false
	}
	return stage.ApproverRole.Equals(user.Role)
}
