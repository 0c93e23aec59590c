package request

import (
	"time"

	"github.com/campusflow/approval-engine/internal/domain/role"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Type discriminates the concrete request kinds.
type Type string

const (
	TypeExcuse Type = "Excuse"
	TypeLeave  Type = "Leave"
	TypeLetter Type = "Letter"
	TypeForm   Type = "Form"
)

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the type is one of the defined request kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeExcuse, TypeLeave, TypeLetter, TypeForm:
		return true
	default:
		return false
	}
}

// Decision records the outcome of a single approval action.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// User is the authenticated identity acting on a request. It is supplied by
// the external session provider; authorization is always re-derived from the
// live workflow definition, never from claims cached alongside it.
type User struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Role role.Role `json:"role"`
}

// ApprovalEvent is one immutable entry in a request's approval log.
type ApprovalEvent struct {
	ID           int64     `json:"id,omitempty"`
	StageIndex   int       `json:"stage_index"`
	ApproverRole role.Role `json:"approver_role"`
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Status       Decision  `json:"status"`
	Comment      string    `json:"comment,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Request is the generic shape every request kind maps onto. The approval
// engine owns Status, CurrentStageIndex, CurrentApproverRole, Approvals and
// RejectionReason exclusively; adapters own everything else.
type Request struct {
	ID            string    `json:"id"`
	RequestType   Type      `json:"request_type"`
	WorkflowKey   string    `json:"workflow_key"`
	SubmitterID   string    `json:"submitter_id"`
	SubmitterName string    `json:"submitter_name"`
	SubmitterRole role.Role `json:"submitter_role"`

	// Status mirrors the current stage's display name and is persisted
	// redundantly for listing. Terminal values are Approved and Rejected.
	Status              string    `json:"status"`
	CurrentStageIndex   int       `json:"current_stage_index"`
	CurrentApproverRole role.Role `json:"current_approver_role,omitempty"`

	Approvals       []ApprovalEvent `json:"approvals"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time       `json:"submitted_at"`

	// Fields is the adapter-normalized field bag auto-approval rules are
	// evaluated against. Flat keys only.
	Fields map[string]interface{} `json:"fields"`
}

// IsTerminal reports whether the request reached an absorbing state.
func (r *Request) IsTerminal() bool {
	return r.Status == workflow.StageNameApproved || r.Status == workflow.StatusRejected
}
