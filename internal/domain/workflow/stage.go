package workflow

import (
	"fmt"

	"github.com/campusflow/approval-engine/internal/domain/role"
)

// Stage is one position in a request's approval chain. A stage with an empty
// ApproverRole is a marker: the submission stage at index 0 or the terminal
// approved stage at the end of the chain.
type Stage struct {
	Name         string    `json:"name"`
	ApproverRole role.Role `json:"approver_role,omitempty"`
}

// Actionable reports whether a human approver acts at this stage.
func (s Stage) Actionable() bool {
	return s.ApproverRole != ""
}

// Definition is the ordered approval chain resolved for one workflow key.
// The key is the request type name, or the form name for dynamic forms.
type Definition struct {
	Key   string  `json:"key"`
	Steps []Stage `json:"steps"`
}

// Validate enforces the structural invariants of a chain: non-empty, a
// submission marker first, a terminal approved marker last, and an approver
// role on every stage in between.
func (d Definition) Validate() error {
	if len(d.Steps) < 2 {
		return fmt.Errorf("%w: definition %q needs at least a submission and a terminal stage", ErrConfiguration, d.Key)
	}
	if d.Steps[0].Actionable() {
		return fmt.Errorf("%w: definition %q first stage must be the submission marker", ErrConfiguration, d.Key)
	}
	last := len(d.Steps) - 1
	if d.Steps[last].Actionable() {
		return fmt.Errorf("%w: definition %q last stage must be the terminal marker", ErrConfiguration, d.Key)
	}
	for i := 1; i < last; i++ {
		if !d.Steps[i].Actionable() {
			return fmt.Errorf("%w: definition %q stage %d has no approver role", ErrConfiguration, d.Key, i)
		}
		if _, ok := role.Parse(d.Steps[i].ApproverRole.String()); !ok {
			return fmt.Errorf("%w: definition %q stage %d has unknown role %q", ErrConfiguration, d.Key, i, d.Steps[i].ApproverRole)
		}
	}
	return nil
}

// StageAt returns the stage at the given index.
func (d Definition) StageAt(i int) (Stage, error) {
	if i < 0 || i >= len(d.Steps) {
		return Stage{}, fmt.Errorf("%w: stage index %d out of range for definition %q", ErrInvalidState, i, d.Key)
	}
	return d.Steps[i], nil
}

// TerminalIndex returns the index of the terminal approved marker.
func (d Definition) TerminalIndex() int {
	return len(d.Steps) - 1
}

// IsTerminalIndex reports whether the index is at or past the terminal marker.
func (d Definition) IsTerminalIndex(i int) bool {
	return i >= d.TerminalIndex()
}

// InitialStageIndex computes where a freshly submitted request enters the
// chain: the first actionable stage whose approver strictly outranks the
// submitter. A submitter never approves their own request, so stages at or
// below the submitter's own rank are skipped. Index 0 is the submission
// marker and is never actionable, so the minimum is 1. If no stage outranks
// the submitter the terminal index is returned and the request is approved
// on submission.
func (d Definition) InitialStageIndex(submitter role.Role) int {
	for i := 1; i < d.TerminalIndex(); i++ {
		if d.Steps[i].ApproverRole.Outranks(submitter) {
			return i
		}
	}
	return d.TerminalIndex()
}

// ApproverRoles returns the distinct approver roles in chain order.
func (d Definition) ApproverRoles() []role.Role {
	roles := make([]role.Role, 0, len(d.Steps))
	for _, s := range d.Steps {
		if s.Actionable() {
			roles = append(roles, s.ApproverRole)
		}
	}
	return roles
}

// HasApprover reports whether the role appears anywhere in the chain.
func (d Definition) HasApprover(r role.Role) bool {
	for _, s := range d.Steps {
		if s.Actionable() && s.ApproverRole.Equals(r) {
			return true
		}
	}
	return false
}
