package workflow

import (
	"errors"
	"testing"

	"github.com/campusflow/approval-engine/internal/domain/role"
)

func chain(roles ...role.Role) Definition {
	steps := []Stage{{Name: StageNameSubmitted}}
	for _, r := range roles {
		steps = append(steps, Stage{Name: "Pending " + r.String() + " Approval", ApproverRole: r})
	}
	steps = append(steps, Stage{Name: StageNameApproved})
	return Definition{Key: "test", Steps: steps}
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			name: "valid chain",
			def:  chain(role.RoleLecturer, role.RoleHOD, role.RoleDean),
		},
		{
			name: "minimal chain with no approvers",
			def: Definition{Key: "k", Steps: []Stage{
				{Name: StageNameSubmitted},
				{Name: StageNameApproved},
			}},
		},
		{
			name:    "too short",
			def:     Definition{Key: "k", Steps: []Stage{{Name: StageNameSubmitted}}},
			wantErr: true,
		},
		{
			name: "first stage actionable",
			def: Definition{Key: "k", Steps: []Stage{
				{Name: "Pending HOD Approval", ApproverRole: role.RoleHOD},
				{Name: StageNameApproved},
			}},
			wantErr: true,
		},
		{
			name: "last stage actionable",
			def: Definition{Key: "k", Steps: []Stage{
				{Name: StageNameSubmitted},
				{Name: "Pending HOD Approval", ApproverRole: role.RoleHOD},
			}},
			wantErr: true,
		},
		{
			name: "middle stage without role",
			def: Definition{Key: "k", Steps: []Stage{
				{Name: StageNameSubmitted},
				{Name: "Hole"},
				{Name: StageNameApproved},
			}},
			wantErr: true,
		},
		{
			name: "unknown role",
			def: Definition{Key: "k", Steps: []Stage{
				{Name: StageNameSubmitted},
				{Name: "Pending Registrar Approval", ApproverRole: role.Role("Registrar")},
				{Name: StageNameApproved},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestDefinition_InitialStageIndex(t *testing.T) {
	leave := DefaultDefinition("Leave", "Leave")
	excuse := DefaultDefinition("Excuse", "Excuse")
	letter := DefaultDefinition("Letter", "Letter")

	tests := []struct {
		name      string
		def       Definition
		submitter role.Role
		want      int
	}{
		// Leave chain: Submitted, Lecturer, HOD, Dean, Approved.
		{name: "student enters leave at first stage", def: leave, submitter: role.RoleStudent, want: 1},
		{name: "lecturer skips own stage", def: leave, submitter: role.RoleLecturer, want: 2},
		{name: "hod enters leave at dean", def: leave, submitter: role.RoleHOD, want: 3},
		{name: "dean outranks whole leave chain", def: leave, submitter: role.RoleDean, want: leave.TerminalIndex()},
		{name: "vc outranks whole leave chain", def: leave, submitter: role.RoleVC, want: leave.TerminalIndex()},

		// Excuse chain: Submitted, Staff, Lecturer, HOD, Dean, Approved.
		{name: "student enters excuse at staff review", def: excuse, submitter: role.RoleStudent, want: 1},
		{name: "staff skips staff review", def: excuse, submitter: role.RoleStaff, want: 2},

		// Letter chain: Submitted, HOD, Dean, VC, Approved.
		{name: "lecturer enters letter at hod", def: letter, submitter: role.RoleLecturer, want: 1},
		{name: "dean enters letter at vc", def: letter, submitter: role.RoleDean, want: 3},
		{name: "vc outranks whole letter chain", def: letter, submitter: role.RoleVC, want: letter.TerminalIndex()},

		// Admin holds no rank, so every actionable stage outranks it.
		{name: "admin enters at first stage", def: leave, submitter: role.RoleAdmin, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.InitialStageIndex(tt.submitter); got != tt.want {
				t.Errorf("InitialStageIndex(%v) = %v, want %v", tt.submitter, got, tt.want)
			}
		})
	}
}

func TestDefinition_InitialStageIndexNeverZero(t *testing.T) {
	for _, typ := range []string{"Excuse", "Leave", "Letter"} {
		def := DefaultDefinition(typ, typ)
		for _, r := range []role.Role{role.RoleStudent, role.RoleStaff, role.RoleLecturer, role.RoleHOD, role.RoleDean, role.RoleVC} {
			if got := def.InitialStageIndex(r); got < 1 {
				t.Errorf("InitialStageIndex(%v) on %s chain = %v, want >= 1", r, typ, got)
			}
		}
	}
}

func TestDefinition_StageAt(t *testing.T) {
	def := chain(role.RoleHOD)

	if _, err := def.StageAt(-1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("StageAt(-1) error = %v, want ErrInvalidState", err)
	}
	if _, err := def.StageAt(len(def.Steps)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("StageAt(out of range) error = %v, want ErrInvalidState", err)
	}
	stage, err := def.StageAt(1)
	if err != nil {
		t.Fatalf("StageAt(1) error = %v", err)
	}
	if !stage.ApproverRole.Equals(role.RoleHOD) {
		t.Errorf("StageAt(1) role = %v, want HOD", stage.ApproverRole)
	}
}

func TestDefinition_HasApprover(t *testing.T) {
	def := chain(role.RoleLecturer, role.RoleHOD)

	if !def.HasApprover(role.RoleHOD) {
		t.Errorf("HasApprover(HOD) = false, want true")
	}
	if !def.HasApprover(role.Role("hod")) {
		t.Errorf("HasApprover should ignore case")
	}
	if def.HasApprover(role.RoleVC) {
		t.Errorf("HasApprover(VC) = true, want false")
	}
}

func TestDefaultDefinition(t *testing.T) {
	excuse := DefaultDefinition("Excuse", "Excuse")
	if len(excuse.Steps) != 6 {
		t.Errorf("Excuse chain has %d steps, want 6", len(excuse.Steps))
	}
	if !excuse.Steps[1].ApproverRole.Equals(role.RoleStaff) {
		t.Errorf("Excuse chain stage 1 = %v, want Staff", excuse.Steps[1].ApproverRole)
	}

	// Unknown types and unconfigured forms fall back to the Letter chain.
	fallback := DefaultDefinition("Form", "Medical Certificate")
	if fallback.Key != "Medical Certificate" {
		t.Errorf("fallback key = %q, want form name", fallback.Key)
	}
	letter := DefaultDefinition("Letter", "Letter")
	if len(fallback.Steps) != len(letter.Steps) {
		t.Errorf("fallback chain length = %d, want %d", len(fallback.Steps), len(letter.Steps))
	}
	if !fallback.Steps[1].ApproverRole.Equals(role.RoleHOD) {
		t.Errorf("fallback stage 1 = %v, want HOD", fallback.Steps[1].ApproverRole)
	}

	for _, typ := range []string{"Excuse", "Leave", "Letter"} {
		if err := DefaultDefinition(typ, typ).Validate(); err != nil {
			t.Errorf("default %s chain invalid: %v", typ, err)
		}
	}
}

func TestDefaultDefinition_ReturnsCopy(t *testing.T) {
	a := DefaultDefinition("Leave", "Leave")
	a.Steps[1].Name = "mutated"

	b := DefaultDefinition("Leave", "Leave")
	if b.Steps[1].Name == "mutated" {
		t.Errorf("DefaultDefinition shares backing array between calls")
	}
}
