package rule

import (
	"errors"
	"testing"

	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

func TestRule_Validate(t *testing.T) {
	valid := Condition{Field: "leaveType", Operator: OpEquals, Value: "Official"}

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: Rule{Name: "official leave", WorkflowKey: "Leave", Conditions: []Condition{valid}},
		},
		{
			name:    "missing name",
			rule:    Rule{WorkflowKey: "Leave", Conditions: []Condition{valid}},
			wantErr: true,
		},
		{
			name:    "missing workflow key",
			rule:    Rule{Name: "official leave", Conditions: []Condition{valid}},
			wantErr: true,
		},
		{
			name:    "no conditions",
			rule:    Rule{Name: "official leave", WorkflowKey: "Leave"},
			wantErr: true,
		},
		{
			name: "condition without field",
			rule: Rule{Name: "official leave", WorkflowKey: "Leave", Conditions: []Condition{
				{Operator: OpEquals, Value: "Official"},
			}},
			wantErr: true,
		},
		{
			name: "condition with unknown operator",
			rule: Rule{Name: "official leave", WorkflowKey: "Leave", Conditions: []Condition{
				{Field: "leaveType", Operator: Operator("matches"), Value: "Official"},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, workflow.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestOperator_IsValid(t *testing.T) {
	for _, op := range []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpContains} {
		if !op.IsValid() {
			t.Errorf("IsValid() = false for %q", op)
		}
	}
	if Operator("matches").IsValid() {
		t.Errorf("IsValid() = true for unknown operator")
	}
}
