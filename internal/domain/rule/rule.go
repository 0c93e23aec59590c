package rule

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Operator is a condition comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpContains    Operator = "contains"
)

// IsValid returns true if the operator is one of the defined comparisons.
func (o Operator) IsValid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpContains:
		return true
	default:
		return false
	}
}

// Condition compares one request field against a literal value.
type Condition struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Rule is an admin-configured auto-approval rule. When a submitted request
// matches all conditions of the highest-priority active rule for its
// workflow key, the manual approval chain is bypassed.
type Rule struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	WorkflowKey string      `json:"workflow_key"`
	Conditions  []Condition `json:"conditions"`
	Priority    int         `json:"priority"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate checks a rule before it is persisted: a name, a workflow key,
// and at least one condition with a known operator and a target field.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rule name is required", workflow.ErrValidation)
	}
	if strings.TrimSpace(r.WorkflowKey) == "" {
		return fmt.Errorf("%w: rule %q has no workflow key", workflow.ErrValidation, r.Name)
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("%w: rule %q has no conditions", workflow.ErrValidation, r.Name)
	}
	for i, cond := range r.Conditions {
		if strings.TrimSpace(cond.Field) == "" {
			return fmt.Errorf("%w: rule %q condition %d has no field", workflow.ErrValidation, r.Name, i)
		}
		if !cond.Operator.IsValid() {
			return fmt.Errorf("%w: rule %q condition %d has unknown operator %q", workflow.ErrValidation, r.Name, i, cond.Operator)
		}
	}
	return nil
}
