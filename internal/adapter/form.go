package adapter

import (
	"fmt"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// FormRecord is the stored shape of a dynamic form submission. The form's
// name doubles as the workflow definition key, so a form named "Medical
// Certificate" resolves a different chain than "Conference Travel".
type FormRecord struct {
	ID            string                 `json:"id"`
	FormName      string                 `json:"form_name"`
	SubmitterID   string                 `json:"submitter_id"`
	SubmitterName string                 `json:"submitter_name"`
	Values        map[string]interface{} `json:"values"`

	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// FormAdapter maps dynamic form submissions onto the generic workflow
// contract.
type FormAdapter struct{}

// NewFormAdapter creates a new form adapter.
func NewFormAdapter() *FormAdapter {
	return &FormAdapter{}
}

// Type returns the discriminant this adapter serves.
func (a *FormAdapter) Type() request.Type {
	return request.TypeForm
}

// WorkflowKey resolves the definition key from the submitted form's name,
// not a fixed type string.
func (a *FormAdapter) WorkflowKey(payload map[string]interface{}) string {
	return stringField(payload, "form_name")
}

// ToRequest validates the payload and maps it onto the generic shape. The
// form's field values become the rule-evaluation field bag as-is; field
// validation against the form's definition happens upstream in the form
// builder, before the workflow is invoked.
func (a *FormAdapter) ToRequest(user request.User, payload map[string]interface{}) (*request.Request, error) {
	if err := requireFields(payload, "form_name"); err != nil {
		return nil, err
	}

	values, ok := payload["values"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: field %q must be an object", workflow.ErrValidation, "values")
	}

	fields := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		fields[k] = v
	}
	fields["formName"] = a.WorkflowKey(payload)

	return newRequest(user, request.TypeForm, a.WorkflowKey(payload), fields), nil
}

// FromRequest maps the generic shape back onto the form record.
func (a *FormAdapter) FromRequest(req *request.Request) *FormRecord {
	values := make(map[string]interface{}, len(req.Fields))
	for k, v := range req.Fields {
		if k == "formName" {
			continue
		}
		values[k] = v
	}
	return &FormRecord{
		ID:              req.ID,
		FormName:        req.WorkflowKey,
		SubmitterID:     req.SubmitterID,
		SubmitterName:   req.SubmitterName,
		Values:          values,
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	}
}
