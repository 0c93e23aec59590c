package adapter

import (
	"github.com/campusflow/approval-engine/internal/domain/request"
)

// ExcuseRecord is the stored shape of an absence-excuse request.
type ExcuseRecord struct {
	ID          string `json:"id"`
	MatricNo    string `json:"matric_no"`
	StudentName string `json:"student_name"`
	CourseCode  string `json:"course_code"`
	DateMissed  string `json:"date_missed"`
	Reason      string `json:"reason"`
	Attachment  string `json:"attachment,omitempty"`

	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ExcuseAdapter maps excuse requests onto the generic workflow contract.
type ExcuseAdapter struct{}

// NewExcuseAdapter creates a new excuse adapter.
func NewExcuseAdapter() *ExcuseAdapter {
	return &ExcuseAdapter{}
}

// Type returns the discriminant this adapter serves.
func (a *ExcuseAdapter) Type() request.Type {
	return request.TypeExcuse
}

// WorkflowKey returns the fixed definition key for excuse requests.
func (a *ExcuseAdapter) WorkflowKey(map[string]interface{}) string {
	return request.TypeExcuse.String()
}

// ToRequest validates the payload and maps it onto the generic shape.
func (a *ExcuseAdapter) ToRequest(user request.User, payload map[string]interface{}) (*request.Request, error) {
	if err := requireFields(payload, "course_code", "date_missed", "reason"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"courseCode": stringField(payload, "course_code"),
		"dateMissed": stringField(payload, "date_missed"),
		"reason":     stringField(payload, "reason"),
		"attachment": stringField(payload, "attachment"),
		"matricNo":   stringField(payload, "matric_no"),
	}
	return newRequest(user, request.TypeExcuse, a.WorkflowKey(payload), fields), nil
}

// FromRequest maps the generic shape back onto the excuse record.
func (a *ExcuseAdapter) FromRequest(req *request.Request) *ExcuseRecord {
	return &ExcuseRecord{
		ID:              req.ID,
		MatricNo:        fieldString(req, "matricNo"),
		StudentName:     req.SubmitterName,
		CourseCode:      fieldString(req, "courseCode"),
		DateMissed:      fieldString(req, "dateMissed"),
		Reason:          fieldString(req, "reason"),
		Attachment:      fieldString(req, "attachment"),
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	}
}

func fieldString(req *request.Request, key string) string {
	if v, ok := req.Fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
