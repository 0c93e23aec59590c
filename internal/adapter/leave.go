package adapter

import (
	"fmt"
	"time"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// LeaveRecord is the stored shape of a staff leave request.
type LeaveRecord struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	StaffName string `json:"staff_name"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
	Reason    string `json:"reason"`

	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// LeaveAdapter maps leave requests onto the generic workflow contract.
type LeaveAdapter struct{}

// NewLeaveAdapter creates a new leave adapter.
func NewLeaveAdapter() *LeaveAdapter {
	return &LeaveAdapter{}
}

// Type returns the discriminant this adapter serves.
func (a *LeaveAdapter) Type() request.Type {
	return request.TypeLeave
}

// WorkflowKey returns the fixed definition key for leave requests.
func (a *LeaveAdapter) WorkflowKey(map[string]interface{}) string {
	return request.TypeLeave.String()
}

// ToRequest validates the payload and maps it onto the generic shape. The
// day count is derived from the date range, inclusive of both ends.
func (a *LeaveAdapter) ToRequest(user request.User, payload map[string]interface{}) (*request.Request, error) {
	if err := requireFields(payload, "leave_type", "start_date", "end_date", "reason"); err != nil {
		return nil, err
	}

	start, err := time.Parse("2006-01-02", stringField(payload, "start_date"))
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", workflow.ErrValidation)
	}
	end, err := time.Parse("2006-01-02", stringField(payload, "end_date"))
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", workflow.ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date precedes start_date", workflow.ErrValidation)
	}
	totalDays := int(end.Sub(start).Hours()/24) + 1

	fields := map[string]interface{}{
		"leaveType": stringField(payload, "leave_type"),
		"startDate": start.Format("2006-01-02"),
		"endDate":   end.Format("2006-01-02"),
		"totalDays": totalDays,
		"reason":    stringField(payload, "reason"),
	}
	return newRequest(user, request.TypeLeave, a.WorkflowKey(payload), fields), nil
}

// FromRequest maps the generic shape back onto the leave record.
func (a *LeaveAdapter) FromRequest(req *request.Request) *LeaveRecord {
	days := 0
	if v, ok := req.Fields["totalDays"]; ok {
		switch n := v.(type) {
		case int:
			days = n
		case float64:
			days = int(n)
		}
	}
	return &LeaveRecord{
		ID:              req.ID,
		StaffID:         req.SubmitterID,
		StaffName:       req.SubmitterName,
		LeaveType:       fieldString(req, "leaveType"),
		StartDate:       fieldString(req, "startDate"),
		EndDate:         fieldString(req, "endDate"),
		TotalDays:       days,
		Reason:          fieldString(req, "reason"),
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	}
}
