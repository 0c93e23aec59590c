package adapter

import (
	"errors"
	"testing"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

func submitter() request.User {
	return request.User{ID: "stu-1", Name: "Ada Obi", Role: role.RoleStudent}
}

func TestRegistry_ForType(t *testing.T) {
	r := NewRegistry()

	for _, typ := range []request.Type{request.TypeExcuse, request.TypeLeave, request.TypeLetter, request.TypeForm} {
		a, err := r.ForType(typ)
		if err != nil {
			t.Errorf("ForType(%v) error = %v", typ, err)
			continue
		}
		if a.Type() != typ {
			t.Errorf("ForType(%v).Type() = %v", typ, a.Type())
		}
	}

	if _, err := r.ForType(request.Type("Voucher")); !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("ForType(unknown) error = %v, want ErrValidation", err)
	}
}

func TestExcuseAdapter_ToRequest(t *testing.T) {
	a := NewExcuseAdapter()

	payload := map[string]interface{}{
		"matric_no":   "CSC/19/001",
		"course_code": " CSC301 ",
		"date_missed": "2026-03-10",
		"reason":      "hospital admission",
	}

	req, err := a.ToRequest(submitter(), payload)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.RequestType != request.TypeExcuse || req.WorkflowKey != "Excuse" {
		t.Errorf("ToRequest() type = %v key = %q", req.RequestType, req.WorkflowKey)
	}
	if req.SubmitterID != "stu-1" || !req.SubmitterRole.Equals(role.RoleStudent) {
		t.Errorf("ToRequest() submitter = %q %v", req.SubmitterID, req.SubmitterRole)
	}
	if req.Fields["courseCode"] != "CSC301" {
		t.Errorf("ToRequest() courseCode = %v, want trimmed value", req.Fields["courseCode"])
	}

	for _, missing := range []string{"course_code", "date_missed", "reason"} {
		bad := map[string]interface{}{}
		for k, v := range payload {
			if k != missing {
				bad[k] = v
			}
		}
		if _, err := a.ToRequest(submitter(), bad); !errors.Is(err, workflow.ErrValidation) {
			t.Errorf("ToRequest() without %q error = %v, want ErrValidation", missing, err)
		}
	}
}

func TestLeaveAdapter_ToRequest(t *testing.T) {
	a := NewLeaveAdapter()
	staff := request.User{ID: "staff-1", Name: "Bode A", Role: role.RoleStaff}

	tests := []struct {
		name     string
		payload  map[string]interface{}
		wantErr  bool
		wantDays int
	}{
		{
			name: "single day",
			payload: map[string]interface{}{
				"leave_type": "Annual", "start_date": "2026-04-01",
				"end_date": "2026-04-01", "reason": "personal",
			},
			wantDays: 1,
		},
		{
			name: "inclusive range",
			payload: map[string]interface{}{
				"leave_type": "Annual", "start_date": "2026-04-01",
				"end_date": "2026-04-05", "reason": "personal",
			},
			wantDays: 5,
		},
		{
			name: "bad date format",
			payload: map[string]interface{}{
				"leave_type": "Annual", "start_date": "01/04/2026",
				"end_date": "2026-04-05", "reason": "personal",
			},
			wantErr: true,
		},
		{
			name: "end before start",
			payload: map[string]interface{}{
				"leave_type": "Annual", "start_date": "2026-04-05",
				"end_date": "2026-04-01", "reason": "personal",
			},
			wantErr: true,
		},
		{
			name: "missing leave type",
			payload: map[string]interface{}{
				"start_date": "2026-04-01", "end_date": "2026-04-05", "reason": "personal",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := a.ToRequest(staff, tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, workflow.ErrValidation) {
					t.Errorf("ToRequest() error = %v, want ErrValidation", err)
				}
				return
			}
			if req.Fields["totalDays"] != tt.wantDays {
				t.Errorf("ToRequest() totalDays = %v, want %v", req.Fields["totalDays"], tt.wantDays)
			}
		})
	}
}

func TestLetterAdapter_ToRequest(t *testing.T) {
	a := NewLetterAdapter()

	req, err := a.ToRequest(submitter(), map[string]interface{}{
		"subject":   "Transcript request",
		"body":      "I need my transcript for an application.",
		"recipient": "Registry",
	})
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.WorkflowKey != "Letter" {
		t.Errorf("ToRequest() key = %q, want Letter", req.WorkflowKey)
	}

	if _, err := a.ToRequest(submitter(), map[string]interface{}{"subject": "x"}); !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("ToRequest() without body error = %v, want ErrValidation", err)
	}
}

func TestFormAdapter_WorkflowKeyIsFormName(t *testing.T) {
	a := NewFormAdapter()

	payload := map[string]interface{}{
		"form_name": "Medical Certificate",
		"values":    map[string]interface{}{"clinic": "Campus Health", "days": float64(3)},
	}

	if key := a.WorkflowKey(payload); key != "Medical Certificate" {
		t.Errorf("WorkflowKey() = %q, want the form name", key)
	}

	req, err := a.ToRequest(submitter(), payload)
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	if req.WorkflowKey != "Medical Certificate" {
		t.Errorf("ToRequest() key = %q, want the form name", req.WorkflowKey)
	}
	if req.Fields["clinic"] != "Campus Health" {
		t.Errorf("ToRequest() should flatten form values into fields, got %v", req.Fields)
	}
	if req.Fields["formName"] != "Medical Certificate" {
		t.Errorf("ToRequest() formName = %v", req.Fields["formName"])
	}

	if _, err := a.ToRequest(submitter(), map[string]interface{}{"values": map[string]interface{}{}}); !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("ToRequest() without form_name error = %v, want ErrValidation", err)
	}
}

func TestExcuseAdapter_RoundTrip(t *testing.T) {
	a := NewExcuseAdapter()

	req, err := a.ToRequest(submitter(), map[string]interface{}{
		"matric_no": "CSC/19/001", "course_code": "CSC301",
		"date_missed": "2026-03-10", "reason": "hospital admission",
	})
	if err != nil {
		t.Fatalf("ToRequest() error = %v", err)
	}
	req.ID = "req-1"
	req.Status = "Pending Staff Review"

	rec := a.FromRequest(req)
	if rec.ID != "req-1" || rec.CourseCode != "CSC301" || rec.MatricNo != "CSC/19/001" {
		t.Errorf("FromRequest() = %+v", rec)
	}
	if rec.StudentName != "Ada Obi" || rec.Status != "Pending Staff Review" {
		t.Errorf("FromRequest() = %+v", rec)
	}
}
