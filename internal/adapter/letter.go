package adapter

import (
	"github.com/campusflow/approval-engine/internal/domain/request"
)

// LetterRecord is the stored shape of a generic letter request.
type LetterRecord struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Recipient  string `json:"recipient,omitempty"`

	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// LetterAdapter maps letter requests onto the generic workflow contract.
type LetterAdapter struct{}

// NewLetterAdapter creates a new letter adapter.
func NewLetterAdapter() *LetterAdapter {
	return &LetterAdapter{}
}

// Type returns the discriminant this adapter serves.
func (a *LetterAdapter) Type() request.Type {
	return request.TypeLetter
}

// WorkflowKey returns the fixed definition key for letters.
func (a *LetterAdapter) WorkflowKey(map[string]interface{}) string {
	return request.TypeLetter.String()
}

// ToRequest validates the payload and maps it onto the generic shape.
func (a *LetterAdapter) ToRequest(user request.User, payload map[string]interface{}) (*request.Request, error) {
	if err := requireFields(payload, "subject", "body"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"subject":   stringField(payload, "subject"),
		"body":      stringField(payload, "body"),
		"recipient": stringField(payload, "recipient"),
	}
	return newRequest(user, request.TypeLetter, a.WorkflowKey(payload), fields), nil
}

// FromRequest maps the generic shape back onto the letter record.
func (a *LetterAdapter) FromRequest(req *request.Request) *LetterRecord {
	return &LetterRecord{
		ID:              req.ID,
		SenderID:        req.SubmitterID,
		SenderName:      req.SubmitterName,
		Subject:         fieldString(req, "subject"),
		Body:            fieldString(req, "body"),
		Recipient:       fieldString(req, "recipient"),
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
	}
}
