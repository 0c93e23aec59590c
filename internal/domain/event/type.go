package event

// Type identifies the type of domain event.
type Type string

const (
	TypeRequestSubmitted    Type = "request.submitted"
	TypeStageAdvanced       Type = "request.stage_advanced"
	TypeRequestAutoApproved Type = "request.auto_approved"
	TypeRequestTerminal     Type = "request.terminal"
)

// String returns the string representation of the event type.
func (t Type) String() string {
	return string(t)
}
