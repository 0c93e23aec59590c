package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event emitted after a successful workflow
// transition. Delivery to end users is entirely the subscriber's concern;
// the engine never blocks on or retries it.
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	RequestID     string                 `json:"request_id"`
	RequestType   string                 `json:"request_type"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a new domain event with a generated ID and timestamp.
func New(eventType Type, requestID, requestType string, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		RequestID:     requestID,
		RequestType:   requestType,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewWithCorrelation creates an event linked to a correlation chain.
func NewWithCorrelation(eventType Type, requestID, requestType string, payload map[string]interface{}, correlationID string) *Event {
	e := New(eventType, requestID, requestType, payload)
	e.CorrelationID = correlationID
	return e
}

// GetPayloadString retrieves a string value from the payload.
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
