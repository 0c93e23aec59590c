// Package adapter maps each concrete request kind onto the generic workflow
// contract. All per-type field knowledge lives here; the engine never
// branches on request type.
package adapter

import (
	"fmt"
	"strings"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Adapter is the per-request-type mapping between a submitted record shape
// and the generic Request. WorkflowKey is the definition lookup key; for
// every kind except dynamic forms it equals the type name.
type Adapter interface {
	Type() request.Type

	// WorkflowKey derives the definition key from the submitted payload.
	WorkflowKey(payload map[string]interface{}) string

	// ToRequest validates the payload and maps it onto the generic shape,
	// normalizing the fields the auto-approval evaluator sees.
	ToRequest(user request.User, payload map[string]interface{}) (*request.Request, error)
}

// Registry selects an adapter by the request's discriminant type.
type Registry struct {
	adapters map[request.Type]Adapter
}

// NewRegistry creates a registry with all built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[request.Type]Adapter)}
	for _, a := range []Adapter{
		NewExcuseAdapter(),
		NewLeaveAdapter(),
		NewLetterAdapter(),
		NewFormAdapter(),
	} {
		r.adapters[a.Type()] = a
	}
	return r
}

// ForType returns the adapter for a request type.
func (r *Registry) ForType(t request.Type) (Adapter, error) {
	a, ok := r.adapters[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown request type %q", workflow.ErrValidation, t)
	}
	return a, nil
}

// stringField extracts a trimmed string from the payload.
func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// requireFields returns a validation error naming the first missing field.
func requireFields(payload map[string]interface{}, keys ...string) error {
	for _, k := range keys {
		if stringField(payload, k) == "" {
			return fmt.Errorf("%w: field %q is required", workflow.ErrValidation, k)
		}
	}
	return nil
}

// newRequest fills the submitter identity and the common envelope.
func newRequest(user request.User, t request.Type, key string, fields map[string]interface{}) *request.Request {
	return &request.Request{
		RequestType:   t,
		WorkflowKey:   key,
		SubmitterID:   user.ID,
		SubmitterName: user.Name,
		SubmitterRole: user.Role,
		Fields:        fields,
	}
}
