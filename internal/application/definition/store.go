// Package definition resolves the approval chain for a workflow key. There
// is exactly one resolution path in the system; call sites never carry their
// own stage lists.
package definition

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Store resolves workflow definitions with fallback to the built-in default
// chains. Availability is preferred over configurability: a store failure or
// an invalid stored definition is logged and absorbed, never surfaced to the
// caller as a hard failure.
type Store struct {
	repo   port.DefinitionRepository
	logger *zap.Logger
}

// NewStore creates a new definition store.
func NewStore(repo port.DefinitionRepository, logger *zap.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Resolve returns the definition for a workflow key. The key is the request
// type name, except for dynamic form submissions where it is the form's
// name. Each call returns an independent snapshot; a single workflow
// operation resolves once and never re-reads mid-operation.
func (s *Store) Resolve(ctx context.Context, requestType request.Type, key string) workflow.Definition {
	def, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, workflow.ErrNotFound) {
			s.logger.Warn("Definition lookup failed, using default chain",
				zap.String("key", key),
				zap.Error(err))
		}
		return workflow.DefaultDefinition(requestType.String(), key)
	}

	if err := def.Validate(); err != nil {
		s.logger.Warn("Configured definition is invalid, using default chain",
			zap.String("key", key),
			zap.Error(err))
		return workflow.DefaultDefinition(requestType.String(), key)
	}

	return *def
}
