package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// DefinitionRepository implements port.DefinitionRepository. Rows are
// written by the admin configuration surface and only read by the engine.
type DefinitionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDefinitionRepository creates a new definition repository.
func NewDefinitionRepository(db *sql.DB, logger *zap.Logger) port.DefinitionRepository {
	return &DefinitionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByKey retrieves the configured definition for a workflow key.
func (r *DefinitionRepository) GetByKey(ctx context.Context, key string) (*workflow.Definition, error) {
	query := `SELECT workflow_key, steps FROM workflow_definitions WHERE workflow_key = ?`

	var def workflow.Definition
	var steps string
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, key).Scan(&def.Key, &steps)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: workflow definition %q", workflow.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow definition: %w", err)
	}

	if err := json.Unmarshal([]byte(steps), &def.Steps); err != nil {
		return nil, fmt.Errorf("%w: definition %q has malformed steps: %v", workflow.ErrConfiguration, key, err)
	}
	return &def, nil
}

// Save upserts a definition after validating its chain structure.
func (r *DefinitionRepository) Save(ctx context.Context, def *workflow.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	steps, err := json.Marshal(def.Steps)
	if err != nil {
		return fmt.Errorf("marshal definition steps: %w", err)
	}

	query := `
		INSERT INTO workflow_definitions (workflow_key, steps)
		VALUES (?, ?)
		ON CONFLICT(workflow_key) DO UPDATE SET
			steps = excluded.steps,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, def.Key, string(steps)); err != nil {
		r.logger.Error("Failed to save workflow definition",
			zap.String("key", def.Key),
			zap.Error(err))
		return fmt.Errorf("failed to save workflow definition: %w", err)
	}
	return nil
}

// List returns all configured definitions.
func (r *DefinitionRepository) List(ctx context.Context) ([]*workflow.Definition, error) {
	query := `SELECT workflow_key, steps FROM workflow_definitions ORDER BY workflow_key`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow definitions: %w", err)
	}
	defer rows.Close()

	var defs []*workflow.Definition
	for rows.Next() {
		var def workflow.Definition
		var steps string
		if err := rows.Scan(&def.Key, &steps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(steps), &def.Steps); err != nil {
			return nil, fmt.Errorf("%w: definition %q has malformed steps: %v", workflow.ErrConfiguration, def.Key, err)
		}
		defs = append(defs, &def)
	}
	return defs, rows.Err()
}

// Delete removes a configured definition; requests fall back to the
// built-in chain afterwards.
func (r *DefinitionRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM workflow_definitions WHERE workflow_key = ?`
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete workflow definition: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.DefinitionRepository = (*DefinitionRepository)(nil)
