package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/port"
	"github.com/campusflow/approval-engine/internal/domain/rule"
)

// RuleRepository implements port.RuleRepository.
type RuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sql.DB, logger *zap.Logger) port.RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

const ruleColumns = `id, name, workflow_key, conditions, priority, is_active, created_at, updated_at`

// ListActiveByKey returns the active rules for a workflow key ordered by
// descending priority, the order the evaluator applies them in.
func (r *RuleRepository) ListActiveByKey(ctx context.Context, key string) ([]rule.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM auto_approval_rules
		WHERE workflow_key = ? AND is_active = 1
		ORDER BY priority DESC, id ASC
	`
	return r.list(ctx, query, key)
}

// List returns all rules.
func (r *RuleRepository) List(ctx context.Context) ([]rule.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM auto_approval_rules ORDER BY workflow_key, priority DESC`
	return r.list(ctx, query)
}

// Save upserts a rule. Rejects rules that would never match, such as an
// empty condition list or an operator the evaluator does not know.
func (r *RuleRepository) Save(ctx context.Context, rl *rule.Rule) error {
	if err := rl.Validate(); err != nil {
		return err
	}
	conditions, err := json.Marshal(rl.Conditions)
	if err != nil {
		return fmt.Errorf("marshal rule conditions: %w", err)
	}

	if rl.ID == 0 {
		query := `
			INSERT INTO auto_approval_rules (name, workflow_key, conditions, priority, is_active)
			VALUES (?, ?, ?, ?, ?)
		`
		result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
			rl.Name, rl.WorkflowKey, string(conditions), rl.Priority, rl.IsActive)
		if err != nil {
			r.logger.Error("Failed to create rule", zap.String("name", rl.Name), zap.Error(err))
			return fmt.Errorf("failed to create rule: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		rl.ID = id
		return nil
	}

	query := `
		UPDATE auto_approval_rules
		SET name = ?, workflow_key = ?, conditions = ?, priority = ?,
			is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		rl.Name, rl.WorkflowKey, string(conditions), rl.Priority, rl.IsActive, rl.ID); err != nil {
		r.logger.Error("Failed to update rule", zap.Int64("id", rl.ID), zap.Error(err))
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

func (r *RuleRepository) list(ctx context.Context, query string, args ...interface{}) ([]rule.Rule, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		var rl rule.Rule
		var conditions string
		if err := rows.Scan(
			&rl.ID,
			&rl.Name,
			&rl.WorkflowKey,
			&conditions,
			&rl.Priority,
			&rl.IsActive,
			&rl.CreatedAt,
			&rl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(conditions), &rl.Conditions); err != nil {
			// A malformed rule is skipped rather than failing every
			// submission for its workflow key.
			r.logger.Warn("Skipping rule with malformed conditions",
				zap.Int64("id", rl.ID),
				zap.Error(err))
			continue
		}
		rules = append(rules, rl)
	}
	return rules, rows.Err()
}

// Verify interface compliance
var _ port.RuleRepository = (*RuleRepository)(nil)
