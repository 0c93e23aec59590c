package database

import (
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Migration represents one versioned schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the full ordered schema history. SQL lives in the binary so
// a deployment never depends on a migrations directory being shipped
// alongside it.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "requests",
		SQL: `
			CREATE TABLE IF NOT EXISTS requests (
				id TEXT PRIMARY KEY,
				request_type TEXT NOT NULL,
				workflow_key TEXT NOT NULL,
				submitter_id TEXT NOT NULL,
				submitter_name TEXT NOT NULL DEFAULT '',
				submitter_role TEXT NOT NULL,
				status TEXT NOT NULL,
				current_stage_index INTEGER NOT NULL DEFAULT 0,
				current_approver_role TEXT NOT NULL DEFAULT '',
				rejection_reason TEXT,
				submitted_at DATETIME NOT NULL,
				fields TEXT NOT NULL DEFAULT '{}',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_requests_submitter ON requests(submitter_id);
			CREATE INDEX IF NOT EXISTS idx_requests_approver ON requests(current_approver_role, status);
		`,
	},
	{
		Version: 2,
		Name:    "approval_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS approval_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				request_id TEXT NOT NULL REFERENCES requests(id),
				stage_index INTEGER NOT NULL,
				approver_role TEXT NOT NULL DEFAULT '',
				approver_id TEXT NOT NULL,
				approver_name TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				comment TEXT NOT NULL DEFAULT '',
				timestamp DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_approval_events_request ON approval_events(request_id);
		`,
	},
	{
		Version: 3,
		Name:    "workflow_definitions",
		SQL: `
			CREATE TABLE IF NOT EXISTS workflow_definitions (
				workflow_key TEXT PRIMARY KEY,
				steps TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 4,
		Name:    "auto_approval_rules",
		SQL: `
			CREATE TABLE IF NOT EXISTS auto_approval_rules (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				workflow_key TEXT NOT NULL,
				conditions TEXT NOT NULL,
				priority INTEGER NOT NULL DEFAULT 0,
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_rules_key_active ON auto_approval_rules(workflow_key, is_active);
		`,
	},
	{
		Version: 5,
		Name:    "notifications",
		SQL: `
			CREATE TABLE IF NOT EXISTS notifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				request_id TEXT NOT NULL,
				request_type TEXT NOT NULL DEFAULT '',
				event_type TEXT NOT NULL,
				recipient TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'PENDING',
				sent_at DATETIME,
				error_message TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status);
		`,
	},
}

// Migrator applies pending schema migrations.
type Migrator struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator.
func NewMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Run applies all pending migrations in version order, each inside its own
// transaction.
func (m *Migrator) Run() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	pending := make([]Migration, 0, len(migrations))
	for _, mg := range migrations {
		if !applied[mg.Version] {
			pending = append(pending, mg)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })

	for _, mg := range pending {
		m.logger.Info("Applying migration",
			zap.Int("version", mg.Version),
			zap.String("name", mg.Name))
		if err := m.apply(mg); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", mg.Version, err)
		}
	}

	m.logger.Info("Database migrations completed", zap.Int("applied", len(pending)))
	return nil
}

func (m *Migrator) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := m.db.Exec(query)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(mg Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(mg.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		mg.Version, mg.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
