package history

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Migrator creates the history schema
type Migrator interface {
	Migrate(ctx context.Context) error
}

var schema = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			target TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			errored INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			run_id TEXT NOT NULL,
			case_id TEXT NOT NULL,
			status TEXT NOT NULL,
			cause TEXT NOT NULL DEFAULT '',
			actual TEXT NOT NULL DEFAULT '',
			attempts INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, case_id)
		)`,
		`CREATE TABLE IF NOT EXISTS quarantine (
			case_id TEXT PRIMARY KEY,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	},
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS runs (
			seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			target VARCHAR(512) NOT NULL,
			started_at VARCHAR(40) NOT NULL,
			duration_ms BIGINT NOT NULL,
			total INT NOT NULL,
			passed INT NOT NULL,
			failed INT NOT NULL,
			errored INT NOT NULL
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			run_id VARCHAR(64) NOT NULL,
			case_id VARCHAR(128) NOT NULL,
			status VARCHAR(16) NOT NULL,
			cause VARCHAR(64) NOT NULL DEFAULT '',
			actual TEXT NOT NULL,
			attempts INT NOT NULL,
			duration_ms BIGINT NOT NULL,
			PRIMARY KEY (run_id, case_id)
		) CHARACTER SET utf8mb4`,
		`CREATE TABLE IF NOT EXISTS quarantine (
			case_id VARCHAR(128) NOT NULL PRIMARY KEY,
			reason TEXT NOT NULL,
			created_at VARCHAR(40) NOT NULL
		) CHARACTER SET utf8mb4`,
	},
}

// Migrate creates the tables if they do not exist. It is safe to run twice.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema[s.driver] {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	s.logger.Debug("schema ready", zap.String("driver", s.driver))
	return nil
}
