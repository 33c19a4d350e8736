// Package history keeps past run verdicts and the quarantine list in a SQL
// database. MySQL and SQLite are supported through database/sql.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"swiftcheck/internal/domain"
)

// Drivers supported by the store
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Store reads and writes run history
type Store struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// Open connects to the history database. For MySQL the schema database is
// created first when it does not exist.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dsn == "" {
		return nil, fmt.Errorf("history: empty %s DSN", driver)
	}

	switch driver {
	case DriverSQLite:
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
	case DriverMySQL:
		if err := ensureDatabase(ctx, dsn); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("history: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if driver == DriverSQLite {
		// One writer keeps SQLite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	return &Store{db: db, driver: driver, logger: logger.Named("history")}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores the run summary and every verdict of report
func (s *Store) SaveRun(ctx context.Context, report *domain.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m := report.Meta
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, target, started_at, duration_ms, total, passed, failed, errored) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Target, m.Timestamp, int64(m.DurationSeconds*1000), m.TotalCases, m.Passed, m.Failed, m.Errored)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", m.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verdicts (run_id, case_id, status, cause, actual, attempts, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare verdicts: %w", err)
	}
	defer stmt.Close()

	for _, e := range report.Cases {
		if _, err := stmt.ExecContext(ctx, m.RunID, e.ID, string(e.Verdict), e.Cause, e.Actual, e.Attempts, e.DurationMs); err != nil {
			return fmt.Errorf("insert verdict %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", m.RunID, err)
	}
	s.logger.Debug("run saved", zap.String("run", m.RunID), zap.Int("cases", len(report.Cases)))
	return nil
}

// Entry is one quarantined case
type Entry struct {
	CaseID    string
	Reason    string
	CreatedAt time.Time
}

// Quarantine adds or updates a quarantined case
func (s *Store) Quarantine(ctx context.Context, caseID, reason string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quarantine WHERE case_id = ?`, caseID); err != nil {
		return fmt.Errorf("quarantine %s: %w", caseID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quarantine (case_id, reason, created_at) VALUES (?, ?, ?)`,
		caseID, reason, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("quarantine %s: %w", caseID, err)
	}
	return tx.Commit()
}

// Release removes a case from quarantine. Releasing an unknown id is not an error.
func (s *Store) Release(ctx context.Context, caseID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM quarantine WHERE case_id = ?`, caseID); err != nil {
		return fmt.Errorf("release %s: %w", caseID, err)
	}
	return nil
}

// Quarantined lists quarantined cases ordered by id
func (s *Store) Quarantined(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT case_id, reason, created_at FROM quarantine ORDER BY case_id`)
	if err != nil {
		return nil, fmt.Errorf("list quarantine: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.CaseID, &e.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan quarantine: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// QuarantinedIDs returns only the ids of quarantined cases
func (s *Store) QuarantinedIDs(ctx context.Context) ([]string, error) {
	entries, err := s.Quarantined(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.CaseID
	}
	return ids, nil
}

// Flaky returns ids whose verdict status differed across the last window runs
func (s *Store) Flaky(ctx context.Context, window int) ([]string, error) {
	if window < 2 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id FROM verdicts
		WHERE run_id IN (SELECT id FROM (SELECT id FROM runs ORDER BY seq DESC LIMIT ?) recent)
		GROUP BY case_id
		HAVING COUNT(DISTINCT status) > 1
		ORDER BY case_id`, window)
	if err != nil {
		return nil, fmt.Errorf("query flaky: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan flaky: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ensureDatabase creates the database named in a MySQL DSN if it is missing
func ensureDatabase(ctx context.Context, dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("parse mysql dsn: %w", err)
	}
	name := cfg.DBName
	if name == "" {
		return fmt.Errorf("mysql dsn has no database name")
	}

	// Connect to MySQL server (without specifying database)
	cfg.DBName = ""
	db, err := sql.Open(DriverMySQL, cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, db, name)
	if err != nil {
		return fmt.Errorf("failed to check database %s: %w", name, err)
	}
	if exists {
		return nil
	}
	if err := createDatabase(ctx, db, name); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

// databaseExists checks if a database exists
func databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

// createDatabase creates a new database
func createDatabase(ctx context.Context, db *sql.DB, name string) error {
	if !isValidDatabaseName(name) {
		return fmt.Errorf("invalid database name: %s", name)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	return err
}

// isValidDatabaseName rejects names that could break out of the quoted identifier
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalid := []string{"'", "\"", "`", ";", "--", "/*", "*/", "DROP", "DELETE", "TRUNCATE"}
	upper := strings.ToUpper(name)
	for _, s := range invalid {
		if strings.Contains(upper, s) {
			return false
		}
	}
	return true
}
