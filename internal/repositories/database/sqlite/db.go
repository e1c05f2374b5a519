// Package sqlite is an embedded store for jobs and their closing records,
// used by the closingctl CLI and for running the closing flow without Postgres.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Money columns are TEXT so decimals round-trip exactly.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			technician_id TEXT,
			lead_source_id TEXT,
			locked INTEGER NOT NULL DEFAULT 0,
			closed_at TEXT,
			created_at TEXT NOT NULL,
			created_by TEXT NOT NULL,
			last_updated_at TEXT NOT NULL,
			last_updated_by TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_tenant ON jobs(tenant_id)`,

		`CREATE TABLE IF NOT EXISTS job_closings (
			job_id TEXT PRIMARY KEY,
			closing_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			inputs TEXT NOT NULL,
			advisory TEXT NOT NULL,
			total_amount TEXT NOT NULL,
			cash_total TEXT NOT NULL,
			credit_total TEXT NOT NULL,
			check_total TEXT NOT NULL,
			zelle_total TEXT NOT NULL,
			total_fees TEXT NOT NULL,
			total_parts TEXT NOT NULL,
			adjusted_total TEXT NOT NULL,
			tech_percent TEXT NOT NULL,
			lead_percent TEXT NOT NULL,
			company_percent TEXT NOT NULL,
			tech_profit TEXT NOT NULL,
			lead_profit TEXT NOT NULL,
			company_profit_base TEXT NOT NULL,
			company_profit_display TEXT NOT NULL,
			tech_profit_display TEXT NOT NULL,
			lead_profit_display TEXT NOT NULL,
			tech_balance TEXT NOT NULL,
			lead_balance TEXT NOT NULL,
			company_balance TEXT NOT NULL,
			sum_check TEXT NOT NULL,
			held_by_technician TEXT NOT NULL,
			held_by_lead_source TEXT NOT NULL,
			held_by_company TEXT NOT NULL,
			fee_credited_to_technician TEXT NOT NULL,
			fee_credited_to_lead_source TEXT NOT NULL,
			fee_credited_to_company TEXT NOT NULL,
			closed_at TEXT NOT NULL,
			closed_by_user_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			created_by TEXT NOT NULL,
			last_updated_at TEXT NOT NULL,
			last_updated_by TEXT NOT NULL,
			FOREIGN KEY (job_id) REFERENCES jobs(job_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_job_closings_tenant_closed ON job_closings(tenant_id, closed_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
