package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=savingsplan sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// schema creates the reference-table storage. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tax_tables (
		tax_year                INTEGER PRIMARY KEY,
		hsa_self_only           NUMERIC(12, 2) NOT NULL,
		hsa_family              NUMERIC(12, 2) NOT NULL,
		hsa_catch_up            NUMERIC(12, 2) NOT NULL,
		employer_plan           NUMERIC(12, 2) NOT NULL,
		employer_catch_up       NUMERIC(12, 2) NOT NULL,
		employer_super_catch_up NUMERIC(12, 2) NOT NULL,
		ira                     NUMERIC(12, 2) NOT NULL,
		ira_catch_up            NUMERIC(12, 2) NOT NULL,
		retirement_age          INTEGER NOT NULL,
		expected_return         NUMERIC(8, 6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tax_brackets (
		tax_year      INTEGER NOT NULL REFERENCES tax_tables (tax_year) ON DELETE CASCADE,
		filing_status TEXT NOT NULL,
		position      INTEGER NOT NULL,
		min_income    NUMERIC(14, 2) NOT NULL,
		max_income    NUMERIC(14, 2),
		rate          INTEGER NOT NULL,
		PRIMARY KEY (tax_year, filing_status, position)
	)`,
	`CREATE TABLE IF NOT EXISTS phaseout_ranges (
		tax_year      INTEGER NOT NULL REFERENCES tax_tables (tax_year) ON DELETE CASCADE,
		filing_status TEXT NOT NULL,
		account_type  TEXT NOT NULL,
		range_start   NUMERIC(14, 2) NOT NULL,
		range_end     NUMERIC(14, 2) NOT NULL,
		PRIMARY KEY (tax_year, filing_status, account_type)
	)`,
}

// EnsureSchema creates the tables used by the repositories if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
