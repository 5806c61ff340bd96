package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

type dialect struct {
	sqlName    string // database/sql driver name
	defaultDSN string
	schema     []string
}

var dialects = map[Driver]dialect{
	DriverSQLite: {
		sqlName:    "sqlite", // modernc
		defaultDSN: "file:creditmap.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)",
		schema:     schemaSQLite,
	},
	DriverPostgres: {
		sqlName:    "pgx", // pgx stdlib
		defaultDSN: "postgres://localhost:5432/creditmap?sslmode=disable",
		schema:     schemaPostgres,
	},
}

// Open connects, pings and creates the prediction history and sample tables
// when missing. An empty dsn selects the driver's local default.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		dsn = d.defaultDSN
	}

	db, err := sql.Open(d.sqlName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// ensureSchema runs each statement on its own; every one is IF NOT EXISTS.
func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	for i, stmt := range dialects[driver].schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return nil
}

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,              -- loan | credit
  request_json TEXT NOT NULL,
  result REAL NOT NULL,            -- probability or raw score
  category TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS predictions_kind_created ON predictions(kind, created_at)`,
	`CREATE TABLE IF NOT EXISTS samples (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  credit_score REAL NOT NULL,
  annual_income REAL NOT NULL,
  approved BOOLEAN NOT NULL
)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  request_json TEXT NOT NULL,
  result DOUBLE PRECISION NOT NULL,
  category TEXT NOT NULL,
  created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS predictions_kind_created ON predictions(kind, created_at)`,
	`CREATE TABLE IF NOT EXISTS samples (
  id BIGSERIAL PRIMARY KEY,
  credit_score DOUBLE PRECISION NOT NULL,
  annual_income DOUBLE PRECISION NOT NULL,
  approved BOOLEAN NOT NULL
)`,
}
