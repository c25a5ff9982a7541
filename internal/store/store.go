package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

// Store persists searched properties, their price history and the raw
// provider payloads. Queries use $N placeholders in ascending order, which
// both drivers accept.
type Store struct {
	DB     *sql.DB
	Driver string
}

// Open connects with "pgx" (Postgres) or "sqlite3".
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "pgx", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		// one writer; sqlite serializes anyway and this avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	return &Store{DB: db, Driver: driver}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

type dialect struct {
	json, float, ts string
}

func (s *Store) dialect() dialect {
	if s.Driver == "sqlite3" {
		return dialect{json: "TEXT", float: "REAL", ts: "TIMESTAMP"}
	}
	return dialect{json: "JSONB", float: "DOUBLE PRECISION", ts: "TIMESTAMPTZ"}
}

func (s *Store) Migrate(ctx context.Context) error {
	d := s.dialect()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id               TEXT PRIMARY KEY,
			property_key     TEXT NOT NULL,
			address          TEXT NOT NULL,
			zip              TEXT NOT NULL,
			price            BIGINT NOT NULL,
			beds             ` + d.float + `,
			baths            ` + d.float + `,
			sqft             INTEGER,
			lot_size         INTEGER,
			year_built       INTEGER,
			property_type    TEXT NOT NULL,
			days_on_market   INTEGER,
			price_drop       BIGINT NOT NULL,
			estimated_value  BIGINT,
			last_sold_price  BIGINT,
			last_sold_date   TEXT,
			url              TEXT NOT NULL,
			image_url        TEXT NOT NULL,
			provider         TEXT NOT NULL,
			motivation_score INTEGER,
			score_factors    ` + d.json + ` NOT NULL,
			first_seen_at    ` + d.ts + ` NOT NULL,
			updated_at       ` + d.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_key ON properties(property_key)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_zip ON properties(zip, updated_at)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id           TEXT PRIMARY KEY,
			property_id  TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			price        BIGINT NOT NULL,
			observed_at  ` + d.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_property ON price_history(property_id, observed_at)`,
		`CREATE TABLE IF NOT EXISTS provider_raw_snapshots (
			id             TEXT PRIMARY KEY,
			provider       TEXT NOT NULL,
			location       TEXT NOT NULL,
			payload        ` + d.json + ` NOT NULL,
			payload_sha256 TEXT NOT NULL,
			fetched_at     ` + d.ts + ` NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_snapshots_sha ON provider_raw_snapshots(provider, payload_sha256)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_provider ON provider_raw_snapshots(provider, location, fetched_at)`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w: %s", err, strings.SplitN(strings.TrimSpace(q), "(", 2)[0])
		}
	}
	return nil
}
