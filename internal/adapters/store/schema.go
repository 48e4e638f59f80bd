package store

import (
	"database/sql"
	"errors"
	"fmt"

	"distance-matrix-service/internal/platform/db"
)

// Initialize the locations/distances schema for the selected engine.
// Owned by cmd/dbtool; the stores themselves never issue DDL.
func InitSchema(sqlDB *sql.DB, engine string) error {
	if sqlDB == nil {
		return errors.New("init schema: DB is nil")
	}

	statements, err := schemaStatements(engine)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func schemaStatements(engine string) ([]string, error) {
	switch engine {
	case db.EnginePostgres:
		return []string{
			`
			CREATE TABLE IF NOT EXISTS locations (
				id BIGSERIAL PRIMARY KEY,
				label TEXT NOT NULL UNIQUE,
				canonical_form TEXT NOT NULL,
				lat DOUBLE PRECISION,
				lng DOUBLE PRECISION
			);
			`,
			`
			CREATE TABLE IF NOT EXISTS distances (
				id BIGSERIAL PRIMARY KEY,
				origin_label TEXT NOT NULL REFERENCES locations(label),
				destination_label TEXT NOT NULL REFERENCES locations(label),
				fingerprint TEXT NOT NULL,
				distance_km DOUBLE PRECISION NOT NULL,
				duration_min DOUBLE PRECISION NOT NULL,
				fetched_at TIMESTAMPTZ NOT NULL,
				UNIQUE (origin_label, destination_label, fingerprint)
			);
			`,
			`
			CREATE INDEX IF NOT EXISTS idx_distances_fingerprint
			ON distances(fingerprint);
			`,
		}, nil
	case db.EngineSQLite:
		return []string{
			`
			CREATE TABLE IF NOT EXISTS locations (
				id INTEGER PRIMARY KEY,
				label TEXT NOT NULL UNIQUE,
				canonical_form TEXT NOT NULL,
				lat REAL,
				lng REAL
			);
			`,
			`
			CREATE TABLE IF NOT EXISTS distances (
				id INTEGER PRIMARY KEY,
				origin_label TEXT NOT NULL REFERENCES locations(label),
				destination_label TEXT NOT NULL REFERENCES locations(label),
				fingerprint TEXT NOT NULL,
				distance_km REAL NOT NULL,
				duration_min REAL NOT NULL,
				fetched_at TIMESTAMP NOT NULL,
				UNIQUE (origin_label, destination_label, fingerprint)
			);
			`,
			`
			CREATE INDEX IF NOT EXISTS idx_distances_fingerprint
			ON distances(fingerprint);
			`,
		}, nil
	case db.EngineMySQL:
		// MySQL needs a key length for unique text columns and has no
		// CREATE INDEX IF NOT EXISTS, so keys are declared inline.
		return []string{
			`
			CREATE TABLE IF NOT EXISTS locations (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				label VARCHAR(255) NOT NULL UNIQUE,
				canonical_form VARCHAR(512) NOT NULL,
				lat DOUBLE,
				lng DOUBLE
			);
			`,
			`
			CREATE TABLE IF NOT EXISTS distances (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				origin_label VARCHAR(255) NOT NULL,
				destination_label VARCHAR(255) NOT NULL,
				fingerprint VARCHAR(64) NOT NULL,
				distance_km DOUBLE NOT NULL,
				duration_min DOUBLE NOT NULL,
				fetched_at DATETIME NOT NULL,
				UNIQUE KEY uq_pair_fingerprint (origin_label, destination_label, fingerprint),
				KEY idx_distances_fingerprint (fingerprint),
				FOREIGN KEY (origin_label) REFERENCES locations(label),
				FOREIGN KEY (destination_label) REFERENCES locations(label)
			);
			`,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database engine %q", engine)
	}
}
