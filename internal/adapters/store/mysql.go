package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/ports"
)

// MySQLStore implements ports.MatrixStore against MySQL.
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

func (s *MySQLStore) WithinTx(ctx context.Context, fn func(tx ports.MatrixTx) error) error {
	if s.DB == nil {
		return errors.New("matrix store: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("matrix store: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&mysqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("matrix store: commit: %w", err)
	}

	return nil
}

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) UpsertLocation(ctx context.Context, rec domain.LocationRecord) error {
	if strings.TrimSpace(rec.Label) == "" {
		return errors.New("upsert location: label must be non-empty")
	}

	lat, lng := coordValues(rec.Coords)

	q := `
	INSERT INTO locations (label, canonical_form, lat, lng)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		canonical_form = VALUES(canonical_form),
		lat = VALUES(lat),
		lng = VALUES(lng);
	`

	if _, err := t.tx.ExecContext(ctx, q, rec.Label, rec.CanonicalForm, lat, lng); err != nil {
		return fmt.Errorf("upsert location %q: %w", rec.Label, err)
	}

	return nil
}

func (t *mysqlTx) UpsertDistance(ctx context.Context, rec domain.DistanceRecord) error {
	if rec.OriginLabel == "" || rec.DestinationLabel == "" {
		return errors.New("upsert distance: origin and destination labels must be non-empty")
	}

	q := `
	INSERT INTO distances (origin_label, destination_label, fingerprint, distance_km, duration_min, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		distance_km = VALUES(distance_km),
		duration_min = VALUES(duration_min),
		fetched_at = VALUES(fetched_at);
	`

	_, err := t.tx.ExecContext(ctx, q,
		rec.OriginLabel, rec.DestinationLabel, rec.Fingerprint,
		rec.DistanceKm, rec.DurationMin, rec.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert distance %q -> %q: %w", rec.OriginLabel, rec.DestinationLabel, err)
	}

	return nil
}
