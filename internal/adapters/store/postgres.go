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

// PostgresStore implements ports.MatrixStore against PostgreSQL.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx ports.MatrixTx) error) error {
	if s.DB == nil {
		return errors.New("matrix store: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("matrix store: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("matrix store: commit: %w", err)
	}

	return nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) UpsertLocation(ctx context.Context, rec domain.LocationRecord) error {
	if strings.TrimSpace(rec.Label) == "" {
		return errors.New("upsert location: label must be non-empty")
	}

	lat, lng := coordValues(rec.Coords)

	q := `
	INSERT INTO locations (label, canonical_form, lat, lng)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (label) DO UPDATE
	SET canonical_form = EXCLUDED.canonical_form,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`

	if _, err := t.tx.ExecContext(ctx, q, rec.Label, rec.CanonicalForm, lat, lng); err != nil {
		return fmt.Errorf("upsert location %q: %w", rec.Label, err)
	}

	return nil
}

func (t *postgresTx) UpsertDistance(ctx context.Context, rec domain.DistanceRecord) error {
	if rec.OriginLabel == "" || rec.DestinationLabel == "" {
		return errors.New("upsert distance: origin and destination labels must be non-empty")
	}

	q := `
	INSERT INTO distances (origin_label, destination_label, fingerprint, distance_km, duration_min, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (origin_label, destination_label, fingerprint) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_min = EXCLUDED.duration_min,
		fetched_at = EXCLUDED.fetched_at;
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

func coordValues(c *domain.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}
