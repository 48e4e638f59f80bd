package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/platform/obs"
	"distance-matrix-service/internal/ports"
)

// SyncMatrix maps a built matrix into the relational schema: every labeled
// location is upserted first, then every successful cell becomes a distance
// row keyed by (origin label, destination label, fingerprint). Sentinel
// cells are skipped; no distance row is written for failed pairs.
//
// All writes run inside one transaction, so a mid-write failure leaves no
// partial location or distance rows visible. Re-running with the same
// fingerprint upserts instead of duplicating.
func SyncMatrix(
	ctx context.Context,
	store ports.MatrixStore,
	m *domain.DistanceMatrix,
	origins, destinations []domain.Location,
	fp string,
	fetchedAt time.Time,
) (err error) {
	defer obs.Time(ctx, "pipeline.SyncMatrix")(&err)

	if store == nil {
		return errors.New("sync matrix: store is nil")
	}
	if m == nil {
		return errors.New("sync matrix: matrix is nil")
	}

	rows, cols := m.Dimensions()
	if len(origins) != rows || len(destinations) != cols {
		return fmt.Errorf(
			"sync matrix: location counts (%d, %d) do not match matrix dimensions (%d, %d)",
			len(origins), len(destinations), rows, cols,
		)
	}

	return store.WithinTx(ctx, func(tx ports.MatrixTx) error {
		for _, loc := range origins {
			if err := tx.UpsertLocation(ctx, locationRecord(loc)); err != nil {
				return fmt.Errorf("sync matrix: %w", err)
			}
		}
		for _, loc := range destinations {
			if err := tx.UpsertLocation(ctx, locationRecord(loc)); err != nil {
				return fmt.Errorf("sync matrix: %w", err)
			}
		}

		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				cell := m.Cells[r][c]
				if !cell.OK {
					continue
				}

				rec := domain.DistanceRecord{
					OriginLabel:      m.OriginLabels[r],
					DestinationLabel: m.DestinationLabels[c],
					Fingerprint:      fp,
					DistanceKm:       cell.DistanceKm,
					DurationMin:      cell.DurationMin,
					FetchedAt:        fetchedAt,
				}
				if err := tx.UpsertDistance(ctx, rec); err != nil {
					return fmt.Errorf("sync matrix: %w", err)
				}
			}
		}

		return nil
	})
}

func locationRecord(l domain.Location) domain.LocationRecord {
	rec := domain.LocationRecord{
		Label:         l.Label,
		CanonicalForm: l.CanonicalForm(),
	}
	if l.Kind == domain.KindCoordinates {
		coords := l.Coords
		rec.Coords = &coords
	}
	return rec
}
