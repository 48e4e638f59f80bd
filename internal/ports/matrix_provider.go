package ports

import (
	"context"

	"distance-matrix-service/internal/domain"
)

// Contract for retrieving an all-pairs travel matrix from the external
// routing service. Implementations split oversized grids into sub-rectangle
// calls and merge the partial responses in row/column order; they never
// retry failed calls.
type MatrixProvider interface {
	// Fetch the full origins x destinations grid in one logical response.
	FetchMatrix(ctx context.Context, origins, destinations []domain.Location, opts domain.TravelOptions) (*domain.RawResponse, error)
}
