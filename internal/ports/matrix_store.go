package ports

import (
	"context"

	"distance-matrix-service/internal/domain"
)

// Port: relational persistence for labeled locations and pairwise distances.
// One implementation per database engine; callers never branch on engine
// identity. Schema creation is owned by cmd/dbtool, not this port.
type MatrixStore interface {
	// WithinTx runs fn inside a single transaction. Any error from fn rolls
	// the transaction back so a mid-write failure leaves no partial rows.
	WithinTx(ctx context.Context, fn func(tx MatrixTx) error) error
}

// MatrixTx is the write surface available inside one transaction.
type MatrixTx interface {
	// Insert-or-update a location keyed by label (last-write-wins on the
	// canonical form).
	UpsertLocation(ctx context.Context, rec domain.LocationRecord) error
	// Insert-or-update a distance keyed by
	// (origin label, destination label, fingerprint).
	UpsertDistance(ctx context.Context, rec domain.DistanceRecord) error
}
