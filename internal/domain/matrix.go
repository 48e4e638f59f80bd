package domain

import (
	"fmt"
	"time"
)

// Cell is one origin->destination entry of a DistanceMatrix. OK is false for
// pairs the routing service could not resolve; such cells carry the service
// status and no numeric values (never a fabricated zero).
type Cell struct {
	OK          bool
	Status      string
	DistanceKm  float64
	DurationMin float64
}

// DistanceMatrix is an ordered origin-label x destination-label grid.
// Cells is indexed [origin][destination] and always has exactly
// len(OriginLabels) rows of len(DestinationLabels) cells.
type DistanceMatrix struct {
	OriginLabels      []string
	DestinationLabels []string
	Cells             [][]Cell
}

// Dimensions returns (rows, columns).
func (m *DistanceMatrix) Dimensions() (int, int) {
	return len(m.OriginLabels), len(m.DestinationLabels)
}

// LabelCountMismatchError is raised when caller-supplied labels do not match
// the response grid. No matrix is built and nothing is written.
type LabelCountMismatchError struct {
	Axis   string // "origin" or "destination"
	Labels int
	Grid   int
}

func (e *LabelCountMismatchError) Error() string {
	return fmt.Sprintf("label count mismatch: %d %s labels for a grid of %d", e.Labels, e.Axis, e.Grid)
}

// LocationRecord is the relational form of a labeled location. Labels are
// unique across the flattened origin/destination namespace; re-upserting a
// label with a different canonical form is last-write-wins.
type LocationRecord struct {
	Label         string
	CanonicalForm string
	Coords        *Coordinates
}

// DistanceRecord is one successful matrix cell keyed by
// (origin label, destination label, fingerprint).
type DistanceRecord struct {
	OriginLabel      string
	DestinationLabel string
	Fingerprint      string
	DistanceKm       float64
	DurationMin      float64
	FetchedAt        time.Time
}
