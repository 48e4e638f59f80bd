package ports

import (
	"context"
	"time"
)

// MatrixBuiltEvent announces a completed pipeline run.
type MatrixBuiltEvent struct {
	Fingerprint  string    `json:"fingerprint"`
	Origins      int       `json:"origins"`
	Destinations int       `json:"destinations"`
	Cached       bool      `json:"cached"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Optional outbound notification boundary. Publish failures are logged by
// the pipeline, never fatal to a build.
type EventPublisher interface {
	PublishMatrixBuilt(ctx context.Context, ev MatrixBuiltEvent) error
}
