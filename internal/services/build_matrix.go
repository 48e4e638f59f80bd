package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/export"
	"distance-matrix-service/internal/fingerprint"
	"distance-matrix-service/internal/platform/obs"
	"distance-matrix-service/internal/ports"
)

// Pipeline stages, reported by StageError so every failure identifies where
// in the run it happened.
const (
	StageNormalize = "normalize"
	StageFetch     = "fetch"
	StageBuild     = "build"
	StageExport    = "export"
	StagePersist   = "persist"
)

// Raw-response names are prefixed so archived files are recognizable on
// disk; the trailing fingerprint is the identity.
const rawNamePrefix = "gmaps_dist_matrix_data"

// StageError tags a pipeline failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Pipeline is the matrix construction core. Stages run strictly in order
// (normalize -> fingerprint -> fetch-or-load -> build -> export -> persist);
// nothing is retried here, every error is surfaced to the caller.
//
// Store and Publisher are optional; a nil Store skips relational sync and a
// nil Publisher skips event emission.
type Pipeline struct {
	Provider  ports.MatrixProvider
	Responses ports.ResponseStore
	Store     ports.MatrixStore
	Publisher ports.EventPublisher
	ExportDir string

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// BuildRequest carries the decoded location forms and options for one run.
type BuildRequest struct {
	Origins      []any
	Destinations []any
	Options      domain.TravelOptions
	WriteToDB    bool
	ExportCSV    bool
	ExportPDF    bool
}

type BuildResult struct {
	Fingerprint string
	Name        string
	Matrix      *domain.DistanceMatrix
	Cached      bool
	FetchedAt   time.Time
	CSVPath     string
	PDFPath     string
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// BuildMatrix runs the full pipeline for one request.
func (p *Pipeline) BuildMatrix(ctx context.Context, req BuildRequest) (_ *BuildResult, err error) {
	defer obs.Time(ctx, "pipeline.BuildMatrix")(&err)

	origins, err := NormalizeLocations("origins", req.Origins)
	if err != nil {
		return nil, stageErr(StageNormalize, err)
	}
	destinations, err := NormalizeLocations("destinations", req.Destinations)
	if err != nil {
		return nil, stageErr(StageNormalize, err)
	}

	opts := req.Options.WithDefaults()
	if err := opts.Validate(p.now()); err != nil {
		return nil, stageErr(StageNormalize, err)
	}

	fp := fingerprint.Compute(origins, destinations, opts)
	name := fingerprint.Name(rawNamePrefix, origins, destinations, fp)

	resp, cached, err := p.loadOrFetch(ctx, name, origins, destinations, opts)
	if err != nil {
		return nil, err
	}

	matrix, err := BuildMatrix(resp, Labels(origins), Labels(destinations))
	if err != nil {
		return nil, stageErr(StageBuild, err)
	}

	result := &BuildResult{
		Fingerprint: fp,
		Name:        name,
		Matrix:      matrix,
		Cached:      cached,
		FetchedAt:   resp.FetchedAt,
	}

	if req.ExportCSV {
		path := filepath.Join(p.ExportDir, name+".csv")
		if err := export.WriteCSV(matrix, path); err != nil {
			return nil, stageErr(StageExport, err)
		}
		result.CSVPath = path
	}

	if req.ExportPDF {
		path := filepath.Join(p.ExportDir, name+".pdf")
		if err := export.WritePDF(matrix, fp, path); err != nil {
			return nil, stageErr(StageExport, err)
		}
		result.PDFPath = path
	}

	if req.WriteToDB && p.Store != nil {
		if err := SyncMatrix(ctx, p.Store, matrix, origins, destinations, fp, resp.FetchedAt); err != nil {
			return nil, stageErr(StagePersist, err)
		}
	}

	p.publish(ctx, result)

	return result, nil
}

// loadOrFetch returns the archived response for name when one exists;
// otherwise it calls the routing service and archives the result before
// handing it back. A fetch that cannot be archived fails the run: the
// archive is the system of record for raw responses.
func (p *Pipeline) loadOrFetch(
	ctx context.Context,
	name string,
	origins, destinations []domain.Location,
	opts domain.TravelOptions,
) (*domain.RawResponse, bool, error) {
	resp, err := p.Responses.Get(ctx, name)
	if err == nil {
		return resp, true, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, false, stageErr(StageFetch, err)
	}

	resp, err = p.Provider.FetchMatrix(ctx, origins, destinations, opts)
	if err != nil {
		return nil, false, stageErr(StageFetch, err)
	}

	if err := p.Responses.Put(ctx, name, resp); err != nil {
		return nil, false, stageErr(StagePersist, err)
	}

	return resp, false, nil
}

// publish emits the matrix-built event. Event emission is ancillary:
// failures are logged, never fatal to a completed build.
func (p *Pipeline) publish(ctx context.Context, result *BuildResult) {
	if p.Publisher == nil {
		return
	}

	rows, cols := result.Matrix.Dimensions()
	ev := ports.MatrixBuiltEvent{
		Fingerprint:  result.Fingerprint,
		Origins:      rows,
		Destinations: cols,
		Cached:       result.Cached,
		FetchedAt:    result.FetchedAt,
	}

	if err := p.Publisher.PublishMatrixBuilt(ctx, ev); err != nil {
		log.Printf("matrix event publish failed: %v", err)
	}
}
