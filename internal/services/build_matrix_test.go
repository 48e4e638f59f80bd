package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"distance-matrix-service/internal/adapters/rawstore"
	"distance-matrix-service/internal/adapters/routing"
	"distance-matrix-service/internal/ports"
)

func newTestPipeline(t *testing.T, provider ports.MatrixProvider) (*Pipeline, string) {
	t.Helper()

	rawDir := t.TempDir()
	exportDir := t.TempDir()

	responses, err := rawstore.NewFSStore(rawDir)
	require.NoError(t, err)

	return &Pipeline{
		Provider:  provider,
		Responses: responses,
		ExportDir: exportDir,
		Now:       func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}, exportDir
}

func buildReq() BuildRequest {
	return BuildRequest{
		Origins:      []any{"Rotterdam", "Antwerp"},
		Destinations: []any{"Hamburg", "Bremerhaven"},
	}
}

func TestBuildMatrixPipeline(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	result, err := p.BuildMatrix(context.Background(), buildReq())
	require.NoError(t, err)

	assert.Len(t, result.Fingerprint, 12)
	assert.False(t, result.Cached)
	assert.Equal(t, 1, provider.Calls)
	assert.Equal(t, []string{"Rotterdam", "Antwerp"}, result.Matrix.OriginLabels)
	assert.Equal(t, []string{"Hamburg", "Bremerhaven"}, result.Matrix.DestinationLabels)
	assert.Equal(t, 491.0, result.Matrix.Cells[0][0].DistanceKm)
	assert.Equal(t, 475.0, result.Matrix.Cells[1][1].DistanceKm)

	// The raw response is archived before the result is returned.
	resp, err := p.Responses.Find(context.Background(), result.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, portResponse().FetchedAt, resp.FetchedAt)
}

func TestBuildMatrixPipelineServesSecondRunFromArchive(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	first, err := p.BuildMatrix(context.Background(), buildReq())
	require.NoError(t, err)

	second, err := p.BuildMatrix(context.Background(), buildReq())
	require.NoError(t, err)

	assert.Equal(t, 1, provider.Calls, "second run must not hit the routing service")
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Matrix, second.Matrix)
}

func TestBuildMatrixPipelineCSVExport(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	req := buildReq()
	req.ExportCSV = true

	result, err := p.BuildMatrix(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.CSVPath)
	assert.Equal(t, result.Name+".csv", filepath.Base(result.CSVPath))

	data, err := os.ReadFile(result.CSVPath)
	require.NoError(t, err)

	want := "Matrix,Hamburg,Bremerhaven\n" +
		"Rotterdam,491.0,416.0\n" +
		"Antwerp,548.0,475.0\n"
	assert.Equal(t, want, string(data))
}

func TestBuildMatrixPipelineLabeledCSVExport(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	req := BuildRequest{
		Origins: []any{
			map[string]any{"Port of Rotterdam": "Rotterdam, Netherlands"},
			map[string]any{"Port of Antwerp": "Antwerp, Belgium"},
		},
		Destinations: []any{
			map[string]any{"Port of Hamburg": "Hamburg, Germany"},
			map[string]any{"Port of Bremerhaven": "Bremerhaven, Germany"},
		},
		ExportCSV: true,
	}

	result, err := p.BuildMatrix(context.Background(), req)
	require.NoError(t, err)

	data, err := os.ReadFile(result.CSVPath)
	require.NoError(t, err)

	// Caller-supplied labels survive verbatim into the export.
	want := "Matrix,Port of Hamburg,Port of Bremerhaven\n" +
		"Port of Rotterdam,491.0,416.0\n" +
		"Port of Antwerp,548.0,475.0\n"
	assert.Equal(t, want, string(data))
}

func TestBuildMatrixPipelineNormalizeFailure(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	req := buildReq()
	req.Origins = []any{""}

	_, err := p.BuildMatrix(context.Background(), req)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StageNormalize, stage.Stage)
	assert.Equal(t, 0, provider.Calls, "invalid input must not reach the routing service")
}

func TestBuildMatrixPipelineFetchFailure(t *testing.T) {
	provider := &routing.MockMatrixProvider{Err: errors.New("REQUEST_DENIED")}
	p, _ := newTestPipeline(t, provider)

	_, err := p.BuildMatrix(context.Background(), buildReq())

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StageFetch, stage.Stage)

	// A failed fetch archives nothing.
	entries, readErr := os.ReadDir(p.Responses.(*rawstore.FSStore).Dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestBuildMatrixPipelineInvalidOptions(t *testing.T) {
	provider := &routing.MockMatrixProvider{Response: portResponse()}
	p, _ := newTestPipeline(t, provider)

	req := buildReq()
	req.Options.Mode = "flying"

	_, err := p.BuildMatrix(context.Background(), req)

	var stage *StageError
	require.ErrorAs(t, err, &stage)
	assert.Equal(t, StageNormalize, stage.Stage)
}
