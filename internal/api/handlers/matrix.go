package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"distance-matrix-service/internal/api/dto"
	"distance-matrix-service/internal/ports"
	"distance-matrix-service/internal/services"
)

// MatrixHandler exposes the matrix pipeline over HTTP.
type MatrixHandler struct {
	Pipeline  *services.Pipeline
	Responses ports.ResponseStore
	ExportDir string
}

// Build runs the full pipeline for one request body.
func (h *MatrixHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildMatrixRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	origins, err := dto.DecodeForms("origins", req.Origins)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	destinations, err := dto.DecodeForms("destinations", req.Destinations)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := req.Options.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq := services.BuildRequest{
		Origins:      origins,
		Destinations: destinations,
		Options:      opts,
		WriteToDB:    req.WriteToDB,
		ExportCSV:    req.ExportCSV,
		ExportPDF:    req.ExportPDF,
	}

	result, err := h.Pipeline.BuildMatrix(r.Context(), svcReq)
	if err != nil {
		status, msg := classifyPipelineError(err)
		if status == http.StatusInternalServerError {
			log.Printf("build matrix failed: %v", err)
			msg = "internal server error"
		}
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, matrixResponse(result))
}

// Get returns the archived raw response for a fingerprint without touching
// the external service.
func (h *MatrixHandler) Get(w http.ResponseWriter, r *http.Request) {
	fp := r.PathValue("fingerprint")

	resp, err := h.Responses.Find(r.Context(), fp)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "no raw response for fingerprint "+fp)
		return
	}
	if err != nil {
		log.Printf("find raw response failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// Export serves the CSV file previously exported for a fingerprint.
func (h *MatrixHandler) Export(w http.ResponseWriter, r *http.Request) {
	fp := r.PathValue("fingerprint")
	if strings.TrimSpace(fp) == "" {
		writeError(w, r, http.StatusBadRequest, "fingerprint is required")
		return
	}

	entries, err := os.ReadDir(h.ExportDir)
	if err != nil {
		log.Printf("read export dir failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	suffix := "_" + fp + ".csv"
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		w.Header().Set("Content-Type", "text/csv")
		http.ServeFile(w, r, filepath.Join(h.ExportDir, e.Name()))
		return
	}

	writeError(w, r, http.StatusNotFound, "no export for fingerprint "+fp)
}

// classifyPipelineError maps pipeline stages to HTTP statuses: input
// problems are the client's, routing service failures are upstream's,
// everything else is ours.
func classifyPipelineError(err error) (int, string) {
	var stage *services.StageError
	if !errors.As(err, &stage) {
		return http.StatusInternalServerError, ""
	}

	switch stage.Stage {
	case services.StageNormalize, services.StageBuild:
		return http.StatusBadRequest, stage.Err.Error()
	case services.StageFetch:
		return http.StatusBadGateway, stage.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

func matrixResponse(result *services.BuildResult) dto.MatrixResponse {
	m := result.Matrix
	cells := make([][]dto.CellResponse, len(m.Cells))
	for r, row := range m.Cells {
		cells[r] = make([]dto.CellResponse, len(row))
		for c, cell := range row {
			out := dto.CellResponse{Status: cell.Status}
			if cell.OK {
				km, min := cell.DistanceKm, cell.DurationMin
				out.DistanceKm = &km
				out.DurationMin = &min
			}
			cells[r][c] = out
		}
	}

	return dto.MatrixResponse{
		Fingerprint:       result.Fingerprint,
		Cached:            result.Cached,
		FetchedAt:         result.FetchedAt,
		OriginLabels:      m.OriginLabels,
		DestinationLabels: m.DestinationLabels,
		Cells:             cells,
		CSVPath:           result.CSVPath,
		PDFPath:           result.PDFPath,
	}
}
