package api

import (
	"net/http"

	"distance-matrix-service/internal/api/handlers"
	"distance-matrix-service/internal/ports"
	"distance-matrix-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(pipeline *services.Pipeline, responses ports.ResponseStore, exportDir string) http.Handler {
	mux := http.NewServeMux()

	matrixHandler := &handlers.MatrixHandler{
		Pipeline:  pipeline,
		Responses: responses,
		ExportDir: exportDir,
	}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /matrices", matrixHandler.Build)
	mux.HandleFunc("GET /matrices/{fingerprint}", matrixHandler.Get)
	mux.HandleFunc("GET /matrices/{fingerprint}/export", matrixHandler.Export)

	return loggingMiddleware(mux)
}
