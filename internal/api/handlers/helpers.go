// Package handlers holds the HTTP endpoints of the matrix service. Handlers
// decode and validate request bodies, delegate to the pipeline, and map
// stage failures to status codes; they never touch adapters directly.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON renders v as the response body. An encoding failure is only
// logged: the status line is already on the wire by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response failed: method=%s path=%s status=%d err=%v", r.Method, r.URL.Path, status, err)
	}
}

// writeError renders the uniform error envelope {"error": msg}.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
