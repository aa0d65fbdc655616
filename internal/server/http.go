package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// NewHTTPHandler returns an http.Handler with all routes registered. Every
// request passes through recovery, logging and credential resolution.
func (s *TrackerServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/issues/{id}/valid", s.handleValidIssue)
	mux.HandleFunc("POST /v1/issues/{id}/revisions", s.handleCreateRevision)
	mux.HandleFunc("POST /v1/issues/{id}/attachments", s.handleCreateAttachment)
	mux.HandleFunc("GET /v1/project-id", s.handleGetProjectID)
	mux.HandleFunc("GET /v1/projects/{id}/issues", s.handleGetProjectIssues)
	mux.HandleFunc("GET /v1/projects/{id}/categories", s.handleGetCategories)
	mux.HandleFunc("POST /v1/projects/{id}/categories", s.handleAddCategory)
	mux.HandleFunc("GET /v1/projects/{id}/lookups", s.handleGetLookups)
	mux.HandleFunc("GET /v1/projects/{id}/lookups/{kind}", s.handleGetLookup)
	mux.HandleFunc("POST /v1/projects/{id}/wiki/preview", s.handleWikiPreview)
	mux.HandleFunc("PATCH /v1/categories/{id}", s.handleRenameCategory)
	mux.HandleFunc("POST /v1/categories/{id}/move", s.handleMoveCategory)
	mux.HandleFunc("DELETE /v1/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("GET /v1/wiki/{id}/source", s.handleWikiSource)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	return RecoveryMiddleware(LoggingMiddleware(AuthMiddleware(s.authn, mux)))
}

// handleHealth handles GET /v1/health.
func (s *TrackerServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health())
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, inputError(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return inputError("invalid JSON body")
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
