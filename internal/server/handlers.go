package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/obarouni/jobforge/internal/jobfolder"
	"github.com/obarouni/jobforge/internal/pipeline"
	"github.com/obarouni/jobforge/internal/types"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleModules returns the content modules available for selection.
func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modules": s.registry.Modules()})
}

// createRunRequest wraps a JobRequest with server-only fetch options.
type createRunRequest struct {
	types.JobRequest
	FetchPosting bool `json:"fetch_posting,omitempty"`
	UseBrowser   bool `json:"use_browser,omitempty"`
}

// handleCreateRun validates the request, spawns its dedicated worker,
// and responds immediately with the run id.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.JobRequest.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var recorder pipeline.RunRecorder
	if s.store != nil {
		recorder = s.store
	}
	id := s.startRun(pipeline.Options{
		Config:       s.cfg,
		Registry:     s.registry,
		Resolver:     s.resolver,
		History:      recorder,
		Request:      req.JobRequest,
		FetchPosting: req.FetchPosting,
		UseBrowser:   req.UseBrowser,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": StatusRunning})
}

// handleGetRun reports the status and, once finished, the outcome of a run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	state, ok := s.runs[id]
	var snapshot runState
	if ok {
		snapshot = *state
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "run not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// handleListRuns returns recorded history, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleRunNotes renders the job-notes markdown of a finished run as HTML.
func (s *Server) handleRunNotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	state, ok := s.runs[id]
	var folder string
	if ok && state.Outcome != nil {
		folder = state.Outcome.Folder
	}
	s.mu.Unlock()
	if folder == "" {
		writeError(w, http.StatusNotFound, "no notes available for run: "+id)
		return
	}

	data, err := os.ReadFile(filepath.Join(folder, jobfolder.NotesFileName))
	if err != nil {
		writeError(w, http.StatusNotFound, "notes file not found")
		return
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert(data, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render notes: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
