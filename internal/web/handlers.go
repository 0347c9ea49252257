package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/providers"
)

// sseSink writes pipeline frames as Server-Sent Events. Emit is called
// from the pipeline synchronously, so no locking is needed.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Emit(f pipeline.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	s.w.Write([]byte("data: "))
	s.w.Write(data)
	s.w.Write([]byte("\n\n"))
	s.flusher.Flush()
}

// handleReview runs the standard pipeline and streams progress frames as
// SSE. The stream ends with exactly one result or error frame; HTTP status
// is always 200 once streaming starts, so clients must inspect the
// terminal frame.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	src, err := s.newSource(req.Owner, req.Repo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering if present

	sink := &sseSink{w: w, flusher: flusher}
	if _, err := s.engine.Run(r.Context(), req, src, sink); err != nil {
		// The terminal error frame has already been emitted on the stream.
		s.log.Warn("review failed", zap.Error(err))
	}
}

// handleAgents runs an agent-mode review and returns the aggregate as one
// JSON document.
func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	var req agents.ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	src, err := s.newSource(req.Owner, req.Repo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.dispatcher.Run(r.Context(), req, src)
	if err != nil {
		s.log.Warn("agent run failed", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleModels lists providers and their selectable models. For ollama the
// list comes from the local daemon when reachable.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	type providerModels struct {
		Provider string   `json:"provider"`
		Default  string   `json:"default"`
		Models   []string `json:"models"`
	}

	var out []providerModels
	for _, p := range models.All {
		pm := providerModels{
			Provider: string(p),
			Default:  s.catalog.Default(p),
			Models:   s.catalog.Models(p),
		}
		if p == models.Ollama {
			if local, err := providers.ListLocalModels(r.Context()); err == nil && len(local) > 0 {
				pm.Models = local
			}
		}
		out = append(out, pm)
	}
	writeJSON(w, http.StatusOK, map[string]any{"providers": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
