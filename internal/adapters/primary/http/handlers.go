package http

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// ErrorResponse is the JSON body returned for failed API requests
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// modelResponse carries a decoded scene resource to the page. The
// buffer chunk is base64 encoded by the JSON marshaller.
type modelResponse struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
	Buffer   []byte          `json:"buffer,omitempty"`
	ByteSize int64           `json:"byte_size"`
	LoadedAt time.Time       `json:"loaded_at"`
}

// metricsResponse combines the frame metrics with cache statistics
type metricsResponse struct {
	entities.MetricsSnapshot
	Cache entities.CacheStats `json:"cache"`
}

// writeJSON writes a JSON response with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
		Time:    time.Now(),
	})
}

// handlePage serves the rendered landing page
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := s.content.Current()
	if page == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no_content", "no page content loaded")
		return
	}

	html, err := s.renderer.RenderPage(r.Context(), page)
	if err != nil {
		s.logger.Error("Page render failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "render_failed", "page could not be rendered")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

// handleContent serves the current page content as JSON
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	page := s.content.Current()
	if page == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no_content", "no page content loaded")
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

// handleModel serves a decoded model asset. The resource is borrowed
// from the cache for the duration of the response write and released
// afterwards; the cache stays the owner.
func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_name", "model name is required")
		return
	}

	borrow, err := s.models.Load(r.Context(), name)
	if err != nil {
		if entities.IsLoadError(err) {
			s.logger.Warn("Model %q unavailable: %v", name, err)
			s.writeError(w, http.StatusNotFound, "model_unavailable", err.Error())
			return
		}
		s.logger.Error("Model load failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "load_failed", "model could not be loaded")
		return
	}
	defer borrow.Release()

	res := borrow.Resource()
	s.writeJSON(w, http.StatusOK, modelResponse{
		Name:     res.Name,
		Document: json.RawMessage(res.Document),
		Buffer:   res.Buffer,
		ByteSize: res.ByteSize,
		LoadedAt: res.LoadedAt,
	})
}

// handleMetrics serves the current metrics snapshot with cache stats
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, metricsResponse{
		MetricsSnapshot: s.sampler.Snapshot(),
		Cache:           s.models.CacheStats(),
	})
}

// healthReporter is implemented by samplers that track process health.
type healthReporter interface {
	HealthStatus() map[string]interface{}
}

// handleHealth serves a process health summary
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if hr, ok := s.sampler.(healthReporter); ok {
		s.writeJSON(w, http.StatusOK, hr.HealthStatus())
		return
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"healthy":       true,
		"goroutines":    runtime.NumGoroutine(),
		"heap_alloc_mb": memStats.HeapAlloc / (1024 * 1024),
	})
}
