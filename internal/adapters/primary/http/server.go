package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// metricsInterval throttles the metrics broadcast to roughly four
// publications per second.
const metricsInterval = 250 * time.Millisecond

// Server implements the HTTPServer interface. It serves the rendered
// landing page, the model asset API and the metrics stream.
type Server struct {
	server    *http.Server
	connMgr   *ConnectionManager
	content   ports.ContentService
	renderer  ports.PageRenderer
	models    ports.ModelService
	sampler   ports.FrameSampler
	counters  *ReportedCounters
	config    *entities.ServerConfig
	logger    *HTTPLogger
	staticDir string
	mu        sync.RWMutex
	running   bool
}

// NewServer creates a new HTTP server.
// config must not be nil - use config.GetDefaultConfig().Server if needed.
func NewServer(
	content ports.ContentService,
	renderer ports.PageRenderer,
	models ports.ModelService,
	sampler ports.FrameSampler,
	counters *ReportedCounters,
	config *entities.ServerConfig,
	logging *entities.LoggingConfig,
) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if counters == nil {
		counters = NewReportedCounters()
	}

	level := entities.LogLevelInfo
	if logging != nil {
		level = logging.GetLevel()
	}

	return &Server{
		content:   content,
		renderer:  renderer,
		models:    models,
		sampler:   sampler,
		counters:  counters,
		connMgr:   NewConnectionManager(),
		config:    config,
		logger:    NewHTTPLogger("server", level),
		staticDir: "web/assets",
	}
}

// SetStaticDir overrides the directory static assets are served from.
func (s *Server) SetStaticDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticDir = dir
}

// Counters returns the render counter source fed by connected pages.
func (s *Server) Counters() *ReportedCounters {
	return s.counters
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	go s.connMgr.Run(ctx)
	go s.metricsLoop(ctx)

	router := s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
	handler := c.Handler(router)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		s.logger.Info("HTTP server starting on %s:%d", host, port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// NotifyClients sends an update event to all connected clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.Broadcast(event)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// metricsLoop broadcasts a metrics snapshot to connected clients at the
// publication interval. Nothing is sent while no client is connected.
func (s *Server) metricsLoop(ctx context.Context) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.connMgr.ClientCount() == 0 {
				continue
			}
			s.connMgr.Broadcast(ports.UpdateEvent{
				Type:      ports.EventTypeMetrics,
				Timestamp: time.Now(),
				Data:      s.sampler.Snapshot(),
			})
		}
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", s.handleWebSocket)

	// API endpoints
	router.HandleFunc("/api/content", s.handleContent).Methods(http.MethodGet)
	router.HandleFunc("/api/models/{name}", s.handleModel).Methods(http.MethodGet)
	router.HandleFunc("/api/metrics", s.handleMetrics).Methods(http.MethodGet)
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	// Static files with path validation
	router.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", s.secureFileServer(s.staticDir)))

	// Landing page
	router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)

	// Apply middleware in order: security -> rate limiting -> logging -> recovery
	handler := securityHeadersMiddleware(router)
	handler = rateLimitMiddleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// secureFileServer creates a file server that prevents path traversal
func (s *Server) secureFileServer(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := filepath.Clean(r.URL.Path)

		if strings.Contains(cleanPath, "..") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		fullPath := filepath.Join(root, cleanPath)
		absRoot, err := filepath.Abs(root)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		absPath, err := filepath.Abs(fullPath)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if !strings.HasPrefix(absPath, absRoot) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		fs.ServeHTTP(w, r)
	})
}

// Ensure Server implements the port
var _ ports.HTTPServer = (*Server)(nil)
