// Package api exposes the analyzer over HTTP: triggering runs, tracking
// their progress, browsing stored results and downloading reports.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/engineop/analyzer"
	"github.com/engineop/analyzer/db"
	"github.com/engineop/analyzer/metrics"
	"github.com/engineop/analyzer/models"
	"github.com/engineop/analyzer/ratelimit"
	"github.com/engineop/analyzer/storage"
)

// analysisTimeout bounds a single background analysis run.
const analysisTimeout = 15 * time.Minute

// Server represents the API server
type Server struct {
	db          *db.DB
	analyzer    *analyzer.Analyzer
	archive     storage.Archive
	limiter     *ratelimit.Limiter
	progress    *progressTracker
	addr        string
	server      *http.Server
	mux         *http.ServeMux
	corsEnabled bool
}

// Config contains server configuration
type Config struct {
	Addr           string
	DBConfig       db.Config
	AnalyzerConfig analyzer.Config
	StorageConfig  storage.Config
	RateLimit      int           // Analysis requests per window per client
	RateWindow     time.Duration // Sliding window size
	CORSEnabled    bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		DBConfig:       db.Config{Path: "./engineop.db"},
		AnalyzerConfig: analyzer.DefaultConfig(),
		StorageConfig:  storage.DefaultConfig(),
		RateLimit:      10,
		RateWindow:     time.Hour,
		CORSEnabled:    true,
	}
}

// ServerOption customizes a Server after config is applied.
type ServerOption func(*Server)

// WithAnalyzer substitutes the analyzer instance. Used by tests.
func WithAnalyzer(a *analyzer.Analyzer) ServerOption {
	return func(s *Server) {
		s.analyzer = a
	}
}

// WithArchive substitutes the report archive backend.
func WithArchive(archive storage.Archive) ServerOption {
	return func(s *Server) {
		s.archive = archive
	}
}

// NewServer creates a new API server
func NewServer(config Config, opts ...ServerOption) (*Server, error) {
	database, err := db.New(config.DBConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		db:          database,
		limiter:     ratelimit.New(config.RateLimit, config.RateWindow),
		progress:    newProgressTracker(),
		addr:        config.Addr,
		mux:         http.NewServeMux(),
		corsEnabled: config.CORSEnabled,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.analyzer == nil {
		a, err := analyzer.New(config.AnalyzerConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
		}
		s.analyzer = a
	}
	if s.archive == nil {
		archive, err := storage.New(config.StorageConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		s.archive = archive
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/analyses", s.handleList)
	s.mux.HandleFunc("/api/analyses/", s.handleAnalysis) // /api/analyses/{id}[/progress|/report/{format}]
	s.mux.HandleFunc("/api/keywords/parse", s.handleParseKeywords)
}

// Start starts the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// DB returns the server's database for metrics collection
func (s *Server) DB() *db.DB {
	return s.db
}

// CleanupRateLimiter drops expired rate limiter entries. Call periodically.
func (s *Server) CleanupRateLimiter() {
	s.limiter.Cleanup()
}

// Handler returns the server's HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.middleware(s.mux)
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS headers
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Logging (skip health checks and metrics scrapes to reduce noise)
		quiet := r.URL.Path == "/health" || r.URL.Path == "/metrics"
		start := time.Now()
		if !quiet {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)

		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(routeLabel(r.URL.Path), r.Method).Observe(elapsed.Seconds())
		if !quiet {
			log.Printf("%s %s - completed in %v", r.Method, r.URL.Path, elapsed)
		}
	})
}

// routeLabel collapses ID-bearing paths to a bounded label set.
func routeLabel(path string) string {
	if strings.HasPrefix(path, "/api/analyses/") {
		rest := strings.TrimPrefix(path, "/api/analyses/")
		switch {
		case strings.HasSuffix(rest, "/progress"):
			return "/api/analyses/{id}/progress"
		case strings.Contains(rest, "/report/"):
			return "/api/analyses/{id}/report/{format}"
		default:
			return "/api/analyses/{id}"
		}
	}
	return path
}

// clientIP extracts the client address for rate limiting, honoring
// X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx != -1 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// progressTracker holds in-memory progress for running analyses. Finished
// entries are kept so clients can observe the terminal state, and expire
// with the tracker.
type progressTracker struct {
	mu      sync.RWMutex
	entries map[string]models.Progress
}

func newProgressTracker() *progressTracker {
	return &progressTracker{entries: make(map[string]models.Progress)}
}

func (t *progressTracker) set(id string, p models.Progress) {
	t.mu.Lock()
	t.entries[id] = p
	t.mu.Unlock()
}

func (t *progressTracker) get(id string) (models.Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.entries[id]
	return p, ok
}

func (t *progressTracker) remove(id string) {
	t.mu.Lock()
	delete(t.entries, id)
	t.mu.Unlock()
}
