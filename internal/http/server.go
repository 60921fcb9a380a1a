// Package http serves the dashboard API: the derived views as JSON, entry
// and filter mutations, CSV export and operational endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgeter/internal/export"
	"budgeter/internal/log"
	"budgeter/internal/middleware/ratelimit"
	"budgeter/internal/middleware/security"
	"budgeter/internal/middleware/trace"
	"budgeter/internal/services"
)

// maxBodyBytes caps request bodies for entry and filter mutations.
const maxBodyBytes = 64 << 10

// Options configures the optional parts of the server.
type Options struct {
	Logger    *log.Logger
	RateLimit ratelimit.Config
	// Ready reports backend readiness for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
	// Registry receives the HTTP collectors and is served on /metrics.
	// A fresh registry is created when nil.
	Registry *prometheus.Registry
	// Sinks are the named export targets reachable via POST /api/exports/{sink}.
	Sinks map[string]export.Sink
}

// Server is the dashboard HTTP server.
type Server struct {
	http.Server
	app      *services.AppService
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	ready    func(ctx context.Context) error
	sinks    map[string]export.Sink
	metrics  *httpMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, app *services.AppService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)
	metrics := newHTTPMetrics(opts.Registry)

	s := &Server{
		app:      app,
		logger:   logger,
		ready:    opts.Ready,
		sinks:    opts.Sinks,
		metrics:  metrics,
		detector: security.NewDetector(metrics.suspicious),
	}
	rl := opts.RateLimit
	rl.Rejected = metrics.rateLimited
	s.limiter = ratelimit.NewLimiter(rl)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))

	mux.HandleFunc("GET /api/meta", s.handleMeta)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("PUT /api/filter", s.handleSetFilter)
	mux.HandleFunc("GET /api/export", s.handleExportCSV)
	mux.HandleFunc("POST /api/exports/{sink}", s.handleExportToSink)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger, s.detector.ExtractClientIP, metrics.observe)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = headers.Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
