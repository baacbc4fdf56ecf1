package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/charleira/b3penny/internal/config"
	"github.com/charleira/b3penny/internal/metrics"
	"github.com/charleira/b3penny/internal/options"
	"github.com/charleira/b3penny/internal/snapshot"
	"github.com/charleira/b3penny/internal/status"
)

// UpdateTrigger is the orchestrator surface the API drives.
type UpdateTrigger interface {
	TriggerManual(maxPrice decimal.Decimal) error
}

// Deps carries the components the server serves from.
type Deps struct {
	Store           *snapshot.Store
	Resolver        *options.Resolver
	Updates         UpdateTrigger
	Reporter        *status.Reporter
	DefaultMaxPrice decimal.Decimal
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

// Server is the HTTP API server.
type Server struct {
	cfg     config.HTTPConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	store           *snapshot.Store
	resolver        *options.Resolver
	updates         UpdateTrigger
	reporter        *status.Reporter
	defaultMaxPrice decimal.Decimal

	router  *mux.Router
	httpSrv *http.Server
}

// New creates a Server with all routes registered. metricsPath is where the
// Prometheus handler mounts; it is ignored when Deps.Metrics is nil.
func New(cfg config.HTTPConfig, metricsPath string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:             cfg,
		logger:          logger,
		metrics:         deps.Metrics,
		store:           deps.Store,
		resolver:        deps.Resolver,
		updates:         deps.Updates,
		reporter:        deps.Reporter,
		defaultMaxPrice: deps.DefaultMaxPrice,
		router:          mux.NewRouter(),
	}

	s.routes(metricsPath)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// routes registers every endpoint. The static mount goes last so the API
// paths always win.
func (s *Server) routes(metricsPath string) {
	s.router.Use(s.instrument)

	s.router.HandleFunc("/api/stocks", s.handleStocks).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/api/options/{ticker}", s.handleOptions).Methods(http.MethodGet)
	s.router.HandleFunc("/api/update", s.handleUpdate).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle(metricsPath, s.metrics.Handler()).Methods(http.MethodGet)
	}

	if s.cfg.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving in the background. Listen errors other than a clean
// shutdown are logged; the caller observes them via the health of the port.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()
	return nil
}

// Stop drains in-flight requests, bounded by ctx.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

// statusRecorder captures the response status code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument assigns a request ID, logs each request, and counts it by route
// template and status code.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}

		s.logger.Info("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
