package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
)

// Sentinel errors for server configuration.
var (
	// ErrNilStore is returned when the server is built without a store.
	ErrNilStore = errors.New("api: scan store is required")
)

// ScanFunc runs a live scan for the given target URL and returns the
// completed report. The pipeline wiring lives in the caller; the server
// only needs the entry point.
type ScanFunc func(ctx context.Context, target string) (*model.ScanReport, error)

// Server serves the scan store over HTTP.
type Server struct {
	// store is the scan database.
	store *database.ScanDB

	// scan runs live scans for POST /scans. Nil disables the endpoint.
	scan ScanFunc

	// logger for request logging.
	logger *slog.Logger

	// scanTimeout bounds live scans triggered over the API.
	scanTimeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithScanFunc enables the live-scan endpoint.
func WithScanFunc(fn ScanFunc) ServerOption {
	return func(s *Server) {
		s.scan = fn
	}
}

// WithScanTimeout bounds live scans. Default is 60 seconds.
func WithScanTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.scanTimeout = d
		}
	}
}

// NewServer creates an API server over the given scan store.
func NewServer(store *database.ScanDB, opts ...ServerOption) (*Server, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	s := &Server{
		store:       store,
		logger:      slog.Default(),
		scanTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/sites", s.handleListSites)
	mux.HandleFunc("GET /api/v1/sites/{site}", s.handleLatestScan)
	mux.HandleFunc("GET /api/v1/sites/{site}/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/scans/{id}", s.handleScanByID)
	mux.HandleFunc("POST /api/v1/scans", s.handleCreateScan)

	return s.logRequests(mux)
}

// ListenAndServe runs the API server until the context is cancelled,
// then shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("api server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests wraps a handler with structured request logging.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start),
		)
	})
}
