// Package httpapi exposes the tax engine over a small JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rgehrsitz/taxatlas/internal/breakeven"
	"github.com/rgehrsitz/taxatlas/internal/calculation"
	"github.com/rgehrsitz/taxatlas/internal/compare"
	"github.com/rgehrsitz/taxatlas/internal/currency"
	"github.com/rgehrsitz/taxatlas/internal/dataset"
	"github.com/rgehrsitz/taxatlas/internal/observability"
)

const (
	defaultTimeout  = 30 * time.Second
	maxBatchSize    = 1000
	defaultCacheTTL = 10 * time.Minute
)

// Server holds the dependencies shared by every handler.
type Server struct {
	dataset         *dataset.TaxDataset
	engine          *calculation.CachedEngine
	compare         *compare.CompareEngine
	solver          *breakeven.Solver
	rates           *currency.RateTable
	logger          *zap.Logger
	displayCurrency string
	startedAt       time.Time
	now             func() time.Time
}

type serverConfig struct {
	logger          *zap.Logger
	cacheSize       int
	cacheTTL        time.Duration
	displayCurrency string
	now             func() time.Time
}

// Option customises the server before construction.
type Option func(*serverConfig)

// WithLogger sets the logger used for request and engine logs.
func WithLogger(l *zap.Logger) Option {
	return func(c *serverConfig) { c.logger = l }
}

// WithCache sizes the calculation memo cache.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *serverConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithDisplayCurrency converts every single-country result into code unless
// the request asks for another currency.
func WithDisplayCurrency(code string) Option {
	return func(c *serverConfig) { c.displayCurrency = code }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *serverConfig) { c.now = now }
}

// NewServer wires the engine, cache and comparison engine over ds.
func NewServer(ds *dataset.TaxDataset, opts ...Option) *Server {
	cfg := serverConfig{cacheSize: 4096, cacheTTL: defaultCacheTTL, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	engine := calculation.NewEngine(ds)
	engine.SetLogger(observability.EngineLogger(cfg.logger))
	cached := calculation.NewCachedEngine(engine, cfg.cacheSize, cfg.cacheTTL)

	return &Server{
		dataset:         ds,
		engine:          cached,
		compare:         compare.NewCompareEngine(cached, ds),
		solver:          breakeven.NewDefaultSolver(cached, ds),
		rates:           currency.Default(),
		logger:          cfg.logger,
		displayCurrency: cfg.displayCurrency,
		startedAt:       cfg.now(),
		now:             cfg.now,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultTimeout))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(req.Context(), w, NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(req.Context(), w, NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(api chi.Router) {
		api.Get("/countries", s.listCountries)
		api.Get("/countries/{code}", s.getCountry)
		api.Get("/tax", s.calculate)
		api.Post("/tax/batch", s.batch)
		api.Get("/compare", s.compareCountries)
		api.Get("/solve", s.solve)
	})
	return r
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down within
// shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.Int("countries", s.dataset.Len()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
