package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/algoflow/pkg/config"
	"github.com/matzehuels/algoflow/pkg/metrics"
	"github.com/matzehuels/algoflow/pkg/observability"
)

// Server is the HTTP front end for live sessions.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	metrics  *metrics.Registry
	sessions *Sessions
	router   chi.Router
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMetrics mounts the registry on /metrics.
func WithMetrics(r *metrics.Registry) Option { return func(s *Server) { s.metrics = r } }

// WithSchedulers replaces the per-session ticker scheduler.
func WithSchedulers(f SchedulerFactory) Option {
	return func(s *Server) {
		s.sessions.sched = f
	}
}

// New creates a server for cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   log.New(io.Discard),
		sessions: NewSessions(cfg.Server.MaxSessions, cfg.Server.SessionTTL.Duration, TickerFactory(cfg.Gesture.FPS)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleStatus)
			r.Delete("/", s.handleDelete)
			r.Put("/state", s.handleState)
			r.Post("/pointer", s.handlePointer)
			r.Post("/hand", s.handleHand)
			r.Post("/camera", s.handleCamera)
			r.Post("/timeline", s.handleTimeline)
			r.Get("/frame", s.handleFrame)
			r.Get("/frame.svg", s.handleFrameSVG)
			r.Get("/frame.dot", s.handleFrameDOT)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session table.
func (s *Server) Sessions() *Sessions { return s.sessions }

// observe reports every request to the HTTP hooks and logs it at debug
// level. Routes are labelled by pattern, not by raw path, so session ids do
// not explode metric cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// Run serves on the configured address until ctx is cancelled, evicting
// idle sessions in the background. All sessions are closed on return.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		s.janitor(ctx)
	}()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	case err = <-errc:
	}
	cancel()
	<-janitorDone
	s.sessions.CloseAll()
	s.reportSessions()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) janitor(ctx context.Context) {
	ttl := s.cfg.Server.SessionTTL.Duration
	if ttl <= 0 {
		<-ctx.Done()
		return
	}
	interval := max(ttl/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

func (s *Server) evict() {
	if ids := s.sessions.Evict(s.now()); len(ids) > 0 {
		s.logger.Info("evicted idle sessions", "count", len(ids))
		s.reportSessions()
	}
}

func (s *Server) reportSessions() {
	if s.metrics != nil {
		s.metrics.SetSessions(s.sessions.Len())
	}
}
