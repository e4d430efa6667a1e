package http

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shootbook/internal/analytics"
	"shootbook/internal/core"
	"shootbook/internal/log"
	"shootbook/internal/metrics"
	"shootbook/internal/services"
	appweb "shootbook/web"
)

type Server struct {
	http.Server
	svc            *services.CRMService
	templates      *template.Template
	logger         *log.Logger
	rateLimiter    *rateLimiter
	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler
	ready          func(context.Context) error
	loc            *time.Location
	now            func() time.Time
	window         analytics.Window
	writeLimit     int
	headers        HeadersConfig
	shutdownOnce   sync.Once
}

// Option customises a Server before its routes are built.
type Option func(*Server)

// WithLogger sets the logger placed in every request context.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) { s.loc = loc }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithDefaultWindow sets the revenue window used when a request names none.
func WithDefaultWindow(w analytics.Window) Option {
	return func(s *Server) { s.window = w }
}

// WithMetrics sets the HTTP counters and the handler mounted on /metrics.
func WithMetrics(m *metrics.HTTPMetrics, handler http.Handler) Option {
	return func(s *Server) {
		s.httpMetrics = m
		s.metricsHandler = handler
	}
}

// WithReadiness sets the check behind /readyz, typically a store ping.
func WithReadiness(check func(context.Context) error) Option {
	return func(s *Server) { s.ready = check }
}

// WithWriteLimit sets how many writes per minute one client may send.
func WithWriteLimit(perMinute int) Option {
	return func(s *Server) { s.writeLimit = perMinute }
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.CRMService, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		svc:        svc,
		logger:     log.Default(),
		loc:        time.Local,
		now:        time.Now,
		window:     analytics.Window12,
		writeLimit: defaultWritesPerMinute,
		headers:    DefaultHeadersConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	if s.metricsHandler == nil {
		s.metricsHandler = promhttp.Handler()
	}
	s.rateLimiter = newRateLimiter(s.writeLimit)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return chimw.GetReqID(r.Context())
	}))
	r.Use(log.AccessLog(extractClientIP))
	r.Use(securityHeaders(s.headers))
	r.Use(flagSuspicious(s.httpMetrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.Get("/", s.handleIndex)
	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimiter.limitWrites(s.httpMetrics))

		r.Route("/shoots", func(r chi.Router) {
			r.Get("/", s.handleListShoots)
			r.Post("/", s.handleCreateShoot)
			r.Get("/{id}", s.handleGetShoot)
			r.Put("/{id}", s.handleUpdateShoot)
			r.Delete("/{id}", s.handleDeleteShoot)
		})
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.handleListLeads)
			r.Post("/", s.handleCreateLead)
			r.Get("/{id}", s.handleGetLead)
			r.Put("/{id}", s.handleUpdateLead)
			r.Delete("/{id}", s.handleDeleteLead)
			r.Post("/{id}/advance", s.handleAdvanceFollowUp)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/revenue", s.handleRevenue)
			r.Get("/ltv", s.handleLTV)
			r.Get("/summary", s.handleSummary)
		})
		r.Get("/clients/phone", s.handleSuggestPhone)
		r.Get("/clients/names", s.handleLeadNames)
		r.Post("/seed", s.handleSeed)
	})

	return r
}

// today is the calendar day in the configured zone.
func (s *Server) today() core.Date {
	return core.DateOf(s.now(), s.loc)
}

// fail writes the response for err, logging anything that is not the caller's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	resp := ErrorFor(err)
	if resp.statusCode >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldOperation, op,
			log.FieldError, err.Error())
	}
	resp.Write(w)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err.Error())
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}
