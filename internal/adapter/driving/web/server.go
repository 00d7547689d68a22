// Package web é o adaptador HTTP do dashboard: roteamento, cache de resposta
// e renderização das tabelas.
package web

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/application/usecase"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/metrics"
	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/types"
)

// Server is the HTTP surface of the dashboard.
type Server struct {
	router    chi.Router
	useCase   *usecase.ReportUseCase
	cfg       *types.Config
	cache     *gocache.Cache
	templates *template.Template
	logger    *zap.Logger
	location  *time.Location
}

// NewServer creates the HTTP server around a report use case. The response
// cache handle is passed in explicitly; there is no process-global state.
func NewServer(uc *usecase.ReportUseCase, cfg *types.Config, responseCache *gocache.Cache, logger *zap.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	// O carimbo "last updated" é exibido em horário do Pacífico.
	location, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		location = time.UTC
	}

	s := &Server{
		router:    chi.NewRouter(),
		useCase:   uc,
		cfg:       cfg,
		cache:     responseCache,
		templates: templates,
		logger:    logger,
		location:  location,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealth)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/index", s.handleIndex)

	s.router.Get("/api/consumption", s.cached(s.handleConsumption))
	s.router.Get("/api/forecast", s.cached(s.handleForecast))
	s.router.Get("/api/forecast.json", s.cached(s.handleForecast))
	s.router.Get("/api/{name}", s.cached(s.handleRawReport))

	s.router.Get("/{name}", s.cached(s.handleReport))
}

// requestLogger registra cada requisição e alimenta os contadores HTTP.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(ww.Status())).Inc()
		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	server := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
