package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/farm-advisor-service/internal/domain"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html.tmpl").Funcs(template.FuncMap{
	"joinCrops": domain.JoinCrops,
}).ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// Advisor computes advice for a soil sample. It also reports readiness.
type Advisor interface {
	Advise(ctx context.Context, soil domain.SoilSample) (domain.Advice, error)
	Weather(ctx context.Context) domain.WeatherResult
	City() string
	CheckReadiness(ctx context.Context) error
}

// Server exposes the advice API, the dashboard page, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	advisor    Advisor
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/v1/advice, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, advisor Advisor, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Leaves room for the weather call's own timeout.
			WriteTimeout: 20 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		advisor: advisor,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/advice", s.handleAdvice)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(advisor))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	soil, err := parseSoil(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	advice, err := s.advisor.Advise(r.Context(), soil)
	if err != nil {
		s.logger.Error("advise failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "advice unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

// dashboardView is the template model for the dashboard page.
type dashboardView struct {
	City    string
	Soil    domain.SoilSample
	Weather *domain.WeatherReading
	Advice  *domain.Advice
	Error   string
	Bounds  soilBounds
	Warning string
}

type soilBounds struct {
	MinMoisture, MaxMoisture int
	MinPH, MaxPH             float64
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{
		City: s.advisor.City(),
		Soil: domain.DefaultSoilSample(),
		Bounds: soilBounds{
			MinMoisture: domain.MinMoisturePct, MaxMoisture: domain.MaxMoisturePct,
			MinPH: domain.MinPH, MaxPH: domain.MaxPH,
		},
	}

	status := http.StatusOK
	soil, err := parseSoil(r)
	switch {
	case err != nil:
		// The weather section does not depend on the soil inputs.
		status = http.StatusBadRequest
		view.Error = err.Error()
		weather := s.advisor.Weather(r.Context())
		if weather.Available {
			view.Weather = &weather.Reading
		}
		view.Warning = weather.Warning
	default:
		view.Soil = soil
		advice, err := s.advisor.Advise(r.Context(), soil)
		if err != nil {
			s.logger.Error("advise failed", "error", err)
			status = http.StatusInternalServerError
			view.Error = "advice unavailable"
			break
		}
		view.Advice = &advice
		view.Weather = advice.Weather
		view.Warning = advice.Warning
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}

// parseSoil reads the moisture and ph query parameters, defaulting each when absent.
func parseSoil(r *http.Request) (domain.SoilSample, error) {
	soil := domain.DefaultSoilSample()
	q := r.URL.Query()

	if v := q.Get("moisture"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.SoilSample{}, errors.New("moisture must be an integer percentage")
		}
		soil.MoisturePct = n
	}
	if v := q.Get("ph"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.SoilSample{}, errors.New("ph must be a number")
		}
		soil.PH = f
	}
	return domain.NewSoilSample(soil.MoisturePct, soil.PH)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
