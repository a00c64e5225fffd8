package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
)

// DefaultPublishTimeout bounds one publish when no other limit is set.
const DefaultPublishTimeout = 2 * time.Second

// Publisher sends completed advice downstream.
type Publisher interface {
	Publish(ctx context.Context, event domain.AdvisoryEvent) error
}

// Service answers advice requests for a single configured city: one weather
// fetch, one model fit, one prediction and one crop lookup per call.
type Service struct {
	provider  domain.WeatherProvider
	city      string
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	publishTimeout time.Duration
}

// New creates a Service. Pass a nil publisher to disable event publishing.
func New(provider domain.WeatherProvider, city string, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		provider:  provider,
		city:      city,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,

		publishTimeout: DefaultPublishTimeout,
	}
}

// SetPublishTimeout changes how long a single publish may hold a request.
// Non-positive values are ignored.
func (s *Service) SetPublishTimeout(d time.Duration) {
	if d > 0 {
		s.publishTimeout = d
	}
}

// City returns the location advice is computed for.
func (s *Service) City() string {
	return s.city
}

// SelfCheck fits the yield model once so a broken training table is caught
// at startup. The service reports ready only after it succeeds.
func (s *Service) SelfCheck() error {
	model, err := domain.FitDefault()
	if err != nil {
		return fmt.Errorf("yield model self-check: %w", err)
	}
	s.logger.Info("yield model self-check passed",
		"intercept", model.Intercept,
		"coefficients", model.Coefficients[:],
	)
	s.ready.Store(true)
	return nil
}

// CheckReadiness returns nil once SelfCheck has passed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("yield model self-check has not passed")
	}
	return nil
}

// Weather fetches the current reading for the configured city. Failures come
// back as an unavailable result, never as an error.
func (s *Service) Weather(ctx context.Context) domain.WeatherResult {
	return domain.FetchWeather(ctx, s.provider, s.city, s.logger)
}

// Advise produces the advice for one soil sample. A weather outage is not an
// error: the returned Advice carries only the warning.
func (s *Service) Advise(ctx context.Context, soil domain.SoilSample) (domain.Advice, error) {
	weather := s.Weather(ctx)

	advice, err := domain.BuildAdvice(s.city, soil, weather)
	if err != nil {
		s.metrics.AdviceRequests.WithLabelValues("error").Inc()
		return domain.Advice{}, err
	}

	if !advice.HasPrediction() {
		s.metrics.AdviceRequests.WithLabelValues("weather_unavailable").Inc()
		return advice, nil
	}

	s.metrics.AdviceRequests.WithLabelValues("full").Inc()
	s.metrics.YieldPrediction.Observe(*advice.YieldTonsPerAcre)
	s.logger.Info("advice computed",
		"city", s.city,
		"moisture_pct", soil.MoisturePct,
		"ph", soil.PH,
		"temperature_c", advice.Weather.TemperatureC,
		"yield", advice.YieldDisplay,
		"crops", domain.JoinCrops(advice.Crops),
	)

	s.publish(ctx, advice)
	return advice, nil
}

// publish sends the advice downstream within publishTimeout. Failures are
// logged and counted only.
func (s *Service) publish(ctx context.Context, advice domain.Advice) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	event := domain.AdvisoryEvent{ID: uuid.NewString(), Advice: advice}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("publish advisory event failed", "event_id", event.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}
