package openweather

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
)

// BreakerProvider guards a WeatherProvider with a circuit breaker. While the
// breaker is open, fetches fail immediately instead of waiting on the timeout.
type BreakerProvider struct {
	inner   domain.WeatherProvider
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Metrics
}

// NewBreakerProvider trips after maxFailures consecutive errors and stays open for openFor.
func NewBreakerProvider(inner domain.WeatherProvider, maxFailures int, openFor time.Duration, metrics *observability.Metrics, logger *slog.Logger) *BreakerProvider {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &BreakerProvider{
		inner:   inner,
		metrics: metrics,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openweather",
			Timeout: openFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= uint32(maxFailures)
			},
			// A caller going away says nothing about upstream health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("weather circuit breaker state change",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
				if to == gobreaker.StateOpen {
					metrics.WeatherBreakerOpen.Set(1)
				} else {
					metrics.WeatherBreakerOpen.Set(0)
				}
			},
		}),
	}
}

func (b *BreakerProvider) CurrentWeather(ctx context.Context, city string) (domain.WeatherReading, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.CurrentWeather(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.metrics.WeatherFetches.WithLabelValues("breaker_open").Inc()
		}
		return domain.WeatherReading{}, err
	}
	return res.(domain.WeatherReading), nil
}

// State exposes the breaker state for readiness reporting and tests.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
