package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the advisor.
type Metrics struct {
	AdviceRequests  *prometheus.CounterVec // labels: outcome={full,weather_unavailable,error}
	YieldPrediction prometheus.Histogram

	// Weather provider metrics.
	WeatherFetches     *prometheus.CounterVec // labels: outcome={success,error,breaker_open}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram
	WeatherBreakerOpen prometheus.Gauge

	// Advisory event publishing.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all advisor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all advisor metrics and registers them with reg.
// One-shot tools pass a private registry that is never served.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()

	reg.MustRegister(
		m.AdviceRequests,
		m.YieldPrediction,
		m.WeatherFetches,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.WeatherBreakerOpen,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AdviceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_advisor",
			Name:      "advice_requests_total",
			Help:      "Advice requests by outcome.",
		}, []string{"outcome"}),
		YieldPrediction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "farm_advisor",
			Name:      "yield_prediction_tons_per_acre",
			Help:      "Predicted crop yield returned to callers.",
			Buckets:   []float64{0.5, 1, 1.5, 1.75, 2, 2.25, 2.5, 3, 4},
		}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_advisor",
			Name:      "weather_fetches_total",
			Help:      "Weather API fetches by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farm_advisor",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "farm_advisor",
			Name:      "weather_api_duration_seconds",
			Help:      "OpenWeatherMap API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherBreakerOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "farm_advisor",
			Name:      "weather_breaker_open",
			Help:      "1 when the weather circuit breaker is open, 0 otherwise.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farm_advisor",
			Name:      "events_published_total",
			Help:      "Advisory events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "farm_advisor",
			Name:      "publish_errors_total",
			Help:      "Advisory events that failed to publish.",
		}),
	}
}
