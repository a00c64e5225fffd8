package advisor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/farm-advisor-service/internal/advisor"
	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCity = "Nashik,IN"

// --- mocks ---

type mockProvider struct {
	reading domain.WeatherReading
	err     error
	calls   int
}

func (m *mockProvider) CurrentWeather(_ context.Context, _ string) (domain.WeatherReading, error) {
	m.calls++
	return m.reading, m.err
}

type mockPublisher struct {
	events []domain.AdvisoryEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, event domain.AdvisoryEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// stuckPublisher blocks until its context ends, like a broker that accepts
// the connection and never answers.
type stuckPublisher struct {
	hadDeadline bool
}

func (p *stuckPublisher) Publish(ctx context.Context, _ domain.AdvisoryEvent) error {
	_, p.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(p domain.WeatherProvider, pub advisor.Publisher) (*advisor.Service, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return advisor.New(p, testCity, pub, discardLogger(), m), m
}

// --- tests ---

func TestAdvise_WeatherUnavailable(t *testing.T) {
	provider := &mockProvider{err: errors.New("dial tcp: i/o timeout")}
	pub := &mockPublisher{}
	svc, m := newService(provider, pub)

	advice, err := svc.Advise(context.Background(), domain.SoilSample{MoisturePct: 50, PH: 6.8})
	require.NoError(t, err)

	assert.False(t, advice.WeatherAvailable)
	assert.False(t, advice.HasPrediction())
	assert.Empty(t, advice.Crops)
	assert.Equal(t, domain.WeatherUnavailableWarning, advice.Warning)
	assert.Empty(t, pub.events, "nothing is published without a prediction")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdviceRequests.WithLabelValues("weather_unavailable")))
}

func TestAdvise_WarmNeutralSoil(t *testing.T) {
	provider := &mockProvider{reading: domain.WeatherReading{TemperatureC: 28, HumidityPct: 65, PressureHpa: 1009, Description: "Haze"}}
	pub := &mockPublisher{}
	svc, m := newService(provider, pub)

	advice, err := svc.Advise(context.Background(), domain.SoilSample{MoisturePct: 50, PH: 6.8})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sugarcane", "Corn", "Sunflower"}, advice.Crops)
	require.NotNil(t, advice.YieldTonsPerAcre)
	assert.InDelta(t, 1.9054, *advice.YieldTonsPerAcre, 1e-3)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdviceRequests.WithLabelValues("full")))

	require.Len(t, pub.events, 1)
	_, err = uuid.Parse(pub.events[0].ID)
	assert.NoError(t, err)
	if diff := cmp.Diff(advice, pub.events[0].Advice); diff != "" {
		t.Errorf("published advice mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished))
}

func TestAdvise_EachCallFetchesWeather(t *testing.T) {
	provider := &mockProvider{reading: domain.WeatherReading{TemperatureC: 18, HumidityPct: 40}}
	svc, _ := newService(provider, nil)

	for i := 0; i < 3; i++ {
		advice, err := svc.Advise(context.Background(), domain.DefaultSoilSample())
		require.NoError(t, err)
		assert.Equal(t, []string{"Wheat", "Barley", "Soybean"}, advice.Crops)
	}
	assert.Equal(t, 3, provider.calls)
}

func TestAdvise_PublishFailureIsNotSurfaced(t *testing.T) {
	provider := &mockProvider{reading: domain.WeatherReading{TemperatureC: 30, HumidityPct: 70}}
	pub := &mockPublisher{err: errors.New("kafka: leader not available")}
	svc, m := newService(provider, pub)

	advice, err := svc.Advise(context.Background(), domain.SoilSample{MoisturePct: 20, PH: 5.0})
	require.NoError(t, err)

	assert.Equal(t, []string{"Rice", "Potato", "Maize"}, advice.Crops)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EventsPublished))
}

func TestAdvise_StuckPublisherIsBounded(t *testing.T) {
	provider := &mockProvider{reading: domain.WeatherReading{TemperatureC: 28, HumidityPct: 65}}
	pub := &stuckPublisher{}
	svc, m := newService(provider, pub)
	svc.SetPublishTimeout(20 * time.Millisecond)

	start := time.Now()
	advice, err := svc.Advise(context.Background(), domain.SoilSample{MoisturePct: 50, PH: 6.8})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, advice.HasPrediction())
	assert.True(t, pub.hadDeadline)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishErrors))
}

func TestWeather_FetchesWithoutAdvising(t *testing.T) {
	provider := &mockProvider{reading: domain.WeatherReading{TemperatureC: 22, Description: "Clear sky"}}
	pub := &mockPublisher{}
	svc, m := newService(provider, pub)

	result := svc.Weather(context.Background())

	assert.True(t, result.Available)
	assert.Equal(t, "Clear sky", result.Reading.Description)
	assert.Equal(t, 1, provider.calls)
	assert.Empty(t, pub.events)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AdviceRequests.WithLabelValues("full")))

	provider.err = errors.New("status 401")
	result = svc.Weather(context.Background())
	assert.False(t, result.Available)
	assert.Equal(t, domain.WeatherUnavailableWarning, result.Warning)
}

func TestNilProviderDegrades(t *testing.T) {
	svc, _ := newService(nil, nil)

	advice, err := svc.Advise(context.Background(), domain.DefaultSoilSample())
	require.NoError(t, err)
	assert.False(t, advice.HasPrediction())
}

func TestReadiness(t *testing.T) {
	svc, _ := newService(&mockProvider{}, nil)

	require.Error(t, svc.CheckReadiness(context.Background()))
	require.NoError(t, svc.SelfCheck())
	assert.NoError(t, svc.CheckReadiness(context.Background()))
	assert.Equal(t, testCity, svc.City())
}
