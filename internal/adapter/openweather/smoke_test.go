//go:build openweather

package openweather

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real OpenWeatherMap API and require WEATHER_API_KEY.
// Run with: go test -tags=openweather ./internal/adapter/openweather/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("WEATHER_API_KEY")
	if key == "" {
		t.Fatal("WEATHER_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, DefaultBaseURL, "metric", 10*time.Second, testMetrics(), discardLogger())
}

func TestSmoke_CurrentWeather(t *testing.T) {
	c := smokeClient(t)

	reading, err := c.CurrentWeather(context.Background(), testCity)
	require.NoError(t, err)

	assert.Greater(t, reading.TemperatureC, -20.0)
	assert.Less(t, reading.TemperatureC, 55.0)
	assert.GreaterOrEqual(t, reading.HumidityPct, 0.0)
	assert.Greater(t, reading.PressureHpa, 800.0)
	assert.NotEmpty(t, reading.Description)
}

func TestSmoke_UnknownCity(t *testing.T) {
	c := smokeClient(t)

	_, err := c.CurrentWeather(context.Background(), "XYZNONEXISTENT99,ZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
