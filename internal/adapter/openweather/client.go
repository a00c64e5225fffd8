package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
)

// DefaultBaseURL is the public OpenWeatherMap API host.
const DefaultBaseURL = "https://api.openweathermap.org"

// Client implements domain.WeatherProvider using the OpenWeatherMap current weather API.
type Client struct {
	apiKey     string
	units      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL, units string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		units:  units,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentWeather fetches the current conditions for a city query such as "Nashik,IN".
func (c *Client) CurrentWeather(ctx context.Context, city string) (domain.WeatherReading, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {c.units},
	}
	fullURL := c.baseURL + "/data/2.5/weather?" + params.Encode()

	start := time.Now()
	reading, err := c.doRequest(ctx, fullURL)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherFetches.WithLabelValues("error").Inc()
		return domain.WeatherReading{}, err
	}
	c.metrics.WeatherFetches.WithLabelValues("success").Inc()
	c.logger.Debug("weather fetched",
		"city", city,
		"temperature_c", reading.TemperatureC,
		"humidity_pct", reading.HumidityPct,
	)
	return reading, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.WeatherReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.WeatherReading{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, errorMessage(body))
	}

	var owmResp response
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("decode response: %w", err)
	}
	return owmResp.reading()
}

// errorMessage extracts the "message" field OpenWeatherMap sends with errors,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if len(body) == 0 {
		return "Unknown error"
	}
	return string(body)
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// OpenWeatherMap API response types.

type response struct {
	Main    *mainBlock  `json:"main"`
	Weather []condition `json:"weather"`
}

type mainBlock struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
}

type condition struct {
	Description string `json:"description"`
}

type apiError struct {
	Message string `json:"message"`
}

func (r response) reading() (domain.WeatherReading, error) {
	if r.Main == nil || r.Main.Temp == nil || r.Main.Humidity == nil || r.Main.Pressure == nil {
		return domain.WeatherReading{}, errors.New("malformed response: missing main block fields")
	}
	if len(r.Weather) == 0 {
		return domain.WeatherReading{}, errors.New("malformed response: missing weather conditions")
	}
	return domain.WeatherReading{
		TemperatureC: *r.Main.Temp,
		HumidityPct:  *r.Main.Humidity,
		PressureHpa:  *r.Main.Pressure,
		Description:  capitalize(r.Weather[0].Description),
	}, nil
}
