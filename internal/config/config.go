package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// OpenWeatherMap configuration.
	WeatherAPIKey  string
	WeatherCity    string
	WeatherBaseURL string
	WeatherUnits   string
	WeatherTimeout time.Duration

	// Optional reading cache; a zero TTL disables it.
	WeatherCacheTTL  time.Duration
	WeatherCacheSize int

	WeatherBreakerFailures int
	WeatherBreakerOpen     time.Duration

	// Advisory event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	// Upper bound on a single publish so a stuck broker cannot hold a request.
	KafkaPublishTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_CACHE_TTL", "0s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid WEATHER_CACHE_TTL")
	}

	breakerOpen, err := parsePositiveDuration("WEATHER_BREAKER_OPEN", "30s")
	if err != nil {
		return nil, err
	}

	breakerFailures, err := parsePositiveInt("WEATHER_BREAKER_FAILURES", 5)
	if err != nil {
		return nil, err
	}

	publishTimeout, err := parsePositiveDuration("KAFKA_PUBLISH_TIMEOUT", "2s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherCity:    sharedcfg.EnvOrDefault("WEATHER_CITY", "Nashik,IN"),
		WeatherBaseURL: sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		WeatherUnits:   sharedcfg.EnvOrDefault("WEATHER_UNITS", "metric"),
		WeatherTimeout: weatherTimeout,

		WeatherCacheTTL:  cacheTTL,
		WeatherCacheSize: parseCacheSize(),

		WeatherBreakerFailures: breakerFailures,
		WeatherBreakerOpen:     breakerOpen,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "farm-advisories"),

		KafkaPublishTimeout: publishTimeout,
	}

	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_API_KEY is required")
	}
	if cfg.WeatherCity == "" {
		return nil, errors.New("WEATHER_CITY is required")
	}
	switch cfg.WeatherUnits {
	case "metric", "imperial", "standard":
	default:
		return nil, fmt.Errorf("invalid WEATHER_UNITS %q", cfg.WeatherUnits)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// WeatherCacheEnabled reports whether readings should be cached.
func (c *Config) WeatherCacheEnabled() bool {
	return c.WeatherCacheTTL > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 16
}
