package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/farm-advisor-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/farm-advisor-service/internal/adapter/kafka"
	"github.com/couchcryptid/farm-advisor-service/internal/adapter/openweather"
	"github.com/couchcryptid/farm-advisor-service/internal/advisor"
	"github.com/couchcryptid/farm-advisor-service/internal/config"
	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	provider := buildProvider(cfg, metrics, logger)

	// Advisory publishing is feature-flagged via KAFKA_ENABLED.
	var publisher advisor.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("advisory publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("advisory publishing disabled")
	}

	svc := advisor.New(provider, cfg.WeatherCity, publisher, logger, metrics)
	svc.SetPublishTimeout(cfg.KafkaPublishTimeout)
	if err := svc.SelfCheck(); err != nil {
		logger.Error("startup self-check failed", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildProvider chains the OpenWeatherMap client, the circuit breaker and,
// when WEATHER_CACHE_TTL is set, the reading cache.
func buildProvider(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.WeatherProvider {
	client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherUnits, cfg.WeatherTimeout, metrics, logger)
	var provider domain.WeatherProvider = openweather.NewBreakerProvider(client, cfg.WeatherBreakerFailures, cfg.WeatherBreakerOpen, metrics, logger)

	if cfg.WeatherCacheEnabled() {
		provider = openweather.NewCachedProvider(provider, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("weather cache enabled", "ttl", cfg.WeatherCacheTTL, "size", cfg.WeatherCacheSize)
	}
	logger.Info("weather provider configured",
		"city", cfg.WeatherCity,
		"units", cfg.WeatherUnits,
		"timeout", cfg.WeatherTimeout,
	)
	return provider
}
