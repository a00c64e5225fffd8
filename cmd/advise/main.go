// Command advise computes one advice for the configured city and prints the
// dashboard sections to stdout. It reads the same environment as the service.
//
// Usage:
//
//	WEATHER_API_KEY=... go run ./cmd/advise --moisture 50 --ph 6.8 --format yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/farm-advisor-service/internal/adapter/openweather"
	"github.com/couchcryptid/farm-advisor-service/internal/advisor"
	"github.com/couchcryptid/farm-advisor-service/internal/config"
	"github.com/couchcryptid/farm-advisor-service/internal/domain"
	"github.com/couchcryptid/farm-advisor-service/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	moisture int
	pH       float64
	format   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Print a yield estimate and crop suggestion for the current weather",
		Long: `Fetch live weather for WEATHER_CITY, combine it with the given soil
moisture and pH, and print the predicted yield and suggested crops.

When weather is unavailable only a warning is printed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdvise(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.moisture, "moisture", domain.DefaultMoisturePct, "soil moisture percentage (0-100)")
	cmd.Flags().Float64Var(&opts.pH, "ph", domain.DefaultPH, "soil pH (4.0-9.0)")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "text", "output format: text, json or yaml")

	return cmd
}

func runAdvise(cmd *cobra.Command, opts *options) error {
	switch opts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", opts.format)
	}

	soil, err := domain.NewSoilSample(opts.moisture, opts.pH)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewTextLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherUnits, cfg.WeatherTimeout, metrics, logger)
	svc := advisor.New(client, cfg.WeatherCity, nil, logger, metrics)

	advice, err := svc.Advise(cmd.Context(), soil)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), advice, opts.format)
}

func render(w io.Writer, advice domain.Advice, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(advice)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(advice); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, renderText(advice))
		return err
	}
}

func renderText(a domain.Advice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Smart Farming Assistant · %s\n\n", a.City)

	b.WriteString("Live Weather Data\n")
	if a.Weather != nil {
		fmt.Fprintf(&b, "  Temperature (°C): %g\n", a.Weather.TemperatureC)
		fmt.Fprintf(&b, "  Humidity (%%):     %g\n", a.Weather.HumidityPct)
		fmt.Fprintf(&b, "  Pressure (hPa):   %g\n", a.Weather.PressureHpa)
		fmt.Fprintf(&b, "  Description:      %s\n", a.Weather.Description)
	}
	if a.Warning != "" {
		fmt.Fprintf(&b, "  Warning: %s\n", a.Warning)
	}

	b.WriteString("\nSoil Data Input\n")
	fmt.Fprintf(&b, "  Soil Moisture (%%): %d\n", a.Soil.MoisturePct)
	fmt.Fprintf(&b, "  Soil pH:           %g\n", a.Soil.PH)

	if a.HasPrediction() {
		b.WriteString("\nPredicted Crop Yield\n")
		fmt.Fprintf(&b, "  Estimated yield: %s\n", a.YieldDisplay)
		b.WriteString("\nSuggested Crops for Current Conditions\n")
		fmt.Fprintf(&b, "  %s\n", domain.JoinCrops(a.Crops))
	}
	return b.String()
}
