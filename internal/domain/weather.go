package domain

import (
	"context"
	"log/slog"
)

// WeatherUnavailableWarning is shown in place of the weather, yield and crop sections.
const WeatherUnavailableWarning = "Unable to fetch live weather data. Please check API key or internet connection."

// WeatherProvider fetches the current weather for a city.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (WeatherReading, error)
}

// WeatherResult is either an available reading or an unavailable marker with
// a user-facing warning. The cause of unavailability is not retained.
type WeatherResult struct {
	Reading   WeatherReading
	Available bool
	Warning   string
}

// WeatherAvailable wraps a successful reading.
func WeatherAvailable(r WeatherReading) WeatherResult {
	return WeatherResult{Reading: r, Available: true}
}

// WeatherUnavailable is the result for any failed fetch.
func WeatherUnavailable() WeatherResult {
	return WeatherResult{Warning: WeatherUnavailableWarning}
}

// FetchWeather asks provider for the city's weather and collapses any error
// into an unavailable result. A nil provider is treated as unavailable.
func FetchWeather(ctx context.Context, provider WeatherProvider, city string, logger *slog.Logger) WeatherResult {
	if provider == nil {
		logger.Warn("weather provider not configured", "city", city)
		return WeatherUnavailable()
	}

	reading, err := provider.CurrentWeather(ctx, city)
	if err != nil {
		logger.Warn("weather fetch failed",
			"city", city,
			"error", err,
		)
		return WeatherUnavailable()
	}
	return WeatherAvailable(reading)
}

// BuildAdvice assembles the response for one request. When weather is
// unavailable only the warning is set. Otherwise a fresh model is fitted and
// evaluated and the crop table consulted with the live temperature.
func BuildAdvice(city string, soil SoilSample, weather WeatherResult) (Advice, error) {
	advice := Advice{
		City:        city,
		Soil:        soil,
		GeneratedAt: now(),
	}
	if !weather.Available {
		advice.Warning = weather.Warning
		if advice.Warning == "" {
			advice.Warning = WeatherUnavailableWarning
		}
		return advice, nil
	}

	reading := weather.Reading
	advice.WeatherAvailable = true
	advice.Weather = &reading

	model, err := FitDefault()
	if err != nil {
		return Advice{}, err
	}
	predicted := model.Predict(NewFeatures(reading, soil))
	advice.YieldTonsPerAcre = &predicted
	advice.YieldDisplay = FormatYield(predicted)
	advice.Crops = SuggestCrops(soil.PH, reading.TemperatureC)
	return advice, nil
}
