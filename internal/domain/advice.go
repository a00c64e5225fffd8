package domain

import "time"

// SoilSample is the user-supplied soil state for one request.
type SoilSample struct {
	MoisturePct int     `json:"moisture_pct" yaml:"moisture_pct"`
	PH          float64 `json:"ph" yaml:"ph"`
}

// WeatherReading is the current weather for the configured city.
type WeatherReading struct {
	TemperatureC float64 `json:"temperature_c" yaml:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct" yaml:"humidity_pct"`
	PressureHpa  float64 `json:"pressure_hpa" yaml:"pressure_hpa"`
	Description  string  `json:"description" yaml:"description"`
}

// Features is the input vector of the yield model.
type Features struct {
	TemperatureC float64
	HumidityPct  float64
	MoisturePct  float64
	PH           float64
}

// NewFeatures combines a weather reading and a soil sample into a model input.
func NewFeatures(w WeatherReading, s SoilSample) Features {
	return Features{
		TemperatureC: w.TemperatureC,
		HumidityPct:  w.HumidityPct,
		MoisturePct:  float64(s.MoisturePct),
		PH:           s.PH,
	}
}

// TrainingRow is one observation of the yield training table.
type TrainingRow struct {
	Features
	Yield float64 // tons per acre
}

// Advice is the assembled answer for one request. Yield and Crops are only
// populated when weather was available.
type Advice struct {
	City             string          `json:"city" yaml:"city"`
	Soil             SoilSample      `json:"soil" yaml:"soil"`
	WeatherAvailable bool            `json:"weather_available" yaml:"weather_available"`
	Weather          *WeatherReading `json:"weather,omitempty" yaml:"weather,omitempty"`
	Warning          string          `json:"warning,omitempty" yaml:"warning,omitempty"`
	YieldTonsPerAcre *float64        `json:"yield_tons_per_acre,omitempty" yaml:"yield_tons_per_acre,omitempty"`
	YieldDisplay     string          `json:"yield_display,omitempty" yaml:"yield_display,omitempty"`
	Crops            []string        `json:"crops,omitempty" yaml:"crops,omitempty"`
	GeneratedAt      time.Time       `json:"generated_at" yaml:"generated_at"`
}

// HasPrediction reports whether the yield and crop sections were produced.
func (a Advice) HasPrediction() bool {
	return a.YieldTonsPerAcre != nil
}

// AdvisoryEvent is the record published downstream for every advice with a prediction.
type AdvisoryEvent struct {
	ID string `json:"id"`
	Advice
}
