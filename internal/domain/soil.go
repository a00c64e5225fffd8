package domain

import (
	"errors"
	"fmt"
	"math"
)

// Soil input bounds and defaults, matching the dashboard sliders.
const (
	MinMoisturePct     = 0
	MaxMoisturePct     = 100
	DefaultMoisturePct = 50

	MinPH     = 4.0
	MaxPH     = 9.0
	DefaultPH = 6.5
)

// ErrInvalidSoil is returned by NewSoilSample for out-of-range input.
var ErrInvalidSoil = errors.New("invalid soil sample")

// DefaultSoilSample returns the sample used when a caller supplies no input.
func DefaultSoilSample() SoilSample {
	return SoilSample{MoisturePct: DefaultMoisturePct, PH: DefaultPH}
}

// NewSoilSample validates user input against the slider bounds.
func NewSoilSample(moisturePct int, pH float64) (SoilSample, error) {
	if moisturePct < MinMoisturePct || moisturePct > MaxMoisturePct {
		return SoilSample{}, fmt.Errorf("%w: moisture %d outside [%d, %d]", ErrInvalidSoil, moisturePct, MinMoisturePct, MaxMoisturePct)
	}
	if math.IsNaN(pH) || pH < MinPH || pH > MaxPH {
		return SoilSample{}, fmt.Errorf("%w: pH %g outside [%.1f, %.1f]", ErrInvalidSoil, pH, MinPH, MaxPH)
	}
	return SoilSample{MoisturePct: moisturePct, PH: pH}, nil
}
