package domain

import "strings"

// SuggestCrops maps soil pH and air temperature to three crop names.
// It is total over all float inputs.
func SuggestCrops(pH, temperatureC float64) []string {
	switch {
	case pH < 6:
		return []string{"Rice", "Potato", "Maize"}
	case pH >= 6 && pH <= 7:
		if temperatureC < 25 {
			return []string{"Wheat", "Barley", "Soybean"}
		}
		return []string{"Sugarcane", "Corn", "Sunflower"}
	default:
		return []string{"Cotton", "Sorghum", "Groundnut"}
	}
}

// JoinCrops renders a suggestion list for display.
func JoinCrops(crops []string) string {
	return strings.Join(crops, ", ")
}
