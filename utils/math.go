package utils

import "math"

// Round2 rounds a monetary value to two decimal places.
func Round2(val float64) float64 {
	return math.Round(val*100) / 100
}
