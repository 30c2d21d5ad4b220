package task

import (
	"math"
	"strconv"
)

// HoursEpsilon absorbs float noise when comparing hour amounts.
const HoursEpsilon = 1e-9

// HoursLess reports a < b beyond float noise.
func HoursLess(a, b float64) bool {
	return a < b-HoursEpsilon
}

// HoursEqual reports a == b within float noise.
func HoursEqual(a, b float64) bool {
	return math.Abs(a-b) <= HoursEpsilon
}

// HoursPositive reports h > 0 beyond float noise.
func HoursPositive(h float64) bool {
	return h > HoursEpsilon
}

// FormatHours renders hours without trailing zeros: 4, 4.5, 0.25.
func FormatHours(h float64) string {
	return strconv.FormatFloat(math.Round(h*100)/100, 'f', -1, 64)
}
