package sizing

import (
	"math"
	"strconv"
	"strings"
)

// ParseFractionalInch adds a "<num>/<den>" fraction to a whole inch value.
// An empty fraction contributes nothing. An unparseable one also contributes
// nothing and reports ok=false.
func ParseFractionalInch(whole float64, fraction string) (value float64, ok bool) {
	trimmed := strings.TrimSpace(fraction)
	if trimmed == "" {
		return whole, true
	}
	num, den, found := strings.Cut(trimmed, "/")
	if !found {
		return whole, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return whole, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return whole, false
	}
	part := n / d
	if math.IsNaN(part) || math.IsInf(part, 0) {
		return whole, false
	}
	return whole + part, true
}

// RoundUp raises value to the next multiple of threshold. A threshold of zero
// or less leaves the value untouched.
func RoundUp(value, threshold float64) float64 {
	if threshold <= 0 {
		return value
	}
	return math.Ceil(value/threshold) * threshold
}
