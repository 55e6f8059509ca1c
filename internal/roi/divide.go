package roi

import "math"

// SafeDivide returns numerator/denominator, or 0 when the denominator is
// zero or the result would not be a finite number.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 || !finite(numerator) || !finite(denominator) {
		return 0
	}
	q := numerator / denominator
	if !finite(q) {
		return 0
	}
	return q
}

// SafeRatio is SafeDivide over left-join results: a nil operand yields 0.
func SafeRatio(numerator, denominator *float64) float64 {
	if numerator == nil || denominator == nil {
		return 0
	}
	return SafeDivide(*numerator, *denominator)
}

// ROAS is return on ad spend: revenue per unit of payout.
func ROAS(revenue, payout *float64) float64 {
	return SafeRatio(revenue, payout)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// amount clamps a value into the non-negative range used by every sum.
func amount(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

func count(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func ptr[T any](v T) *T { return &v }
