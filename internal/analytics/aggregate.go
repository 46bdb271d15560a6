package analytics

import (
	"math"
	"strconv"
)

// Sum adds the values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Average is the arithmetic mean, zero for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Shares converts values into percentages of their total, rounded to one
// decimal. A zero total yields all zeros.
func Shares(values []float64) []float64 {
	out := make([]float64, len(values))
	total := Sum(values)
	if total == 0 {
		return out
	}
	for i, v := range values {
		out[i] = Round1(v / total * 100)
	}
	return out
}

// Margin is (revenue - cost) / revenue as a percentage with one decimal.
func Margin(revenue, cost float64) float64 {
	if revenue == 0 {
		return 0
	}
	return Round1((revenue - cost) / revenue * 100)
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
