// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max.
// If min exceeds the floating point, then the function returns the min.
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Linspace returns num evenly spaced values over the closed interval
// [min, max]. A single requested value is placed at the interval
// midpoint.
func Linspace(min, max float64, num int) []float64 {
	if num < 1 {
		panic("linspace: need at least one value")
	}
	if num == 1 {
		return []float64{(min + max) / 2}
	}

	values := make([]float64, num)
	spacing := (max - min) / float64(num-1)
	for i := range values {
		values[i] = min + float64(i)*spacing
	}
	return values
}
