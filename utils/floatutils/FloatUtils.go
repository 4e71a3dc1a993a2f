// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// IsFinite returns whether value is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// AllFinite returns whether every value in a list is finite
func AllFinite(values ...float64) bool {
	for _, value := range values {
		if !IsFinite(value) {
			return false
		}
	}
	return true
}
