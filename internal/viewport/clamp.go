package viewport

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp limits v to [lo, hi]. When lo > hi the upper bound wins.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// floorIndex converts a data-space coordinate to an integer index, rounding toward negative infinity.
func floorIndex[T constraints.Float](v T) int {
	return int(math.Floor(float64(v)))
}
