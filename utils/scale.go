// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// ClampUnit clamps x to [-1, 1].
func ClampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}

	return x
}

// FullScale returns 2^(bits-1), the magnitude of the most negative value of
// a signed integer sample that is bits wide.
func FullScale(bits uint) float64 {
	return math.Ldexp(1, int(bits)-1)
}

// IntToUnit maps a signed integer sample of the given width onto [-1, 1).
func IntToUnit(v int64, bits uint) float64 {
	return float64(v) / FullScale(bits)
}

// UnitToInt maps a normalized sample onto a signed integer of the given
// width. Out of range input saturates.
func UnitToInt(x float64, bits uint) int64 {
	scale := FullScale(bits)
	f := math.Round(x * scale)

	if f >= scale {
		if bits >= 64 {
			return math.MaxInt64
		}
		return int64(scale) - 1
	}
	if f <= -scale {
		if bits >= 64 {
			return math.MinInt64
		}
		return -int64(scale)
	}

	return int64(f)
}

// RescaleInt converts an integer sample from one width to another.
// Widening is exact, narrowing rounds to nearest.
func RescaleInt(v int64, from, to uint) int64 {
	if from == to {
		return v
	}
	if to > from {
		return v << (to - from)
	}

	shift := from - to
	// round half away from zero before dropping the low bits
	half := int64(1) << (shift - 1)
	hi := int64(1)<<(to-1) - 1
	lo := -(int64(1) << (to - 1))
	if v > math.MaxInt64-half {
		return hi
	}
	if v == math.MinInt64 {
		return lo
	}

	var r int64
	if v >= 0 {
		r = (v + half) >> shift
	} else {
		r = -((-v + half) >> shift)
	}

	if r > hi {
		return hi
	}
	if r < lo {
		return lo
	}

	return r
}
