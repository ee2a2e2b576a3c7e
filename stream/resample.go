// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/utils"
)

// ResampledLength returns the number of frames n frames at oldRate occupy
// at newRate.
func ResampledLength(n, oldRate, newRate int) int {
	if oldRate <= 0 || newRate <= 0 || n <= 0 {
		return 0
	}

	return int(int64(n) * int64(newRate) / int64(oldRate))
}

// Resample converts the flat buffer src from oldRate to newRate with
// Catmull-Rom interpolation and returns a new heap buffer of the same
// format. The output holds ResampledLength(src.Len(), oldRate, newRate)
// samples. Invalid rates log a warning and yield nil.
func Resample(src *Buffer, oldRate, newRate int) *Buffer {
	if src == nil {
		return nil
	}
	if oldRate <= 0 || newRate <= 0 {
		logx.Warn("stream: resample with invalid rate", "old", oldRate, "new", newRate)
		return nil
	}

	n := src.Len()
	outLen := ResampledLength(n, oldRate, newRate)
	out := Alloc(outLen, src.format)
	if out == nil || outLen == 0 {
		return out
	}

	if oldRate == newRate {
		Copy(out, 0, src, 0, n)
		return out
	}

	ratio := float64(oldRate) / float64(newRate)
	at := func(i int) int {
		return min(max(i, 0), n-1)
	}

	complexFormat := src.format == Complex
	for i := range outLen {
		pos := float64(i) * ratio
		idx := int(pos)
		x := pos - float64(idx)

		i0, i1, i2, i3 := at(idx-1), at(idx), at(idx+1), at(idx+2)

		if complexFormat {
			z0, z1, z2, z3 := src.ComplexAt(i0), src.ComplexAt(i1), src.ComplexAt(i2), src.ComplexAt(i3)
			re := utils.CubicInterpolate(real(z0), real(z1), real(z2), real(z3), x)
			im := utils.CubicInterpolate(imag(z0), imag(z1), imag(z2), imag(z3), x)
			out.SetComplexAt(i, complex(re, im))
			continue
		}

		out.SetAt(i, utils.CubicInterpolate(src.At(i0), src.At(i1), src.At(i2), src.At(i3), x))
	}

	return out
}
