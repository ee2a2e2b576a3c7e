// SPDX-License-Identifier: EPL-2.0

package stream

import "github.com/ik5/notecore/utils"

// Copy converts n samples from src[srcOff:] into dst[dstOff:] and returns
// the number of samples written. The count is clamped to what both
// buffers hold.
//
// Integer to integer copies rescale by powers of two, so widening is exact.
// Floating point samples are taken as [-1, 1]. Complex to complex keeps both
// parts, any other pairing with complex uses the real part only.
func Copy(dst *Buffer, dstOff int, src *Buffer, srcOff int, n int) int {
	if dst == nil || src == nil || n <= 0 || dstOff < 0 || srcOff < 0 {
		return 0
	}

	n = min(n, dst.Len()-dstOff, src.Len()-srcOff)
	if n <= 0 {
		return 0
	}

	df, sf := dst.format, src.format
	switch {
	case df == sf || (storage(df) == storage(sf) && df.Bits() == sf.Bits()):
		copySame(dst, dstOff, src, srcOff, n)
	case df.IsInteger() && sf.IsInteger():
		from, to := sf.Bits(), df.Bits()
		for i := range n {
			dst.SetInt(dstOff+i, utils.RescaleInt(src.Int(srcOff+i), from, to))
		}
	case df == Complex || sf == Complex:
		for i := range n {
			dst.SetComplexAt(dstOff+i, src.ComplexAt(srcOff+i))
		}
	default:
		for i := range n {
			dst.SetAt(dstOff+i, src.At(srcOff+i))
		}
	}

	return n
}

// storage identifies the Go slice type backing a format.
func storage(f Format) int {
	switch f {
	case Signed24, Signed32:
		return int(Signed32)
	}

	return int(f)
}

func copySame(dst *Buffer, dstOff int, src *Buffer, srcOff int, n int) {
	switch d := dst.data.(type) {
	case []int8:
		copy(d[dstOff:dstOff+n], Data[int8](src)[srcOff:])
	case []int16:
		copy(d[dstOff:dstOff+n], Data[int16](src)[srcOff:])
	case []int32:
		copy(d[dstOff:dstOff+n], Data[int32](src)[srcOff:])
	case []int64:
		copy(d[dstOff:dstOff+n], Data[int64](src)[srcOff:])
	case []float32:
		copy(d[dstOff:dstOff+n], Data[float32](src)[srcOff:])
	case []float64:
		copy(d[dstOff:dstOff+n], Data[float64](src)[srcOff:])
	case []complex128:
		copy(d[dstOff:dstOff+n], Data[complex128](src)[srcOff:])
	}
}

// Convert returns a heap copy of b in format f.
func Convert(b *Buffer, f Format) *Buffer {
	out := Alloc(b.Len(), f)
	if out == nil {
		return nil
	}

	Copy(out, 0, b, 0, b.Len())
	return out
}
