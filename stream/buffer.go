// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"github.com/ik5/notecore/utils"
)

// Sample is the set of Go types a Buffer stores its samples in.
type Sample interface {
	int8 | int16 | int32 | int64 | float32 | float64 | complex128
}

// Buffer is a fixed-length run of samples in one Format.
type Buffer struct {
	format Format
	data   any
}

func newBuffer(size int, f Format) *Buffer {
	if size < 0 {
		size = 0
	}

	b := &Buffer{format: f}

	switch f {
	case Signed8:
		b.data = make([]int8, size)
	case Signed16:
		b.data = make([]int16, size)
	case Signed24, Signed32:
		b.data = make([]int32, size)
	case Signed64:
		b.data = make([]int64, size)
	case Float:
		b.data = make([]float32, size)
	case Double:
		b.data = make([]float64, size)
	case Complex:
		b.data = make([]complex128, size)
	default:
		return nil
	}

	return b
}

// Data returns the typed samples of b, or nil when T does not match the
// storage type of b's format. Signed24 and Signed32 both use int32.
func Data[T Sample](b *Buffer) []T {
	if b == nil {
		return nil
	}

	s, _ := b.data.([]T)
	return s
}

// Format returns the sample format of b.
func (b *Buffer) Format() Format {
	if b == nil {
		return 0
	}

	return b.format
}

// Len returns the number of samples in b.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}

	switch d := b.data.(type) {
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []complex128:
		return len(d)
	}

	return 0
}

// Clear zeroes every sample.
func (b *Buffer) Clear() {
	b.ClearRange(0, b.Len())
}

// ClearRange zeroes the samples in [from, to).
func (b *Buffer) ClearRange(from, to int) {
	if b == nil {
		return
	}

	from = max(from, 0)
	to = min(to, b.Len())
	if from >= to {
		return
	}

	switch d := b.data.(type) {
	case []int8:
		clear(d[from:to])
	case []int16:
		clear(d[from:to])
	case []int32:
		clear(d[from:to])
	case []int64:
		clear(d[from:to])
	case []float32:
		clear(d[from:to])
	case []float64:
		clear(d[from:to])
	case []complex128:
		clear(d[from:to])
	}
}

// Int returns sample i as a signed integer in the format's own width.
// Floating point samples are scaled to 64 bit.
func (b *Buffer) Int(i int) int64 {
	switch d := b.data.(type) {
	case []int8:
		return int64(d[i])
	case []int16:
		return int64(d[i])
	case []int32:
		return int64(d[i])
	case []int64:
		return d[i]
	}

	return utils.UnitToInt(b.At(i), 64)
}

// SetInt stores v, which must already be in the format's own width.
func (b *Buffer) SetInt(i int, v int64) {
	switch d := b.data.(type) {
	case []int8:
		d[i] = int8(v)
	case []int16:
		d[i] = int16(v)
	case []int32:
		d[i] = int32(v)
	case []int64:
		d[i] = v
	default:
		b.SetAt(i, utils.IntToUnit(v, 64))
	}
}

// At returns sample i normalized to [-1, 1]. Complex samples yield their
// real part.
func (b *Buffer) At(i int) float64 {
	switch d := b.data.(type) {
	case []int8:
		return utils.IntToUnit(int64(d[i]), 8)
	case []int16:
		return utils.IntToUnit(int64(d[i]), 16)
	case []int32:
		return utils.IntToUnit(int64(d[i]), b.format.Bits())
	case []int64:
		return utils.IntToUnit(d[i], 64)
	case []float32:
		return float64(d[i])
	case []float64:
		return d[i]
	case []complex128:
		return real(d[i])
	}

	return 0
}

// SetAt stores the normalized value x at i, saturating integer formats.
func (b *Buffer) SetAt(i int, x float64) {
	switch d := b.data.(type) {
	case []int8:
		d[i] = int8(utils.UnitToInt(x, 8))
	case []int16:
		d[i] = int16(utils.UnitToInt(x, 16))
	case []int32:
		d[i] = int32(utils.UnitToInt(x, b.format.Bits()))
	case []int64:
		d[i] = utils.UnitToInt(x, 64)
	case []float32:
		d[i] = float32(x)
	case []float64:
		d[i] = x
	case []complex128:
		d[i] = complex(x, 0)
	}
}

// ComplexAt returns sample i as a complex value.
func (b *Buffer) ComplexAt(i int) complex128 {
	if d, ok := b.data.([]complex128); ok {
		return d[i]
	}

	return complex(b.At(i), 0)
}

// SetComplexAt stores z at i; real formats keep the real part.
func (b *Buffer) SetComplexAt(i int, z complex128) {
	if d, ok := b.data.([]complex128); ok {
		d[i] = z
		return
	}

	b.SetAt(i, real(z))
}
