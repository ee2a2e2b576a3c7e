// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Format is the physical representation of one sample.
// The zero value means "no format set".
type Format int

const (
	Signed8 Format = iota + 1
	Signed16
	// Signed24 samples are stored in 32-bit containers.
	Signed24
	Signed32
	Signed64
	Float
	Double
	// Complex samples are a real and an imaginary double.
	Complex
)

// DefaultFormat is the format used when a soundcard reports none.
const DefaultFormat = Signed16

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f >= Signed8 && f <= Complex
}

// WordSize returns the size in bytes of one stored sample, or 0 for an
// unknown format.
func (f Format) WordSize() int {
	switch f {
	case Signed8:
		return 1
	case Signed16:
		return 2
	case Signed24, Signed32, Float:
		return 4
	case Signed64, Double:
		return 8
	case Complex:
		return 16
	}

	return 0
}

// Bits returns the significant integer width of a signed integer format and
// 0 for the floating point and complex formats.
func (f Format) Bits() uint {
	switch f {
	case Signed8:
		return 8
	case Signed16:
		return 16
	case Signed24:
		return 24
	case Signed32:
		return 32
	case Signed64:
		return 64
	}

	return 0
}

// IsInteger reports whether f stores signed integers.
func (f Format) IsInteger() bool {
	return f.Bits() != 0
}

func (f Format) String() string {
	switch f {
	case Signed8:
		return "s8"
	case Signed16:
		return "s16"
	case Signed24:
		return "s24"
	case Signed32:
		return "s32"
	case Signed64:
		return "s64"
	case Float:
		return "float"
	case Double:
		return "double"
	case Complex:
		return "complex"
	case 0:
		return "none"
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// WordSize is the package level form of Format.WordSize.
func WordSize(f Format) int {
	return f.WordSize()
}
