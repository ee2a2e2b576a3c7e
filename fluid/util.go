// SPDX-License-Identifier: EPL-2.0

package fluid

import (
	"math"

	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/stream"
)

const (
	DefaultSamplerate   = 44100
	DefaultBaseKey      = 0.0
	DefaultVibratoGain  = 1.0
	DefaultVibratoDepth = 1.0
	DefaultVibratoFreq  = 6.0
)

// Util pitches Source into Destination. It is a parameter bag: set the
// fields, call Pitch, and keep the value around when processing a stream
// period by period so the vibrato stays continuous.
type Util struct {
	Source       *stream.Buffer
	SourceStride int

	Destination       *stream.Buffer
	DestinationStride int

	// BufferLength is the number of output samples.
	BufferLength int
	Format       stream.Format
	Samplerate   int

	// BaseKey is the key the source was recorded at, Tuning the shift in
	// cents applied to it.
	BaseKey float64
	Tuning  float64

	// PhaseIncrement is the source step of the last output sample.
	PhaseIncrement float64

	VibratoEnabled  bool
	VibratoGain     float64
	VibratoLFODepth float64
	VibratoLFOFreq  float64
	// VibratoTuning detunes the LFO frequency, in cents.
	VibratoTuning float64
	// VibratoLFOOffset counts the output samples the LFO has advanced.
	VibratoLFOOffset uint64
}

// New returns a Util with default tuning and vibrato settings.
func New() *Util {
	return &Util{
		SourceStride:      1,
		DestinationStride: 1,
		Format:            stream.DefaultFormat,
		Samplerate:        DefaultSamplerate,
		BaseKey:           DefaultBaseKey,
		PhaseIncrement:    1,
		VibratoGain:       DefaultVibratoGain,
		VibratoLFODepth:   DefaultVibratoDepth,
		VibratoLFOFreq:    DefaultVibratoFreq,
	}
}

// increment returns the source step for a pitch offset of cents on top of
// Tuning.
func (u *Util) increment(cents float64) float64 {
	root := math.Exp2((u.BaseKey-48)/12) * 440
	incr := math.Exp2((u.BaseKey-48+(u.Tuning+cents)/100)/12) * 440 / root

	if incr == 0 {
		return 1
	}

	return incr
}

// nextIncrement returns the step for the next output sample and advances
// the LFO when vibrato is on.
func (u *Util) nextIncrement(static float64) float64 {
	if !u.VibratoEnabled {
		return static
	}

	rate := float64(u.Samplerate)
	if rate <= 0 {
		rate = DefaultSamplerate
	}

	freq := u.VibratoLFOFreq * math.Exp2(u.VibratoTuning/1200)
	phase := 2 * math.Pi * freq * float64(u.VibratoLFOOffset) / rate
	u.VibratoLFOOffset++

	return u.increment(100 * u.VibratoGain * math.Sin(phase) * u.VibratoLFODepth)
}

// Pitch writes BufferLength samples to Destination. Missing buffers make it
// a no-op; an unknown format or a buffer not in Format logs a warning and
// does nothing.
func (u *Util) Pitch() {
	if u == nil || u.Source == nil || u.Destination == nil {
		return
	}
	if !u.Format.Valid() {
		logx.Warn("fluid: pitch of unknown format", "format", u.Format)
		return
	}
	if u.Source.Format() != u.Format || u.Destination.Format() != u.Format {
		logx.Warn("fluid: buffer format does not match",
			"format", u.Format, "source", u.Source.Format(), "destination", u.Destination.Format())
		return
	}
	if u.BufferLength <= 0 {
		return
	}

	switch u.Format {
	case stream.Signed8:
		pitch(u, stream.Data[int8](u.Source), stream.Data[int8](u.Destination), saturate[int8](8))
	case stream.Signed16:
		pitch(u, stream.Data[int16](u.Source), stream.Data[int16](u.Destination), saturate[int16](16))
	case stream.Signed24:
		pitch(u, stream.Data[int32](u.Source), stream.Data[int32](u.Destination), saturate[int32](24))
	case stream.Signed32:
		pitch(u, stream.Data[int32](u.Source), stream.Data[int32](u.Destination), saturate[int32](32))
	case stream.Signed64:
		pitch(u, stream.Data[int64](u.Source), stream.Data[int64](u.Destination), saturate[int64](64))
	case stream.Float:
		pitch(u, stream.Data[float32](u.Source), stream.Data[float32](u.Destination), storeFloat[float32])
	case stream.Double:
		pitch(u, stream.Data[float64](u.Source), stream.Data[float64](u.Destination), storeFloat[float64])
	case stream.Complex:
		pitchComplex(u, stream.Data[complex128](u.Source), stream.Data[complex128](u.Destination))
	}
}

// cursor walks the source with a 32.32 fixed point phase.
type cursor struct {
	table     *[Rows][Order]float64
	frames    int
	srcStride int
	dstStride int
	n         int
	phase     uint64
	static    float64
}

func newCursor(u *Util, srcLen, dstLen int) cursor {
	ss := max(u.SourceStride, 1)
	ds := max(u.DestinationStride, 1)

	c := cursor{
		table:     coefficients(),
		frames:    (srcLen + ss - 1) / ss,
		srcStride: ss,
		dstStride: ds,
		n:         min(u.BufferLength, (dstLen+ds-1)/ds),
		// half a sample, the 7 tap window is centred on the 4th tap
		phase:  0x80000000,
		static: u.increment(0),
	}
	if c.frames == 0 {
		c.n = 0
	}

	return c
}

// row returns the coefficients for the current fractional position.
func (c *cursor) row() *[Order]float64 {
	return &c.table[uint32(c.phase)>>24]
}

// tap returns the source index of tap t. Taps before the start read the
// first sample. Taps past the end read the last sample.
func (c *cursor) tap(t int) int {
	k := int(c.phase>>32) - Order/2 + t

	return min(max(k, 0), c.frames-1) * c.srcStride
}

func (c *cursor) advance(incr float64) {
	whole := math.Floor(incr)
	c.phase += uint64(whole)<<32 | uint64(uint32((incr-whole)*4294967296.0))
}

func pitch[T sample](u *Util, src, dst []T, store func(float64) T) {
	c := newCursor(u, len(src), len(dst))

	for i := range c.n {
		incr := u.nextIncrement(c.static)

		var sum float64
		for t, w := range c.row() {
			sum += w * float64(src[c.tap(t)])
		}
		dst[i*c.dstStride] = store(sum)

		c.advance(incr)
		u.PhaseIncrement = incr
	}
}

func pitchComplex(u *Util, src, dst []complex128) {
	c := newCursor(u, len(src), len(dst))

	for i := range c.n {
		incr := u.nextIncrement(c.static)

		var sum complex128
		for t, w := range c.row() {
			sum += complex(w, 0) * src[c.tap(t)]
		}
		dst[i*c.dstStride] = sum

		c.advance(incr)
		u.PhaseIncrement = incr
	}
}

type sample interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func storeFloat[T ~float32 | ~float64](x float64) T {
	return T(x)
}

// saturate returns a store function clamping to a signed bits wide range.
func saturate[T ~int8 | ~int16 | ~int32 | ~int64](bits uint) func(float64) T {
	hi := int64(1)<<(bits-1) - 1
	lo := -hi - 1
	limit := math.Ldexp(1, int(bits-1))

	return func(x float64) T {
		switch {
		case x >= limit:
			return T(hi)
		case x < -limit:
			return T(lo)
		}
		return T(x)
	}
}
