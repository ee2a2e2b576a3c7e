// SPDX-License-Identifier: EPL-2.0

// Package soundcard describes the clock the notation engine is driven by.
//
// The engine never talks to audio hardware. It asks a Soundcard where the
// current period sits on the musical grid: which tick (NoteOffset), which
// 256th subdivisions start inside the period (Note256thOffset) and at which
// frame inside the period they start (Note256thAttack).
package soundcard

import "github.com/ik5/notecore/stream"

const (
	DefaultSamplerate = 44100
	DefaultBufferSize = 512
	DefaultChannels   = 2
	DefaultFormat     = stream.Signed16

	DefaultBPM = 120.0
	// DefaultDelayFactor makes one tick a 16th note.
	DefaultDelayFactor = 1.0 / 4.0
	DefaultTact        = DefaultDelayFactor
	// DefaultPeriod is the length of the tic table the delay counters cycle
	// through.
	DefaultPeriod = 64

	// DefaultDelay is the number of periods one tick lasts at the default
	// presets and tempo.
	DefaultDelay = 60.0 * (float64(DefaultSamplerate) / float64(DefaultBufferSize)) / DefaultBPM *
		((1.0 / 16.0) * (1.0 / DefaultDelayFactor))
)

// Presets is the stream configuration of a soundcard.
type Presets struct {
	Channels   int
	Samplerate int
	BufferSize int
	Format     stream.Format
}

// DefaultPresets returns the presets used when none are configured.
func DefaultPresets() Presets {
	return Presets{
		Channels:   DefaultChannels,
		Samplerate: DefaultSamplerate,
		BufferSize: DefaultBufferSize,
		Format:     DefaultFormat,
	}
}

// Soundcard is what the engine queries once per period.
//
// Offsets are absolute grid positions: a tick is one notation unit and
// holds 16 256th units. Attacks are frame offsets inside the current period.
type Soundcard interface {
	Presets() Presets

	// Delay is the number of periods one tick lasts.
	Delay() float64
	AbsoluteDelay() float64

	// NoteOffset is the tick the current period starts in.
	NoteOffset() uint64
	// Attack is the frame, inside the current period, the current tick
	// started at.
	Attack() int

	// Note256thOffset returns the first and last 256th starting inside the
	// current period. upper < lower when none does.
	Note256thOffset() (lower, upper uint64)
	// Note256thAttack returns the frames inside the current period the
	// 256ths reported by Note256thOffset start at.
	Note256thAttack() (lower, upper int)
	// Note256thAttackAtPosition returns the frame, inside its period, the
	// 256th at pos starts at.
	Note256thAttackAtPosition(pos uint64) int
	// Note256thAttackPosition returns the positions inside their tick
	// (0..15) of the 256ths reported by Note256thOffset.
	Note256thAttackPosition() (lower, upper int)

	// CalcNextNote256thOffset is Note256thOffset for the following period.
	CalcNextNote256thOffset() (lower, upper uint64)
	// CalcNextNote256thAttack is Note256thAttack for the following period.
	CalcNextNote256thAttack() (lower, upper int)
}

// ComputeDelay returns the number of periods one tick lasts.
func ComputeDelay(samplerate, bufferSize int, bpm, delayFactor float64) float64 {
	if samplerate <= 0 || bufferSize <= 0 || bpm <= 0 || delayFactor <= 0 {
		return DefaultDelay
	}

	return 60.0 * (float64(samplerate) / float64(bufferSize)) / bpm *
		((1.0 / 16.0) * (1.0 / delayFactor))
}
