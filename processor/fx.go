// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"github.com/ik5/notecore/port"
	"github.com/ik5/notecore/soundcard"
)

// Loop defaults, in ticks.
const (
	DefaultLoopStart = 0
	DefaultLoopEnd   = 64
)

// DefaultDuration is the song length, in ticks, a new FxNotationAudio
// reports.
const DefaultDuration = 16 * 64

// FxNotationAudio holds the ports a NotationAudioProcessor is tuned
// through. Any port may be nil; readers then use the defaults.
type FxNotationAudio struct {
	BPM      *port.Port
	Tact     *port.Port
	Delay    *port.Port
	Duration *port.Port
	// Period is the length of the tic cycle.
	Period *port.Port

	Loop      *port.Port
	LoopStart *port.Port
	LoopEnd   *port.Port
}

// NewFxNotationAudio returns ports holding the defaults.
func NewFxNotationAudio() *FxNotationAudio {
	return &FxNotationAudio{
		BPM:      port.New("bpm", port.DoubleValue(soundcard.DefaultBPM)),
		Tact:     port.New("tact", port.DoubleValue(soundcard.DefaultTact)),
		Delay:    port.New("delay", port.DoubleValue(soundcard.DefaultDelay)),
		Duration: port.New("duration", port.UintValue(DefaultDuration)),
		Period:   port.New("period", port.UintValue(soundcard.DefaultPeriod)),

		Loop:      port.New("loop", port.BoolValue(false)),
		LoopStart: port.New("loop-start", port.UintValue(DefaultLoopStart)),
		LoopEnd:   port.New("loop-end", port.UintValue(DefaultLoopEnd)),
	}
}

func (fx *FxNotationAudio) bpm() float64 {
	return port.ReadDouble(fx.BPM, soundcard.DefaultBPM)
}

func (fx *FxNotationAudio) tact() float64 {
	return port.ReadDouble(fx.Tact, soundcard.DefaultTact)
}

func (fx *FxNotationAudio) delay() float64 {
	return port.ReadDouble(fx.Delay, soundcard.DefaultDelay)
}

// period returns the tic cycle length; 0 falls back to the default.
func (fx *FxNotationAudio) period() uint64 {
	if n := port.ReadUint(fx.Period, soundcard.DefaultPeriod); n > 0 {
		return n
	}

	return soundcard.DefaultPeriod
}

// DurationTicks returns the song length in ticks.
func (fx *FxNotationAudio) DurationTicks() uint64 {
	return port.ReadUint(fx.Duration, DefaultDuration)
}

// loop returns whether looping is on and its [start, end) bounds.
func (fx *FxNotationAudio) loop() (enabled bool, start, end uint64) {
	return port.ReadBool(fx.Loop, false),
		port.ReadUint(fx.LoopStart, DefaultLoopStart),
		port.ReadUint(fx.LoopEnd, DefaultLoopEnd)
}
