// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"io"

	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/port"
	"github.com/ik5/notecore/soundcard"
)

// Countable reports the grid position a player is at.
type Countable interface {
	NotationCounter() uint64
}

// Tactable reports and accepts tempo changes.
type Tactable interface {
	BPM() float64
	Tact() float64
	ChangeBPM(oldBPM, newBPM float64)
	ChangeTact(oldTact, newTact float64)
}

// Seekable moves a player on the grid. whence is io.SeekStart,
// io.SeekCurrent or io.SeekEnd.
type Seekable interface {
	Seek(offset int64, whence int) uint64
}

var (
	_ Countable = (*NotationAudioProcessor)(nil)
	_ Tactable  = (*NotationAudioProcessor)(nil)
	_ Seekable  = (*NotationAudioProcessor)(nil)
)

// NotationCounter returns the active tick.
func (p *NotationAudioProcessor) NotationCounter() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.active.offset
}

func (p *NotationAudioProcessor) BPM() float64 {
	return p.fx.bpm()
}

func (p *NotationAudioProcessor) Tact() float64 {
	return p.fx.tact()
}

// ChangeBPM stores newBPM and recomputes the tick delay.
func (p *NotationAudioProcessor) ChangeBPM(_, newBPM float64) {
	port.Write(p.fx.BPM, port.DoubleValue(newBPM))
	p.recomputeDelay(newBPM, p.fx.tact())
}

// ChangeTact stores newTact and recomputes the tick delay.
func (p *NotationAudioProcessor) ChangeTact(_, newTact float64) {
	port.Write(p.fx.Tact, port.DoubleValue(newTact))
	p.recomputeDelay(p.fx.bpm(), newTact)
}

func (p *NotationAudioProcessor) recomputeDelay(bpm, tact float64) {
	presets := soundcard.DefaultPresets()
	if sc := p.soundcard(); sc != nil {
		presets = sc.Presets()
	}

	delay := soundcard.ComputeDelay(presets.Samplerate, presets.BufferSize, bpm, tact)
	port.Write(p.fx.Delay, port.DoubleValue(delay))

	p.mu.Lock()
	defer p.mu.Unlock()

	p.note256thDelay = delay / 16
}

// Seek moves both counter sets to a new tick and returns it. io.SeekEnd
// is relative to the end of the audio channel's notation. The 256th
// window is rederived from the soundcard's attack positions and the note
// queue is refilled on the next period.
func (p *NotationAudioProcessor) Seek(offset int64, whence int) uint64 {
	var base int64

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(p.NotationCounter())
	case io.SeekEnd:
		if p.audio != nil {
			base = int64(p.audio.End(p.audioChannel))
		}
	default:
		logx.Warn("processor: invalid seek whence", "whence", whence)
		return p.NotationCounter()
	}

	target := uint64(max(base+offset, 0))

	var posLower, posUpper int
	if sc := p.soundcard(); sc != nil {
		posLower, posUpper = sc.Note256thAttackPosition()
	}

	lower := 16*target + uint64(max(posLower, 0))
	upper := 16*target + uint64(max(posUpper, 0))
	period := p.fx.period()

	p.mu.Lock()
	defer p.mu.Unlock()

	c := counters{
		offset:         target,
		tic:            target % period,
		note256thLower: lower,
		note256thUpper: upper,
	}
	p.active = c
	p.next = c
	p.has16thPulse = true
	p.note256th = nil

	return target
}
