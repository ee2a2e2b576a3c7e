// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"slices"

	"github.com/ik5/notecore/notation"
)

// lookahead is the width, in 256ths, of the window the note queue is
// refilled from.
const lookahead = 80

// Play keys the scheduled notes starting inside the active 256th window.
// On every fourth tick pulse the queue is refilled from the notation.
func (p *NotationAudioProcessor) Play() {
	p.mu.Lock()
	offset := p.active.offset
	lower, upper := p.active.note256thLower, p.active.note256thUpper
	rescan := p.has16thPulse && offset%4 == 0
	p.mu.Unlock()

	if rescan {
		queue := p.scan(lower, lower+lookahead)

		p.mu.Lock()
		p.note256th = queue
		p.mu.Unlock()
	}

	if upper < lower {
		return
	}

	p.mu.Lock()
	var due []*notation.Note
	p.note256th = slices.DeleteFunc(p.note256th, func(n *notation.Note) bool {
		x0 := n.X0256th()
		if x0 >= lower && x0 <= upper {
			due = append(due, n)
			return true
		}
		return false
	})
	p.mu.Unlock()

	for _, n := range due {
		p.KeyOn(n, n.Velocity(), KeyModePlay)
	}
}

// scan returns the notes of the processor's audio channel starting in the
// 256th window [lower, upper).
func (p *NotationAudioProcessor) scan(lower, upper uint64) []*notation.Note {
	if p.audio == nil {
		return nil
	}

	buckets := []*notation.Notation{p.audio.NotationAt(p.audioChannel, lower/16, false)}
	if notation.TimestampFor(lower/16) != notation.TimestampFor((upper-1)/16) {
		buckets = append(buckets, p.audio.NotationAt(p.audioChannel, (upper-1)/16, false))
	}

	var out []*notation.Note
	for _, b := range buckets {
		if b == nil {
			continue
		}

		for _, n := range b.FindRange256th(lower, upper) {
			if n.X0256th() >= lower {
				out = append(out, n)
			}
		}
	}

	return out
}

// Queue returns the notes waiting to be keyed.
func (p *NotationAudioProcessor) Queue() []*notation.Note {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.note256th)
}
