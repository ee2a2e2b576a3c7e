// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"slices"

	"github.com/ik5/notecore/notation"
)

// Feed sounds the audio's feed notes. Notes already sounding grow by one
// period or are released when they left the feed list; new ones are keyed
// afterwards so they start at their first frame.
func (p *NotationAudioProcessor) Feed() {
	if p.audio == nil {
		return
	}

	scheduled := p.audio.FeedNotes(p.audioChannel)

	p.mu.Lock()
	offset := p.active.offset

	var (
		released []liveSignal
		sounding []*notation.Note
	)
	p.feedingNote = slices.DeleteFunc(p.feedingNote, func(n *notation.Note) bool {
		if slices.Contains(scheduled, n) {
			sounding = append(sounding, n)
			return false
		}

		released = append(released, splitByNote(&p.feedingAudio, n)...)
		return true
	})
	growing := slices.Clone(p.feedingAudio)
	p.mu.Unlock()

	closeSignals(released)

	for _, n := range sounding {
		if n.X1() <= offset {
			n.ExtendX1(1)
		}
	}
	continueSignals(growing)

	for _, n := range scheduled {
		p.mu.Lock()
		known := slices.Contains(p.feedingNote, n)
		if !known {
			p.feedingNote = append(p.feedingNote, n)
		}
		p.mu.Unlock()

		if !known {
			p.KeyOn(n, n.Velocity(), KeyModeFeed)
		}
	}
}
