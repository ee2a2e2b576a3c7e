// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"github.com/gopxl/beep"
)

// streamer renders a mono AudioSignal as a beep.Streamer.
type streamer struct {
	s   *AudioSignal
	pos int
}

// Streamer returns a beep.Streamer that plays s from its first frame up to
// its last fed frame (or the end of the stream when nothing was fed). The
// mono signal is copied to both channels.
func Streamer(s *AudioSignal) beep.Streamer {
	return &streamer{s: s}
}

// SampleRate returns the signal's rate in beep's representation.
func SampleRate(s *AudioSignal) beep.SampleRate {
	return beep.SampleRate(s.Samplerate())
}

func (st *streamer) Stream(samples [][2]float64) (n int, ok bool) {
	s := st.s

	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.totalFrames()
	if s.lastFrame > 0 && s.lastFrame < end {
		end = s.lastFrame
	}
	if s.bufferSize <= 0 || st.pos >= end {
		return 0, false
	}

	for n < len(samples) && st.pos < end {
		b := s.stream[st.pos/s.bufferSize]
		v := b.At(st.pos % s.bufferSize)

		samples[n][0] = v
		samples[n][1] = v

		n++
		st.pos++
	}

	return n, true
}

func (st *streamer) Err() error {
	return nil
}
