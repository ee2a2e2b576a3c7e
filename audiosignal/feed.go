// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/stream"
)

// DuplicateStream replaces the contents of s with a copy of t's stream. An
// empty template empties s.
func DuplicateStream(s, t *AudioSignal) {
	if s == nil || t == nil || s == t {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(t.stream) == 0 {
		s.streamResize(0)
		return
	}

	total := t.totalFrames()
	s.streamResize((total + s.bufferSize - 1) / s.bufferSize)

	n := copyFrames(s.stream, s.bufferSize, 0, t.stream, t.bufferSize, 0, total)
	clearFrames(s.stream, s.bufferSize, n, s.totalFrames()-n)
}

// Feed grows s by frameCount frames of t starting where the previous feed
// stopped.
func Feed(s, t *AudioSignal, frameCount int) {
	if s == nil {
		return
	}

	old := s.FrameCount()
	FeedExtended(s, t, frameCount, old, old == 0, false)
}

// OpenFeed starts feeding a freshly keyed signal.
func OpenFeed(s, t *AudioSignal, frameCount, oldFrameCount int) {
	FeedExtended(s, t, frameCount, oldFrameCount, true, false)
}

// ContinueFeed extends a sustained signal.
func ContinueFeed(s, t *AudioSignal, frameCount, oldFrameCount int) {
	FeedExtended(s, t, frameCount, oldFrameCount, false, false)
}

// CloseFeed extends a released signal so that it leaves the template loop
// and plays the release tail.
func CloseFeed(s, t *AudioSignal, frameCount, oldFrameCount int) {
	FeedExtended(s, t, frameCount, oldFrameCount, false, true)
}

// feedPlan maps output frames of a feed onto template frames.
type feedPlan struct {
	tmplFrames int
	loop       bool
	loopStart  int
	loopEnd    int
	// release is the first output frame that plays the tail after loopEnd
	// instead of wrapping. Only meaningful when closing.
	release int
	close   bool
}

func newFeedPlan(t *AudioSignal, frameCount int, doClose bool) feedPlan {
	p := feedPlan{
		tmplFrames: t.totalFrames(),
		loopStart:  t.loopStart,
		loopEnd:    t.loopEnd,
		close:      doClose,
	}
	if t.lastFrame > 0 && t.lastFrame < p.tmplFrames {
		p.tmplFrames = t.lastFrame
	}

	p.loop = p.loopStart >= 0 && p.loopEnd > p.loopStart && p.loopEnd <= p.tmplFrames
	if !p.loop {
		return p
	}

	loopLen := p.loopEnd - p.loopStart
	tail := p.tmplFrames - p.loopEnd
	rest := max(0, frameCount-tail-p.loopEnd)
	p.release = p.loopEnd + (rest+loopLen-1)/loopLen*loopLen

	return p
}

// source returns the template frame output frame j reads and how many
// following frames stay contiguous. A negative frame means silence.
func (p feedPlan) source(j int) (frame, run int) {
	if !p.loop || j < p.loopEnd {
		limit := p.tmplFrames
		if p.loop {
			limit = p.loopEnd
		}
		if j >= limit {
			return -1, 1 << 30
		}
		return j, limit - j
	}

	if p.close && j >= p.release {
		frame = p.loopEnd + j - p.release
		if frame >= p.tmplFrames {
			return -1, 1 << 30
		}
		return frame, p.tmplFrames - frame
	}

	loopLen := p.loopEnd - p.loopStart
	frame = p.loopStart + (j-p.loopEnd)%loopLen
	run = p.loopEnd - frame
	if p.close {
		run = min(run, p.release-j)
	}

	return frame, run
}

// ReleaseLength returns the frame count a CloseFeed must request from t,
// after fed frames were already written, so that the tail behind the loop
// plays completely.
func (t *AudioSignal) ReleaseLength(fed int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := newFeedPlan(t, 0, true)
	if !p.loop {
		return max(fed, p.tmplFrames)
	}

	loopLen := p.loopEnd - p.loopStart
	release := p.loopEnd
	if fed > release {
		release += (fed - release + loopLen - 1) / loopLen * loopLen
	}

	return release + p.tmplFrames - p.loopEnd
}

// FeedExtended copies frames [oldFrameCount, frameCount) of t into s behind
// the attack offset, growing the stream as needed. The template loop is
// replayed while feeding; when doClose is set the last pass leaves the loop
// early enough to play the tail. doOpen restarts from frame 0.
func FeedExtended(s, t *AudioSignal, frameCount, oldFrameCount int, doOpen, doClose bool) {
	if s == nil || t == nil || s == t {
		return
	}
	if doOpen {
		oldFrameCount = 0
	}
	oldFrameCount = max(oldFrameCount, 0)

	t.mu.Lock()
	defer t.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.samplerate != s.samplerate || t.bufferSize != s.bufferSize {
		logx.Warn("audiosignal: feed aborted, resample not supported",
			"samplerate", s.samplerate, "template_samplerate", t.samplerate,
			"buffer_size", s.bufferSize, "template_buffer_size", t.bufferSize)
		return
	}
	if s.bufferSize <= 0 || frameCount <= 0 {
		return
	}

	need := (s.attack + frameCount + s.bufferSize - 1) / s.bufferSize
	if need > len(s.stream) {
		s.streamResize(need)
	}

	plan := newFeedPlan(t, frameCount, doClose)

	for j := oldFrameCount; j < frameCount; {
		frame, run := plan.source(j)
		n := min(run, frameCount-j)

		if frame < 0 {
			clearFrames(s.stream, s.bufferSize, s.attack+j, n)
		} else {
			copyFrames(s.stream, s.bufferSize, s.attack+j, t.stream, t.bufferSize, frame, n)
		}

		j += n
	}

	s.frameCount = frameCount
	s.lastFrame = s.attack + frameCount
}

// Flatten returns the whole stream copied into one heap buffer, nil for an
// unsupported format.
func (s *AudioSignal) Flatten() *stream.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flatten()
}
