// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"sync"
	"sync/atomic"

	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/recall"
	"github.com/ik5/notecore/soundcard"
	"github.com/ik5/notecore/stream"
)

// Flags describe the role and allocation policy of an AudioSignal.
type Flags uint32

const (
	// FlagTemplate marks a static prototype that is never played.
	FlagTemplate Flags = 1 << iota
	// FlagRTTemplate marks the realtime variant of a template.
	FlagRTTemplate
	FlagMaster
	FlagFeed
	FlagRecycled
	FlagStream
	// FlagSliceAlloc makes every stream buffer come from the pooled
	// allocator instead of the heap.
	FlagSliceAlloc
)

// KeyFormat is the grid resolution a live signal was keyed on.
type KeyFormat int

const (
	KeyFormat16th KeyFormat = iota
	KeyFormat256th
)

// StreamMode tells the playback engine how the stream grows.
type StreamMode int

const (
	StreamModeOnce StreamMode = iota
	// StreamModeContinuesFeed signals grow every period while keyed.
	StreamModeContinuesFeed
)

// AudioSignal is one continuous audio timeline: a list of equally sized
// buffers plus the bookkeeping to play, loop and grow it.
type AudioSignal struct {
	mu sync.Mutex

	refs atomic.Int32

	flags      Flags
	keyFormat  KeyFormat
	streamMode StreamMode

	outputSoundcard soundcard.Soundcard
	inputSoundcard  soundcard.Soundcard
	recallID        *recall.ID

	samplerate int
	bufferSize int
	format     stream.Format
	wordSize   int

	firstFrame int
	lastFrame  int
	frameCount int

	loopStart int
	loopEnd   int

	delay  float64
	attack int

	damping     complex128
	vibration   complex128
	timbreStart int
	timbreEnd   int

	template   *AudioSignal
	rtTemplate *AudioSignal
	notes      []*notation.Note

	stream  []*stream.Buffer
	current int
}

// Option configures an AudioSignal at construction.
type Option func(*AudioSignal)

// WithOutputSoundcard takes samplerate, buffer size and format from sc.
func WithOutputSoundcard(sc soundcard.Soundcard) Option {
	return func(s *AudioSignal) {
		s.outputSoundcard = sc
		if sc == nil {
			return
		}

		p := sc.Presets()
		if p.Samplerate > 0 {
			s.samplerate = p.Samplerate
		}
		if p.BufferSize > 0 {
			s.bufferSize = p.BufferSize
		}
		if p.Format.Valid() {
			s.format = p.Format
		}
	}
}

// WithInputSoundcard sets the capture soundcard.
func WithInputSoundcard(sc soundcard.Soundcard) Option {
	return func(s *AudioSignal) {
		s.inputSoundcard = sc
	}
}

// WithPresets sets samplerate, buffer size and format explicitly.
func WithPresets(samplerate, bufferSize int, format stream.Format) Option {
	return func(s *AudioSignal) {
		s.samplerate = samplerate
		s.bufferSize = bufferSize
		s.format = format
	}
}

// WithRecallID sets the playback context.
func WithRecallID(id *recall.ID) Option {
	return func(s *AudioSignal) {
		s.recallID = id
	}
}

// WithFlags sets the initial flags.
func WithFlags(f Flags) Option {
	return func(s *AudioSignal) {
		s.flags |= f
	}
}

// New returns an empty signal holding one reference.
func New(opts ...Option) *AudioSignal {
	s := &AudioSignal{
		samplerate: soundcard.DefaultSamplerate,
		bufferSize: soundcard.DefaultBufferSize,
		format:     soundcard.DefaultFormat,
		current:    -1,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.wordSize = s.format.WordSize()
	s.refs.Store(1)

	return s
}

// Ref takes an additional reference.
func (s *AudioSignal) Ref() *AudioSignal {
	s.refs.Add(1)
	return s
}

// Unref drops a reference; the last one disposes the signal.
func (s *AudioSignal) Unref() {
	if s.refs.Add(-1) == 0 {
		s.Dispose()
	}
}

// Refs returns the current reference count.
func (s *AudioSignal) Refs() int {
	return int(s.refs.Load())
}

// Dispose releases the stream with the matching allocator and drops the
// shared references.
func (s *AudioSignal) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseFrom(0)
	s.stream = nil
	s.current = -1

	s.outputSoundcard = nil
	s.inputSoundcard = nil
	s.template = nil
	s.rtTemplate = nil
	s.notes = nil
}

func (s *AudioSignal) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flags
}

// HasFlags reports whether all of f are set.
func (s *AudioSignal) HasFlags(f Flags) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.flags&f == f
}

// SetFlags sets f. Toggling FlagSliceAlloc on a signal that already owns
// buffers is refused, the buffers must go back to the allocator they came
// from.
func (s *AudioSignal) SetFlags(f Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f&FlagSliceAlloc != 0 && s.flags&FlagSliceAlloc == 0 && len(s.stream) > 0 {
		f &^= FlagSliceAlloc
	}
	s.flags |= f
}

func (s *AudioSignal) UnsetFlags(f Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f&FlagSliceAlloc != 0 && len(s.stream) > 0 {
		f &^= FlagSliceAlloc
	}
	s.flags &^= f
}

func (s *AudioSignal) KeyFormat() KeyFormat {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keyFormat
}

func (s *AudioSignal) SetKeyFormat(k KeyFormat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyFormat = k
}

func (s *AudioSignal) StreamMode() StreamMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.streamMode
}

func (s *AudioSignal) SetStreamMode(m StreamMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streamMode = m
}

func (s *AudioSignal) OutputSoundcard() soundcard.Soundcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.outputSoundcard
}

func (s *AudioSignal) SetOutputSoundcard(sc soundcard.Soundcard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outputSoundcard = sc
}

func (s *AudioSignal) InputSoundcard() soundcard.Soundcard {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inputSoundcard
}

func (s *AudioSignal) SetInputSoundcard(sc soundcard.Soundcard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputSoundcard = sc
}

func (s *AudioSignal) RecallID() *recall.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recallID
}

func (s *AudioSignal) SetRecallID(id *recall.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recallID = id
}

func (s *AudioSignal) Samplerate() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.samplerate
}

func (s *AudioSignal) BufferSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bufferSize
}

func (s *AudioSignal) Format() stream.Format {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.format
}

func (s *AudioSignal) WordSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wordSize
}

// Length returns the number of buffers in the stream.
func (s *AudioSignal) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.stream)
}

func (s *AudioSignal) FirstFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.firstFrame
}

func (s *AudioSignal) SetFirstFrame(f int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.firstFrame = f
}

func (s *AudioSignal) LastFrame() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastFrame
}

func (s *AudioSignal) SetLastFrame(f int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFrame = f
}

// FrameCount returns the number of frames fed so far.
func (s *AudioSignal) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.frameCount
}

func (s *AudioSignal) SetFrameCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frameCount = n
}

// Loop returns the loop points in frames.
func (s *AudioSignal) Loop() (start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loopStart, s.loopEnd
}

// SetLoop sets the loop points in frames. end <= start disables looping.
func (s *AudioSignal) SetLoop(start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopStart, s.loopEnd = start, end
}

// Delay is the fractional buffer offset the signal starts at.
func (s *AudioSignal) Delay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.delay
}

func (s *AudioSignal) SetDelay(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = d
}

// Attack is the frame offset of the first sample inside the first buffer.
func (s *AudioSignal) Attack() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attack
}

func (s *AudioSignal) SetAttack(a int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attack = max(a, 0)
}

// Timbre returns damping, vibration and the timbre frame range.
func (s *AudioSignal) Timbre() (damping, vibration complex128, start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.damping, s.vibration, s.timbreStart, s.timbreEnd
}

func (s *AudioSignal) SetTimbre(damping, vibration complex128, start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.damping, s.vibration = damping, vibration
	s.timbreStart, s.timbreEnd = start, end
}

func (s *AudioSignal) Template() *AudioSignal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.template
}

func (s *AudioSignal) SetTemplate(t *AudioSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.template = t
}

func (s *AudioSignal) RTTemplate() *AudioSignal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rtTemplate
}

func (s *AudioSignal) SetRTTemplate(t *AudioSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rtTemplate = t
}

// AddNote records a back reference to a note mapped onto this signal.
func (s *AudioSignal) AddNote(n *notation.Note) {
	if n == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cur := range s.notes {
		if cur == n {
			return
		}
	}
	s.notes = append(s.notes, n)
}

func (s *AudioSignal) RemoveNote(n *notation.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.notes {
		if cur == n {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

// Notes returns a snapshot of the note back references.
func (s *AudioSignal) Notes() []*notation.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*notation.Note(nil), s.notes...)
}

// HasNote reports whether n maps onto this signal.
func (s *AudioSignal) HasNote(n *notation.Note) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cur := range s.notes {
		if cur == n {
			return true
		}
	}

	return false
}
