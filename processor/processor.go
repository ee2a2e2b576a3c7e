// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"math"
	"slices"
	"sync"

	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/machine"
	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/recall"
	"github.com/ik5/notecore/recycling"
	"github.com/ik5/notecore/soundcard"
)

// KeyMode records why a note was keyed. It only changes which tracking
// list the new signals join.
type KeyMode int

const (
	KeyModePlay KeyMode = iota
	KeyModeMIDI1Record
	KeyModeMIDI2Record
	KeyModeFeed
)

func (m KeyMode) String() string {
	switch m {
	case KeyModePlay:
		return "play"
	case KeyModeMIDI1Record:
		return "midi1-record"
	case KeyModeMIDI2Record:
		return "midi2-record"
	case KeyModeFeed:
		return "feed"
	}

	return "unknown"
}

// counters is one published set of grid positions.
type counters struct {
	delay  float64
	offset uint64
	tic    uint64

	note256thLower uint64
	note256thUpper uint64
}

// liveSignal is a keyed signal the processor keeps growing.
type liveSignal struct {
	note     *notation.Note
	signal   *audiosignal.AudioSignal
	template *audiosignal.AudioSignal
}

// NotationAudioProcessor turns the notation of one audio channel, and live
// MIDI input, into keyed AudioSignals. The surrounding engine calls
// RunInitPre once when playback starts and RunInter once per period.
type NotationAudioProcessor struct {
	mu sync.Mutex

	audio        *machine.Audio
	audioChannel int
	recallID     *recall.ID
	childID      *recall.ID
	fx           *FxNotationAudio

	// active is what the running period reads; next is prepared by
	// CounterChange and published at the top of RunInter.
	active counters
	next   counters

	has16thPulse   bool
	note256thDelay float64

	note256th      []*notation.Note
	recordingNote  []*notation.Note
	feedingNote    []*notation.Note
	recordingAudio []liveSignal
	feedingAudio   []liveSignal
}

// Option configures a NotationAudioProcessor.
type Option func(*NotationAudioProcessor)

// WithFx tunes the processor through fx instead of fresh default ports.
func WithFx(fx *FxNotationAudio) Option {
	return func(p *NotationAudioProcessor) {
		if fx != nil {
			p.fx = fx
		}
	}
}

// New returns a processor for audioChannel of audio running under id. A
// nil id runs in the notation scope of a fresh root context.
func New(audio *machine.Audio, audioChannel int, id *recall.ID, opts ...Option) *NotationAudioProcessor {
	if id == nil {
		id = recall.New(recall.ScopeNotation, nil)
	}

	p := &NotationAudioProcessor{
		audio:          audio,
		audioChannel:   audioChannel,
		recallID:       id,
		fx:             NewFxNotationAudio(),
		has16thPulse:   true,
		note256thDelay: soundcard.DefaultDelay / 16,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *NotationAudioProcessor) Audio() *machine.Audio {
	return p.audio
}

func (p *NotationAudioProcessor) AudioChannel() int {
	return p.audioChannel
}

func (p *NotationAudioProcessor) RecallID() *recall.ID {
	return p.recallID
}

func (p *NotationAudioProcessor) Fx() *FxNotationAudio {
	return p.fx
}

// Has16thPulse reports whether the coming period starts on a tick.
func (p *NotationAudioProcessor) Has16thPulse() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.has16thPulse
}

// Note256thDelay returns the number of periods one 256th lasts.
func (p *NotationAudioProcessor) Note256thDelay() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.note256thDelay
}

// Tic returns the active position in the tic table.
func (p *NotationAudioProcessor) Tic() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.active.tic
}

// DelayCounter returns the number of periods spent in the coming tick.
func (p *NotationAudioProcessor) DelayCounter() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.next.delay
}

// Note256thOffset returns the active 256th window.
func (p *NotationAudioProcessor) Note256thOffset() (lower, upper uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.active.note256thLower, p.active.note256thUpper
}

func (p *NotationAudioProcessor) soundcard() soundcard.Soundcard {
	if p.audio == nil {
		return nil
	}

	return p.audio.OutputSoundcard()
}

// RunInitPre resets every counter, takes the 256th window of the current
// period from the soundcard and forces a pulse so the first period
// evaluates note triggers.
func (p *NotationAudioProcessor) RunInitPre() {
	absDelay := soundcard.DefaultDelay
	var lower, upper uint64
	if sc := p.soundcard(); sc != nil {
		absDelay = sc.AbsoluteDelay()
		lower, upper = sc.Note256thOffset()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// the first period plays the soundcard's own window, not [0, 0]
	p.active = counters{note256thLower: lower, note256thUpper: upper}
	p.next = p.active
	p.note256thDelay = absDelay / 16
	p.has16thPulse = true
	p.note256th = nil
}

// RunInter runs one period: it publishes the counters prepared last period
// and, for a top level play, triggers scheduled notes, records live input
// and grows sustained notes, in that order. CounterChange always runs
// last.
func (p *NotationAudioProcessor) RunInter() {
	p.mu.Lock()
	p.active = p.next
	p.mu.Unlock()

	id := p.recallID
	if id.Context().Parent() == nil {
		if id.CheckSoundScope(recall.ScopeNotation) {
			p.Play()
		}
		if id.CheckSoundScope(recall.ScopeNotation, recall.ScopeMIDI) {
			p.MIDI1Record()
			p.MIDI2Record()
		}
		if id.CheckSoundScope(recall.ScopePlayback, recall.ScopeNotation, recall.ScopeMIDI) {
			p.Feed()
		}
	}

	p.CounterChange()
}

// CounterChange prepares the counters of the next period. The offset
// advances when the soundcard reports the next period crossing a tick, or
// when floor(delay)+1 periods passed without one.
func (p *NotationAudioProcessor) CounterChange() {
	var (
		noteOffset           uint64
		curLower, curUpper   uint64
		nextLower, nextUpper uint64
		pulse                bool
	)

	if sc := p.soundcard(); sc != nil {
		noteOffset = sc.NoteOffset()
		curLower, curUpper = sc.Note256thOffset()
		nextLower, nextUpper = sc.CalcNextNote256thOffset()

		// any backwards step of the window is a loop wrap or a seek and
		// starts a tick, however short the step
		pulse = 16*(noteOffset+1) <= nextUpper ||
			nextLower < curLower ||
			nextLower > curUpper+256
	}

	delay := p.fx.delay()
	period := p.fx.period()
	loop, loopStart, loopEnd := p.fx.loop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.next.note256thLower = nextLower
	p.next.note256thUpper = nextUpper

	if !pulse {
		p.next.delay++
		if p.next.delay < math.Floor(delay)+1 {
			p.has16thPulse = false
			return
		}
	}

	p.next.delay = 0
	p.has16thPulse = true

	if loop && p.next.offset+1 == loopEnd {
		p.next.offset = loopStart
	} else {
		p.next.offset++
	}
	p.next.tic = (p.next.tic + 1) % period
}

// KeyOn starts note: every recycling of the pad note.Y maps to gets a new
// live signal sized to the soundcard's delay. With a template the signal
// is fed right away. The created signals are returned.
func (p *NotationAudioProcessor) KeyOn(note *notation.Note, velocity uint32, mode KeyMode) []*audiosignal.AudioSignal {
	if note == nil || p.audio == nil {
		return nil
	}

	pad, ok := p.audio.PadFor(note.Y())
	if !ok {
		logx.Debug("processor: key on outside pads", "y", note.Y(), "pads", p.audio.InputPads())
		return nil
	}

	input := p.audio.Input(pad, p.audioChannel)
	if input == nil {
		return nil
	}

	sc := p.soundcard()
	absDelay := soundcard.DefaultDelay
	attack := 0
	_, _, x0256th, x1256th := note.Bounds()
	if sc != nil {
		absDelay = sc.AbsoluteDelay()
		attack = sc.Note256thAttackAtPosition(x0256th)
	}

	if velocity > 0 {
		note.SetVelocity(velocity)
	}

	id := p.keyRecallID()
	length := int(math.Floor(absDelay)) + 2

	var created []*audiosignal.AudioSignal
	for _, r := range input.Recyclings() {
		s := p.newSignal(r, sc, id, attack, absDelay, length)
		s.AddNote(note)

		tmpl := r.Template()
		if tmpl != nil {
			s.SetTemplate(tmpl)
			bs := s.BufferSize()

			if mode == KeyModePlay {
				frames := p.playFrames(x0256th, x1256th, bs)
				audiosignal.FeedExtended(s, tmpl, frames, 0, true, true)
			} else {
				audiosignal.OpenFeed(s, tmpl, bs*(length-1), 0)
			}
		}

		r.AddAudioSignal(s)
		created = append(created, s)

		p.track(mode, liveSignal{note: note, signal: s, template: tmpl})
	}

	return created
}

func (p *NotationAudioProcessor) newSignal(r *recycling.Recycling, sc soundcard.Soundcard, id *recall.ID,
	attack int, absDelay float64, length int,
) *audiosignal.AudioSignal {
	opts := []audiosignal.Option{
		audiosignal.WithFlags(audiosignal.FlagStream | audiosignal.FlagSliceAlloc),
		audiosignal.WithRecallID(id),
	}
	if out := r.OutputSoundcard(); out != nil {
		sc = out
	}
	if sc != nil {
		opts = append(opts, audiosignal.WithOutputSoundcard(sc))
	}

	s := audiosignal.New(opts...)
	s.SetKeyFormat(audiosignal.KeyFormat256th)
	s.SetStreamMode(audiosignal.StreamModeContinuesFeed)
	s.SetDelay(absDelay)
	s.SetAttack(attack)
	s.StreamResize(length)

	return s
}

// playFrames returns the frames a scheduled note of 256th span
// [x0, x1) lasts.
func (p *NotationAudioProcessor) playFrames(x0, x1 uint64, bufferSize int) int {
	p.mu.Lock()
	delay := p.note256thDelay
	p.mu.Unlock()

	span := max(x1, x0+1) - x0

	return int(math.Ceil(float64(span) * delay * float64(bufferSize)))
}

// keyRecallID returns the child recall ID keyed signals run under.
func (p *NotationAudioProcessor) keyRecallID() *recall.ID {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.childID == nil {
		p.childID = p.recallID.Child()
	}

	return p.childID
}

// track keeps the processor's reference on a record or feed signal and
// drops it for a played one; the recycling holds its own.
func (p *NotationAudioProcessor) track(mode KeyMode, ls liveSignal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case KeyModeMIDI1Record, KeyModeMIDI2Record:
		p.recordingAudio = append(p.recordingAudio, ls)
	case KeyModeFeed:
		p.feedingAudio = append(p.feedingAudio, ls)
	default:
		ls.signal.Unref()
	}
}

// continueSignals grows every signal in list by one period.
func continueSignals(list []liveSignal) {
	for _, ls := range list {
		if ls.template == nil {
			continue
		}

		old := ls.signal.FrameCount()
		audiosignal.ContinueFeed(ls.signal, ls.template, old+ls.signal.BufferSize(), old)
	}
}

// closeSignals plays the release of the given signals and drops the
// processor's references.
func closeSignals(list []liveSignal) {
	for _, ls := range list {
		if ls.template != nil {
			old := ls.signal.FrameCount()
			audiosignal.CloseFeed(ls.signal, ls.template, ls.template.ReleaseLength(old), old)
		}

		ls.signal.Unref()
	}
}

// splitByNote moves the entries of note out of *list and returns them.
func splitByNote(list *[]liveSignal, note *notation.Note) []liveSignal {
	var out []liveSignal
	*list = slices.DeleteFunc(*list, func(ls liveSignal) bool {
		if ls.note == note {
			out = append(out, ls)
			return true
		}
		return false
	})

	return out
}

// RecordingNotes returns the notes currently held on the live input.
func (p *NotationAudioProcessor) RecordingNotes() []*notation.Note {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.recordingNote)
}

// FeedingNotes returns the sustained notes currently sounding.
func (p *NotationAudioProcessor) FeedingNotes() []*notation.Note {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.feedingNote)
}

// RecordingSignals returns the signals of held live notes.
func (p *NotationAudioProcessor) RecordingSignals() []*audiosignal.AudioSignal {
	p.mu.Lock()
	defer p.mu.Unlock()

	return signalsOf(p.recordingAudio)
}

// FeedingSignals returns the signals of sustained notes.
func (p *NotationAudioProcessor) FeedingSignals() []*audiosignal.AudioSignal {
	p.mu.Lock()
	defer p.mu.Unlock()

	return signalsOf(p.feedingAudio)
}

func signalsOf(list []liveSignal) []*audiosignal.AudioSignal {
	out := make([]*audiosignal.AudioSignal, len(list))
	for i, ls := range list {
		out[i] = ls.signal
	}

	return out
}
