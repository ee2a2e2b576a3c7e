// SPDX-License-Identifier: EPL-2.0

// Package machine models the audio object a notation processor drives:
// its pads and audio channels, the notation it plays and the live input it
// records from.
package machine

import (
	"slices"
	"sync"

	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/recycling"
	"github.com/ik5/notecore/sequencer"
	"github.com/ik5/notecore/soundcard"
)

// Behaviour flags of an Audio.
type Behaviour uint32

const (
	// ReverseMapping counts pads from the top: key y plays on pad
	// InputPads-y-1.
	ReverseMapping Behaviour = 1 << iota
)

// Audio is a machine with InputPads pads of AudioChannels channels each.
type Audio struct {
	mu sync.Mutex

	audioChannels int
	inputPads     int
	behaviour     Behaviour

	outputSoundcard soundcard.Soundcard
	inputSequencer  sequencer.Sequencer

	// indexed pad*audioChannels + audioChannel
	inputs []*Channel

	notations []*notation.Notation
	feedNotes map[int][]*notation.Note

	midiChannel       uint8
	midiGroup         uint8
	midiStartMapping  uint8
	midiEndMapping    uint8
	audioStartMapping uint64
	audioEndMapping   uint64
}

// Option configures an Audio.
type Option func(*Audio)

func WithBehaviour(b Behaviour) Option {
	return func(a *Audio) {
		a.behaviour |= b
	}
}

func WithOutputSoundcard(sc soundcard.Soundcard) Option {
	return func(a *Audio) {
		a.outputSoundcard = sc
	}
}

func WithInputSequencer(seq sequencer.Sequencer) Option {
	return func(a *Audio) {
		a.inputSequencer = seq
	}
}

// WithMIDIChannel selects the channel and UMP group input is accepted on.
func WithMIDIChannel(channel, group uint8) Option {
	return func(a *Audio) {
		a.midiChannel = channel & 0x0F
		a.midiGroup = group & 0x0F
	}
}

// WithMapping maps MIDI keys [midiStart, midiEnd) onto pads starting at
// audioStart.
func WithMapping(midiStart, midiEnd uint8, audioStart, audioEnd uint64) Option {
	return func(a *Audio) {
		a.midiStartMapping = midiStart
		a.midiEndMapping = midiEnd
		a.audioStartMapping = audioStart
		a.audioEndMapping = audioEnd
	}
}

// New returns an audio with an input channel and one recycling per pad and
// audio channel.
func New(audioChannels, inputPads int, opts ...Option) *Audio {
	a := &Audio{
		audioChannels:   max(audioChannels, 1),
		inputPads:       max(inputPads, 0),
		midiEndMapping:  128,
		audioEndMapping: 128,
		feedNotes:       make(map[int][]*notation.Note),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.inputs = make([]*Channel, a.inputPads*a.audioChannels)
	for pad := range a.inputPads {
		for ch := range a.audioChannels {
			c := NewChannel(pad, ch)
			c.AddRecycling(recycling.New(a.outputSoundcard))
			a.inputs[pad*a.audioChannels+ch] = c
		}
	}

	return a
}

func (a *Audio) AudioChannels() int {
	return a.audioChannels
}

func (a *Audio) InputPads() int {
	return a.inputPads
}

func (a *Audio) HasBehaviour(b Behaviour) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.behaviour&b == b
}

func (a *Audio) SetBehaviour(b Behaviour) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.behaviour |= b
}

func (a *Audio) UnsetBehaviour(b Behaviour) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.behaviour &^= b
}

func (a *Audio) OutputSoundcard() soundcard.Soundcard {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.outputSoundcard
}

func (a *Audio) InputSequencer() sequencer.Sequencer {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.inputSequencer
}

func (a *Audio) SetInputSequencer(seq sequencer.Sequencer) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inputSequencer = seq
}

// Input returns the input channel of pad and audioChannel, nil when out of
// range.
func (a *Audio) Input(pad, audioChannel int) *Channel {
	if pad < 0 || pad >= a.inputPads || audioChannel < 0 || audioChannel >= a.audioChannels {
		return nil
	}

	return a.inputs[pad*a.audioChannels+audioChannel]
}

// PadFor returns the pad note key y plays on, honouring ReverseMapping.
// ok is false when y falls outside the pads.
func (a *Audio) PadFor(y uint64) (pad int, ok bool) {
	if y >= uint64(a.inputPads) {
		return 0, false
	}

	if a.HasBehaviour(ReverseMapping) {
		return a.inputPads - int(y) - 1, true
	}

	return int(y), true
}

// MIDIChannel returns the accepted MIDI channel and UMP group.
func (a *Audio) MIDIChannel() (channel, group uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.midiChannel, a.midiGroup
}

// MapKey translates a MIDI key to a note y. Keys outside
// [midiStart, midiEnd) are rejected.
func (a *Audio) MapKey(key uint8) (y uint64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if key < a.midiStartMapping || key >= a.midiEndMapping {
		return 0, false
	}

	offset := uint64(key - a.midiStartMapping)
	if a.behaviour&ReverseMapping != 0 {
		span := a.audioEndMapping - a.audioStartMapping
		if offset >= span {
			return 0, false
		}

		return a.audioStartMapping + span - offset - 1, true
	}

	return a.audioStartMapping + offset, true
}

// AddNotation appends a bucket.
func (a *Audio) AddNotation(n *notation.Notation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.notations = append(a.notations, n)
}

// Notations returns a snapshot of the buckets.
func (a *Audio) Notations() []*notation.Notation {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.notations)
}

// NotationAt returns the bucket of audioChannel tick x falls into. With
// create set a missing bucket is added.
func (a *Audio) NotationAt(audioChannel int, x uint64, create bool) *notation.Notation {
	ts := notation.TimestampFor(x)

	a.mu.Lock()
	defer a.mu.Unlock()

	if n := notation.FindNear(a.notations, audioChannel, ts); n != nil || !create {
		return n
	}

	n := notation.New(audioChannel, ts)
	a.notations = append(a.notations, n)

	return n
}

// End returns the end tick of audioChannel's notation.
func (a *Audio) End(audioChannel int) uint64 {
	var end uint64
	for _, n := range a.Notations() {
		if n.AudioChannel() == audioChannel {
			end = max(end, n.End())
		}
	}

	return end
}

// AddFeedNote schedules note for continuous sounding on audioChannel.
func (a *Audio) AddFeedNote(audioChannel int, note *notation.Note) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if slices.Contains(a.feedNotes[audioChannel], note) {
		return
	}

	a.feedNotes[audioChannel] = append(a.feedNotes[audioChannel], note)
}

// RemoveFeedNote releases a scheduled note.
func (a *Audio) RemoveFeedNote(audioChannel int, note *notation.Note) {
	a.mu.Lock()
	defer a.mu.Unlock()

	list := a.feedNotes[audioChannel]
	if i := slices.Index(list, note); i >= 0 {
		a.feedNotes[audioChannel] = slices.Delete(list, i, i+1)
	}
}

// FeedNotes returns a snapshot of the notes scheduled on audioChannel.
func (a *Audio) FeedNotes(audioChannel int) []*notation.Note {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.feedNotes[audioChannel])
}
