// SPDX-License-Identifier: EPL-2.0

// Package recycling groups the AudioSignals that share one mixing bus.
//
// A Recycling owns references to its signals: AddAudioSignal takes one,
// RemoveAudioSignal drops it. At most one signal flagged as template is the
// prototype new live signals are fed from.
package recycling

import (
	"slices"
	"sync"

	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/recall"
	"github.com/ik5/notecore/soundcard"
)

// Recycling is a mutex guarded list of AudioSignals.
type Recycling struct {
	mu sync.Mutex

	outputSoundcard soundcard.Soundcard
	inputSoundcard  soundcard.Soundcard
	channel         int

	signals []*audiosignal.AudioSignal
}

// New returns an empty recycling sending to sc.
func New(sc soundcard.Soundcard) *Recycling {
	return &Recycling{outputSoundcard: sc}
}

func (r *Recycling) OutputSoundcard() soundcard.Soundcard {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.outputSoundcard
}

func (r *Recycling) SetOutputSoundcard(sc soundcard.Soundcard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outputSoundcard = sc
}

func (r *Recycling) InputSoundcard() soundcard.Soundcard {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.inputSoundcard
}

// SetInputSoundcard sets the capture device and its channel.
func (r *Recycling) SetInputSoundcard(sc soundcard.Soundcard, channel int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inputSoundcard = sc
	r.channel = channel
}

// AddAudioSignal appends s and takes a reference. Adding a signal twice
// is a no-op.
func (r *Recycling) AddAudioSignal(s *audiosignal.AudioSignal) {
	if s == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.signals, s) {
		return
	}

	r.signals = append(r.signals, s.Ref())
}

// RemoveAudioSignal drops s and its reference. It reports whether s was
// present.
func (r *Recycling) RemoveAudioSignal(s *audiosignal.AudioSignal) bool {
	r.mu.Lock()

	i := slices.Index(r.signals, s)
	if i < 0 {
		r.mu.Unlock()
		return false
	}

	r.signals = slices.Delete(r.signals, i, i+1)
	r.mu.Unlock()

	s.Unref()

	return true
}

// Signals returns a snapshot of the list. No references are taken.
func (r *Recycling) Signals() []*audiosignal.AudioSignal {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.signals)
}

func (r *Recycling) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.signals)
}

// Template returns the signal flagged as template, or nil.
func (r *Recycling) Template() *audiosignal.AudioSignal {
	return r.findFlag(audiosignal.FlagTemplate)
}

// RTTemplate returns the realtime template, or nil.
func (r *Recycling) RTTemplate() *audiosignal.AudioSignal {
	return r.findFlag(audiosignal.FlagRTTemplate)
}

func (r *Recycling) findFlag(f audiosignal.Flags) *audiosignal.AudioSignal {
	for _, s := range r.Signals() {
		if s.HasFlags(f) {
			return s
		}
	}

	return nil
}

// FindByRecallID returns the signals played under id, in list order.
func (r *Recycling) FindByRecallID(id *recall.ID) []*audiosignal.AudioSignal {
	var out []*audiosignal.AudioSignal
	for _, s := range r.Signals() {
		if s.RecallID() == id {
			out = append(out, s)
		}
	}

	return out
}

// FindByContext returns the signals whose recall ID runs in ctx.
func (r *Recycling) FindByContext(ctx *recall.Context) []*audiosignal.AudioSignal {
	var out []*audiosignal.AudioSignal
	for _, s := range r.Signals() {
		if s.RecallID().Context() == ctx {
			out = append(out, s)
		}
	}

	return out
}

// Dispose drops every reference the recycling holds.
func (r *Recycling) Dispose() {
	r.mu.Lock()
	signals := r.signals
	r.signals = nil
	r.mu.Unlock()

	for _, s := range signals {
		s.Unref()
	}
}
