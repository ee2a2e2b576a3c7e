// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/notecore/soundcard"
)

// Soundcard is a soundcard.Soundcard whose answers are set by the test.
type Soundcard struct {
	mu sync.Mutex

	presets       soundcard.Presets
	delay         float64
	noteOffset    uint64
	attack        int
	lower, upper  uint64
	nextLower     uint64
	nextUpper     uint64
	attackAtPos   int
	attackLower   int
	attackUpper   int
	positionLower int
	positionUpper int
}

// NewSoundcard returns a stub reporting default presets and delay.
func NewSoundcard() *Soundcard {
	return &Soundcard{
		presets: soundcard.DefaultPresets(),
		delay:   soundcard.DefaultDelay,
	}
}

func (s *Soundcard) SetPresets(p soundcard.Presets) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presets = p
}

func (s *Soundcard) SetDelay(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = d
}

func (s *Soundcard) SetNoteOffset(off uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.noteOffset = off
}

// SetWindow sets the current 256th window.
func (s *Soundcard) SetWindow(lower, upper uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lower, s.upper = lower, upper
}

// SetNextWindow sets what the calc next query answers.
func (s *Soundcard) SetNextWindow(lower, upper uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextLower, s.nextUpper = lower, upper
}

// SetAttackAtPosition fixes the answer of Note256thAttackAtPosition.
func (s *Soundcard) SetAttackAtPosition(a int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attackAtPos = a
}

func (s *Soundcard) SetAttackPosition(lower, upper int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positionLower, s.positionUpper = lower, upper
}

func (s *Soundcard) Presets() soundcard.Presets {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.presets
}

func (s *Soundcard) Delay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.delay
}

func (s *Soundcard) AbsoluteDelay() float64 {
	return s.Delay()
}

func (s *Soundcard) NoteOffset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.noteOffset
}

func (s *Soundcard) Attack() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attack
}

func (s *Soundcard) Note256thOffset() (uint64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lower, s.upper
}

func (s *Soundcard) Note256thAttack() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attackLower, s.attackUpper
}

func (s *Soundcard) Note256thAttackAtPosition(uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attackAtPos
}

func (s *Soundcard) Note256thAttackPosition() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.positionLower, s.positionUpper
}

func (s *Soundcard) CalcNextNote256thOffset() (uint64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nextLower, s.nextUpper
}

func (s *Soundcard) CalcNextNote256thAttack() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attackLower, s.attackUpper
}

var _ soundcard.Soundcard = (*Soundcard)(nil)
