// SPDX-License-Identifier: EPL-2.0

package notation

import (
	"sync"
	"sync/atomic"
)

// NoteFlags mark transient note state.
type NoteFlags uint32

const (
	// NoteFeed is set while the note is actively sounding.
	NoteFeed NoteFlags = 1 << iota
	NoteSelected
	NoteEnvelope
)

var nextNoteID atomic.Uint64

// Note is one symbolic event on the grid. X0/X1 are ticks, X0_256th /
// X1_256th the same bounds in 256th units, Y the key or pad.
type Note struct {
	mu sync.Mutex

	id       uint64
	flags    NoteFlags
	x0, x1   uint64
	x0256th  uint64
	x1256th  uint64
	y        uint64
	velocity uint32
}

// NewNote returns a note spanning ticks [x0, x1) on key y. The 256th bounds
// are derived from the tick bounds.
func NewNote(x0, x1, y uint64) *Note {
	return &Note{
		id:       nextNoteID.Add(1),
		x0:       x0,
		x1:       x1,
		x0256th:  16 * x0,
		x1256th:  16 * x1,
		y:        y,
		velocity: 127,
	}
}

// ID returns a process unique identity.
func (n *Note) ID() uint64 {
	return n.id
}

func (n *Note) X0() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.x0
}

func (n *Note) X1() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.x1
}

func (n *Note) X0256th() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.x0256th
}

func (n *Note) X1256th() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.x1256th
}

func (n *Note) Y() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.y
}

func (n *Note) Velocity() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.velocity
}

// Bounds returns both tick and 256th bounds in one locked read.
func (n *Note) Bounds() (x0, x1, x0256th, x1256th uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.x0, n.x1, n.x0256th, n.x1256th
}

// SetX sets the tick bounds and keeps the 256th bounds aligned to them.
func (n *Note) SetX(x0, x1 uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.x0, n.x1 = x0, x1
	n.x0256th, n.x1256th = 16*x0, 16*x1
}

// Set256th sets the fine bounds only.
func (n *Note) Set256th(x0, x1 uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.x0256th, n.x1256th = x0, x1
}

// ExtendX1 moves the end of the note by ticks, 256th bound included.
func (n *Note) ExtendX1(ticks uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.x1 += ticks
	n.x1256th += 16 * ticks
}

func (n *Note) SetY(y uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.y = y
}

func (n *Note) SetVelocity(v uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.velocity = v
}

func (n *Note) Flags() NoteFlags {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.flags
}

// HasFlags reports whether all of f are set.
func (n *Note) HasFlags(f NoteFlags) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.flags&f == f
}

func (n *Note) SetFlags(f NoteFlags) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.flags |= f
}

func (n *Note) UnsetFlags(f NoteFlags) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.flags &^= f
}

// Duplicate returns a copy with a new identity.
func (n *Note) Duplicate() *Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	return &Note{
		id:       nextNoteID.Add(1),
		flags:    n.flags,
		x0:       n.x0,
		x1:       n.x1,
		x0256th:  n.x0256th,
		x1256th:  n.x1256th,
		y:        n.y,
		velocity: n.velocity,
	}
}
