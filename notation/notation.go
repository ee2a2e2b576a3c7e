// SPDX-License-Identifier: EPL-2.0

package notation

import (
	"sort"
	"sync"
)

// DefaultOffset is the width, in ticks, of one notation bucket: 64 bars of
// minimum length (1/16) notes.
const DefaultOffset = 64 * 16

// Timestamp places a Notation bucket on the grid.
type Timestamp struct {
	Offset uint64
}

// TimestampFor returns the bucket timestamp tick x falls into.
func TimestampFor(x uint64) Timestamp {
	return Timestamp{Offset: DefaultOffset * (x / DefaultOffset)}
}

// Contains reports whether tick x falls into the bucket at ts.
func (ts Timestamp) Contains(x uint64) bool {
	return x >= ts.Offset && x < ts.Offset+DefaultOffset
}

// Notation is the bucket of notes of one audio channel starting at a
// Timestamp. Notes are kept sorted by start position, then key.
type Notation struct {
	mu sync.Mutex

	audioChannel int
	timestamp    Timestamp
	notes        []*Note
}

// New returns an empty bucket.
func New(audioChannel int, ts Timestamp) *Notation {
	return &Notation{
		audioChannel: audioChannel,
		timestamp:    ts,
	}
}

func (n *Notation) AudioChannel() int {
	return n.audioChannel
}

func (n *Notation) Timestamp() Timestamp {
	return n.timestamp
}

// AddNote inserts note in order. A note already present is ignored.
func (n *Notation) AddNote(note *Note) {
	if note == nil {
		return
	}

	x0 := note.X0256th()
	y := note.Y()

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, cur := range n.notes {
		if cur == note {
			return
		}
	}

	i := sort.Search(len(n.notes), func(i int) bool {
		cx := n.notes[i].X0256th()
		if cx != x0 {
			return cx > x0
		}
		return n.notes[i].Y() > y
	})

	n.notes = append(n.notes, nil)
	copy(n.notes[i+1:], n.notes[i:])
	n.notes[i] = note
}

// RemoveNote removes note by identity and reports whether it was present.
func (n *Notation) RemoveNote(note *Note) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, cur := range n.notes {
		if cur == note {
			n.notes = append(n.notes[:i], n.notes[i+1:]...)
			return true
		}
	}

	return false
}

// RemoveNoteAtPosition removes the first note starting at tick x0 on key y.
func (n *Notation) RemoveNoteAtPosition(x0, y uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, cur := range n.notes {
		if cur.X0() == x0 && cur.Y() == y {
			n.notes = append(n.notes[:i], n.notes[i+1:]...)
			return true
		}
	}

	return false
}

// FindPoint returns the note on key y that covers tick x.
func (n *Notation) FindPoint(x, y uint64) *Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, cur := range n.notes {
		x0, x1, _, _ := cur.Bounds()
		if x0 > x {
			break
		}
		if x < x1 && cur.Y() == y {
			return cur
		}
	}

	return nil
}

// FindRegion returns the notes starting in ticks [x0, x1) on keys [y0, y1).
func (n *Notation) FindRegion(x0, y0, x1, y1 uint64) []*Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []*Note
	for _, cur := range n.notes {
		cx := cur.X0()
		if cx >= x1 {
			break
		}
		if cy := cur.Y(); cx >= x0 && cy >= y0 && cy < y1 {
			out = append(out, cur)
		}
	}

	return out
}

// FindRange256th returns the notes whose 256th span overlaps
// [lower, upper).
func (n *Notation) FindRange256th(lower, upper uint64) []*Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []*Note
	for _, cur := range n.notes {
		_, _, x0, x1 := cur.Bounds()
		if x0 >= upper {
			break
		}
		if x1 > lower || x0 >= lower {
			out = append(out, cur)
		}
	}

	return out
}

// Notes returns a snapshot of the notes.
func (n *Notation) Notes() []*Note {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]*Note(nil), n.notes...)
}

func (n *Notation) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.notes)
}

// End returns the largest note end tick, 0 for an empty bucket.
func (n *Notation) End() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	var end uint64
	for _, cur := range n.notes {
		end = max(end, cur.X1())
	}

	return end
}

// FindNear returns the bucket of audioChannel whose timestamp equals
// TimestampFor(ts.Offset), or nil.
func FindNear(list []*Notation, audioChannel int, ts Timestamp) *Notation {
	want := TimestampFor(ts.Offset)

	for _, n := range list {
		if n.audioChannel == audioChannel && n.timestamp == want {
			return n
		}
	}

	return nil
}
