// SPDX-License-Identifier: EPL-2.0

// Package sequencer describes live MIDI input as the notation engine reads
// it: one raw buffer per period, locked while it is parsed.
package sequencer

import (
	"sync"

	"github.com/ik5/notecore/midi"
)

// Version is the wire protocol a sequencer delivers.
type Version int

const (
	MIDI1 Version = iota + 1
	// MIDI2 buffers hold Universal MIDI Packets, big endian words.
	MIDI2
)

func (v Version) String() string {
	switch v {
	case MIDI1:
		return "midi1"
	case MIDI2:
		return "midi2"
	}

	return "unknown"
}

// Sequencer is a source of live MIDI data.
//
// Buffer returns the bytes received since the last Drain. Callers hold
// LockBuffer while they read the returned slice.
type Sequencer interface {
	MIDIVersion() Version
	Buffer() []byte
	LockBuffer()
	UnlockBuffer()
}

// Buffer is an in memory Sequencer. Producers Write MIDI 1.0 bytes or
// WriteWords UMP packets; the consumer reads them once per period and
// calls Drain.
type Buffer struct {
	mu sync.Mutex

	version Version
	data    []byte
}

// NewBuffer returns an empty buffer speaking version.
func NewBuffer(version Version) *Buffer {
	return &Buffer{version: version}
}

func (b *Buffer) MIDIVersion() Version {
	return b.version
}

// Buffer returns the pending data. The slice is only valid while the
// buffer lock is held.
func (b *Buffer) Buffer() []byte {
	return b.data
}

func (b *Buffer) LockBuffer() {
	b.mu.Lock()
}

func (b *Buffer) UnlockBuffer() {
	b.mu.Unlock()
}

// Write appends raw bytes. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, p...)

	return len(p), nil
}

// WriteWords appends UMP words packed big endian.
func (b *Buffer) WriteWords(words ...uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = midi.AppendWords(b.data, words...)
}

// Drain discards the pending data and returns how many bytes it held.
func (b *Buffer) Drain() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.data)
	b.data = b.data[:0]

	return n
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.data)
}

var _ Sequencer = (*Buffer)(nil)
