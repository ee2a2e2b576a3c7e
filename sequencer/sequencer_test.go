// SPDX-License-Identifier: EPL-2.0

package sequencer

import (
	"bytes"
	"testing"

	"github.com/ik5/notecore/midi"
)

func TestBuffer_WriteAndDrain(t *testing.T) {
	t.Parallel()

	b := NewBuffer(MIDI1)
	if b.MIDIVersion() != MIDI1 || b.MIDIVersion().String() != "midi1" {
		t.Fatalf("MIDIVersion() = %v", b.MIDIVersion())
	}

	n, err := b.Write([]byte{0x90, 0x3C, 0x40})
	if err != nil || n != 3 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	_, _ = b.Write([]byte{0x80, 0x3C, 0x00})

	b.LockBuffer()
	got := append([]byte(nil), b.Buffer()...)
	b.UnlockBuffer()

	if !bytes.Equal(got, []byte{0x90, 0x3C, 0x40, 0x80, 0x3C, 0x00}) {
		t.Errorf("Buffer() = % X", got)
	}

	if n := b.Drain(); n != 6 {
		t.Errorf("Drain() = %d, want 6", n)
	}
	if b.Len() != 0 {
		t.Errorf("Len() after Drain = %d", b.Len())
	}
}

func TestBuffer_WriteWords(t *testing.T) {
	t.Parallel()

	b := NewBuffer(MIDI2)
	words := midi.MIDI2NoteWords(true, 0, 0, 60, 0xFFFF)
	b.WriteWords(words[:]...)

	b.LockBuffer()
	got := midi.Words(b.Buffer())
	b.UnlockBuffer()

	if len(got) != 2 || got[0] != words[0] || got[1] != words[1] {
		t.Errorf("Words() = %08X, want %08X", got, words)
	}
	if Version(0).String() != "unknown" {
		t.Error("zero version should be unknown")
	}
}
