// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"slices"

	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/midi"
	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/sequencer"
)

// MIDI1Record consumes the MIDI 1.0 bytes of the audio's input sequencer.
// It does nothing when the sequencer speaks another protocol.
func (p *NotationAudioProcessor) MIDI1Record() {
	seq := p.inputSequencer(sequencer.MIDI1)
	if seq == nil {
		return
	}

	p.continueRecording()

	channel, _ := p.audio.MIDIChannel()

	seq.LockBuffer()
	buf := seq.Buffer()
	for i := 0; i < len(buf); {
		msg := buf[i:]

		switch {
		case midi.IsKeyOn(msg) && midi.Channel(msg) == channel:
			if v := midi.Velocity(msg); v > 0 {
				p.recordNoteOn(midi.Key(msg), uint32(v), KeyModeMIDI1Record)
			} else {
				p.recordNoteOff(midi.Key(msg))
			}
		case midi.IsKeyOff(msg) && midi.Channel(msg) == channel:
			p.recordNoteOff(midi.Key(msg))
		}

		n := midi.MessageLength(msg)
		if n == 0 {
			logx.Warn("processor: skipping unknown midi byte", "byte", msg[0], "index", i)
			n = 1
		}
		i += n
	}
	seq.UnlockBuffer()

	p.extendRecording()
}

// MIDI2Record consumes the Universal MIDI Packets of the audio's input
// sequencer. MIDI 1.0 channel voice packets are accepted too.
func (p *NotationAudioProcessor) MIDI2Record() {
	seq := p.inputSequencer(sequencer.MIDI2)
	if seq == nil {
		return
	}

	p.continueRecording()

	channel, group := p.audio.MIDIChannel()
	match := func(g, ch uint8) bool { return g == group && ch == channel }

	seq.LockBuffer()
	words := midi.Words(seq.Buffer())
	for i := 0; i < len(words); {
		packet := words[i:]
		n := midi.WordCount(packet[0])
		if len(packet) < n {
			logx.Warn("processor: truncated ump packet", "type", midi.MessageType(packet[0]), "words", len(packet))
			break
		}
		packet = packet[:n]

		switch {
		case midi.IsMIDI1NoteOn(packet):
			g, ch, key, v := midi.MIDI1Note(packet[0])
			if !match(g, ch) {
				break
			}
			if v > 0 {
				p.recordNoteOn(key, uint32(v), KeyModeMIDI2Record)
			} else {
				p.recordNoteOff(key)
			}
		case midi.IsMIDI1NoteOff(packet):
			if g, ch, key, _ := midi.MIDI1Note(packet[0]); match(g, ch) {
				p.recordNoteOff(key)
			}
		case midi.IsMIDI2NoteOn(packet):
			g, ch, key, v, _, _ := midi.MIDI2Note(packet)
			if !match(g, ch) {
				break
			}
			// velocity 0 releases, as on the MIDI 1.0 path
			if v > 0 {
				p.recordNoteOn(key, uint32(v), KeyModeMIDI2Record)
			} else {
				p.recordNoteOff(key)
			}
		case midi.IsMIDI2NoteOff(packet):
			if g, ch, key, _, _, _ := midi.MIDI2Note(packet); match(g, ch) {
				p.recordNoteOff(key)
			}
		case midi.IsNoop(packet), midi.IsFlexData(packet), midi.MessageType(packet[0]) == midi.TypeStream:
		case reservedType(midi.MessageType(packet[0])):
			logx.Warn("processor: skipping reserved ump packet", "type", midi.MessageType(packet[0]))
		}

		i += n
	}
	seq.UnlockBuffer()

	p.extendRecording()
}

func reservedType(t uint8) bool {
	switch t {
	case 0x6, 0x7, 0x8, 0x9, 0xA, 0xB, 0xC, 0xE:
		return true
	}

	return false
}

func (p *NotationAudioProcessor) inputSequencer(version sequencer.Version) sequencer.Sequencer {
	if p.audio == nil {
		return nil
	}

	seq := p.audio.InputSequencer()
	if seq == nil || seq.MIDIVersion() != version {
		return nil
	}

	return seq
}

// recordNoteOn opens a one tick note for key at the active offset, adds it
// to the notation and keys it. A key already held is ignored.
func (p *NotationAudioProcessor) recordNoteOn(key uint8, velocity uint32, mode KeyMode) {
	y, ok := p.audio.MapKey(key)
	if !ok {
		return
	}

	p.mu.Lock()
	if slices.ContainsFunc(p.recordingNote, func(n *notation.Note) bool { return n.Y() == y }) {
		p.mu.Unlock()
		return
	}

	offset := p.active.offset
	lower := p.active.note256thLower

	note := notation.NewNote(offset, offset+1, y)
	note.Set256th(lower, lower+16)
	note.SetVelocity(velocity)
	note.SetFlags(notation.NoteFeed)

	p.recordingNote = append(p.recordingNote, note)
	p.mu.Unlock()

	p.audio.NotationAt(p.audioChannel, offset, true).AddNote(note)
	p.KeyOn(note, velocity, mode)
}

// recordNoteOff closes the held note of key and releases its signals.
func (p *NotationAudioProcessor) recordNoteOff(key uint8) {
	y, ok := p.audio.MapKey(key)
	if !ok {
		return
	}

	p.mu.Lock()
	i := slices.IndexFunc(p.recordingNote, func(n *notation.Note) bool { return n.Y() == y })
	if i < 0 {
		p.mu.Unlock()
		return
	}

	note := p.recordingNote[i]
	p.recordingNote = slices.Delete(p.recordingNote, i, i+1)
	released := splitByNote(&p.recordingAudio, note)
	p.mu.Unlock()

	note.UnsetFlags(notation.NoteFeed)
	closeSignals(released)
}

// continueRecording grows the signals of the notes still held.
func (p *NotationAudioProcessor) continueRecording() {
	p.mu.Lock()
	list := slices.Clone(p.recordingAudio)
	p.mu.Unlock()

	continueSignals(list)
}

// extendRecording keeps every held note one tick past the active offset.
func (p *NotationAudioProcessor) extendRecording() {
	p.mu.Lock()
	offset := p.active.offset
	held := slices.Clone(p.recordingNote)
	p.mu.Unlock()

	for _, n := range held {
		if n.HasFlags(notation.NoteFeed) && n.X1() <= offset {
			n.ExtendX1(1)
		}
	}
}
