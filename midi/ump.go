// SPDX-License-Identifier: EPL-2.0

package midi

import "encoding/binary"

// UMP message types.
const (
	TypeUtility      = 0x0
	TypeSystem       = 0x1
	TypeMIDI1Channel = 0x2
	TypeData64       = 0x3
	TypeMIDI2Channel = 0x4
	TypeData128      = 0x5
	TypeFlexData     = 0xD
	TypeStream       = 0xF
)

// UMP stream statuses.
const (
	StreamEndpointDiscovery      = 0x000
	StreamEndpointInfo           = 0x001
	StreamFunctionBlockDiscovery = 0x010
	StreamFunctionBlockInfo      = 0x011
)

// wordCounts is indexed by message type.
var wordCounts = [16]int{1, 1, 1, 2, 2, 4, 1, 1, 2, 2, 2, 3, 3, 4, 4, 4}

// MessageType returns the type nibble of the first word of a packet.
func MessageType(w uint32) uint8 {
	return uint8(w >> 28)
}

// WordCount returns the number of 32 bit words a packet starting with w
// spans.
func WordCount(w uint32) int {
	return wordCounts[MessageType(w)]
}

// Group returns the UMP group of a packet.
func Group(w uint32) uint8 {
	return uint8(w>>24) & 0x0F
}

// Status returns the status nibble of a channel voice packet.
func Status(w uint32) uint8 {
	return uint8(w>>16) & 0xF0
}

// UMPChannel returns the channel of a channel voice packet.
func UMPChannel(w uint32) uint8 {
	return uint8(w>>16) & 0x0F
}

func voice(words []uint32, typ uint8, status uint8) bool {
	if len(words) == 0 || MessageType(words[0]) != typ || Status(words[0]) != status {
		return false
	}

	return len(words) >= WordCount(words[0])
}

// IsMIDI1NoteOn reports a MIDI 1.0 channel voice note on carried in UMP.
func IsMIDI1NoteOn(words []uint32) bool  { return voice(words, TypeMIDI1Channel, StatusKeyOn) }
func IsMIDI1NoteOff(words []uint32) bool { return voice(words, TypeMIDI1Channel, StatusKeyOff) }
func IsMIDI2NoteOn(words []uint32) bool  { return voice(words, TypeMIDI2Channel, StatusKeyOn) }
func IsMIDI2NoteOff(words []uint32) bool { return voice(words, TypeMIDI2Channel, StatusKeyOff) }

func IsFlexData(words []uint32) bool {
	return len(words) >= 4 && MessageType(words[0]) == TypeFlexData
}

// IsNoop reports a utility NOOP packet.
func IsNoop(words []uint32) bool {
	return len(words) >= 1 && MessageType(words[0]) == TypeUtility && (words[0]>>20)&0x0F == 0
}

func streamStatus(words []uint32, status uint32) bool {
	return len(words) >= 4 && MessageType(words[0]) == TypeStream && (words[0]>>16)&0x3FF == status
}

func IsEndpointDiscovery(words []uint32) bool {
	return streamStatus(words, StreamEndpointDiscovery)
}

func IsEndpointInfo(words []uint32) bool {
	return streamStatus(words, StreamEndpointInfo)
}

func IsFunctionBlockDiscovery(words []uint32) bool {
	return streamStatus(words, StreamFunctionBlockDiscovery)
}

func IsFunctionBlockInfo(words []uint32) bool {
	return streamStatus(words, StreamFunctionBlockInfo)
}

// MIDI1Note decodes a MIDI 1.0 note packet.
func MIDI1Note(w uint32) (group, channel, key, velocity uint8) {
	return Group(w), UMPChannel(w), uint8(w>>8) & 0x7F, uint8(w) & 0x7F
}

// MIDI2Note decodes a MIDI 2.0 note packet. The velocity is 16 bit.
func MIDI2Note(words []uint32) (group, channel, key uint8, velocity uint16, attrType uint8, attrData uint16) {
	w0, w1 := words[0], words[1]

	return Group(w0), UMPChannel(w0), uint8(w0>>8) & 0x7F,
		uint16(w1 >> 16), uint8(w0), uint16(w1)
}

// Words decodes big endian packed words. Trailing bytes that do not make a
// full word are ignored.
func Words(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(b[4*i:])
	}

	return out
}

// AppendWords packs words big endian onto b.
func AppendWords(b []byte, words ...uint32) []byte {
	for _, w := range words {
		b = binary.BigEndian.AppendUint32(b, w)
	}

	return b
}

// MIDI1NoteOnWord builds a MIDI 1.0 note on packet.
func MIDI1NoteOnWord(group, channel, key, velocity uint8) uint32 {
	return uint32(TypeMIDI1Channel)<<28 | uint32(group&0x0F)<<24 |
		uint32(StatusKeyOn|channel&0x0F)<<16 | uint32(key&0x7F)<<8 | uint32(velocity&0x7F)
}

// MIDI1NoteOffWord builds a MIDI 1.0 note off packet.
func MIDI1NoteOffWord(group, channel, key, velocity uint8) uint32 {
	return uint32(TypeMIDI1Channel)<<28 | uint32(group&0x0F)<<24 |
		uint32(StatusKeyOff|channel&0x0F)<<16 | uint32(key&0x7F)<<8 | uint32(velocity&0x7F)
}

// MIDI2NoteWords builds a MIDI 2.0 note packet. on selects note on or off.
func MIDI2NoteWords(on bool, group, channel, key uint8, velocity uint16) [2]uint32 {
	status := uint32(StatusKeyOff)
	if on {
		status = StatusKeyOn
	}

	return [2]uint32{
		uint32(TypeMIDI2Channel)<<28 | uint32(group&0x0F)<<24 |
			(status|uint32(channel&0x0F))<<16 | uint32(key&0x7F)<<8,
		uint32(velocity) << 16,
	}
}
