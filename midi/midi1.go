// SPDX-License-Identifier: EPL-2.0

package midi

const (
	StatusKeyOff          = 0x80
	StatusKeyOn           = 0x90
	StatusKeyPressure     = 0xA0
	StatusChangeParameter = 0xB0
	StatusChangeProgram   = 0xC0
	StatusChangePressure  = 0xD0
	StatusPitchBend       = 0xE0

	StatusSysex        = 0xF0
	StatusQuarterFrame = 0xF1
	StatusSongPosition = 0xF2
	StatusSongSelect   = 0xF3
	StatusTuneRequest  = 0xF6
	StatusSysexEnd     = 0xF7
	// StatusRealtime is the lowest real time status byte.
	StatusRealtime = 0xF8
)

func channelStatus(b []byte, status byte, length int) bool {
	return len(b) >= length && b[0]&0xF0 == status
}

func IsKeyOn(b []byte) bool           { return channelStatus(b, StatusKeyOn, 3) }
func IsKeyOff(b []byte) bool          { return channelStatus(b, StatusKeyOff, 3) }
func IsKeyPressure(b []byte) bool     { return channelStatus(b, StatusKeyPressure, 3) }
func IsChangeParameter(b []byte) bool { return channelStatus(b, StatusChangeParameter, 3) }
func IsChangeProgram(b []byte) bool   { return channelStatus(b, StatusChangeProgram, 2) }
func IsChangePressure(b []byte) bool  { return channelStatus(b, StatusChangePressure, 2) }
func IsPitchBend(b []byte) bool       { return channelStatus(b, StatusPitchBend, 3) }

// IsSysex reports whether b starts a complete system exclusive message.
func IsSysex(b []byte) bool {
	if len(b) < 2 || b[0] != StatusSysex {
		return false
	}

	for _, c := range b[1:] {
		if c == StatusSysexEnd {
			return true
		}
	}

	return false
}

func IsQuarterFrame(b []byte) bool { return len(b) >= 2 && b[0] == StatusQuarterFrame }
func IsSongPosition(b []byte) bool { return len(b) >= 3 && b[0] == StatusSongPosition }
func IsSongSelect(b []byte) bool   { return len(b) >= 2 && b[0] == StatusSongSelect }
func IsTuneRequest(b []byte) bool  { return len(b) >= 1 && b[0] == StatusTuneRequest }
func IsRealtime(b []byte) bool     { return len(b) >= 1 && b[0] >= StatusRealtime }

// MessageLength returns the byte length of the message b starts with, or 0
// when b does not start with a known status byte. A sysex message runs up
// to and including its end byte; an unterminated one spans all of b.
func MessageLength(b []byte) int {
	if len(b) == 0 {
		return 0
	}

	status := b[0]
	if status < 0x80 {
		return 0
	}

	if status < 0xF0 {
		switch status & 0xF0 {
		case StatusChangeProgram, StatusChangePressure:
			return 2
		default:
			return 3
		}
	}

	switch status {
	case StatusSysex:
		for i, c := range b[1:] {
			if c == StatusSysexEnd {
				return i + 2
			}
		}
		return len(b)
	case StatusQuarterFrame, StatusSongSelect:
		return 2
	case StatusSongPosition:
		return 3
	case StatusTuneRequest:
		return 1
	}

	if status >= StatusRealtime {
		return 1
	}

	// undefined system common (0xF4, 0xF5) and a stray 0xF7
	return 0
}

// Channel returns the channel of a channel voice message.
func Channel(b []byte) byte {
	return b[0] & 0x0F
}

// Key returns the key of a note message.
func Key(b []byte) byte {
	return b[1] & 0x7F
}

// Velocity returns the velocity of a note message.
func Velocity(b []byte) byte {
	return b[2] & 0x7F
}
