// SPDX-License-Identifier: EPL-2.0

// Package notecore schedules musical notes onto audio buffer streams.
//
// The heavy lifting lives in the subpackages:
//   - audiosignal holds AudioSignal, the reference counted buffer stream
//     that templates and live notes are made of, and the feed routines
//     copying a template into a keyed signal.
//   - processor keys notation and live MIDI onto AudioSignals on every
//     period of a soundcard.
//   - fluid is the 7th order interpolating pitch shifter.
//   - codec and audio decode WAV, AIFF, MP3 and Ogg Vorbis into templates.
//
// This package ties them together for the common cases:
//
//	src, err := codec.NewRegistry().Decode("wav", file)
//	if err != nil {
//	    return err
//	}
//	tmpl, err := notecore.ImportTemplate(src, audiosignal.WithOutputSoundcard(sc))
//
// A template put on a pad's recycling is what the processor feeds new notes
// from. PitchSignal derives a retuned copy of a signal and WriteWAV renders
// one to a canonical 16 bit WAV.
//
// # Logging
//
// Nothing in the real-time path returns errors. Degraded operations are
// logged at Warn level through log/slog; SetLogger routes them.
package notecore
