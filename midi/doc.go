// SPDX-License-Identifier: EPL-2.0

// Package midi classifies MIDI 1.0 byte streams and Universal MIDI Packets.
//
// The classifiers only look at the bytes or words they are handed and
// never allocate. MessageLength and WordCount tell a parser how far to
// advance, also past messages it does not handle.
package midi
