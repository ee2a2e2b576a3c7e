// SPDX-License-Identifier: EPL-2.0

// Package audiosignal holds the sample timeline of one voice.
//
// An AudioSignal is a list of equally sized stream buffers in one format
// plus the frame bookkeeping needed to play, loop and grow it. Templates
// hold the prototype sample data of a pad; at key-on a live signal is
// created and fed from its template period by period:
//
//	live := audiosignal.New(audiosignal.WithOutputSoundcard(sc),
//	    audiosignal.WithFlags(audiosignal.FlagStream|audiosignal.FlagSliceAlloc))
//	audiosignal.OpenFeed(live, tmpl, bufferSize, 0)
//	audiosignal.ContinueFeed(live, tmpl, 2*bufferSize, bufferSize)
//	audiosignal.CloseFeed(live, tmpl, 3*bufferSize, 2*bufferSize)
//
// Reconfiguration (SetSamplerate, SetBufferSize, SetFormat) and feeding
// never fail loudly: mismatches are logged and leave the signal untouched.
//
// Signals are reference counted. The last Unref returns pooled buffers.
package audiosignal
