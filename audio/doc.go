// SPDX-License-Identifier: EPL-2.0

// Package audio is the decoding side of template import.
//
// A Decoder turns encoded data into a Source of interleaved float32 samples
// in [-1, 1]. Sources chain: MonoMixer averages channels, Resampler changes
// the rate with cubic interpolation, and CollectMono drains the chain into
// one mono slice ready to be written into an AudioSignal.
//
//	reg := codec.NewRegistry()
//	src, err := reg.Decode("wav", r)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	samples, err := audio.CollectMono(src, 44100, 0)
//
// Reads return io.EOF once the stream is exhausted, possibly together with
// the last samples.
package audio
