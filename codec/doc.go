// SPDX-License-Identifier: EPL-2.0

// Package codec decodes encoded sample data into audio.Source streams a
// template can be imported from.
//
// Decoders only ever read from the io.Reader they are handed:
//
//	reg := codec.NewRegistry()
//	src, err := reg.Decode("wav", r)
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
// Canonical 16 bit PCM WAV streams straight from the reader. Other WAV
// layouts and AIFF are buffered in memory first, the go-audio decoders
// need to seek.
package codec
