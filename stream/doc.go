// SPDX-License-Identifier: EPL-2.0

// Package stream provides the raw sample buffers AudioSignals are built
// from.
//
// # Formats
//
// Eight physical sample formats are supported:
//
//	Signed8   1 byte
//	Signed16  2 bytes
//	Signed24  4 bytes (stored in a 32-bit container)
//	Signed32  4 bytes
//	Signed64  8 bytes
//	Float     4 bytes
//	Double    8 bytes
//	Complex  16 bytes (two doubles)
//
// # Allocation
//
// Buffers come from one of two allocators:
//
//	buf := stream.Alloc(512, stream.Signed16)      // heap
//	defer stream.Free(buf)
//
//	tmp := stream.SliceAlloc(512, stream.Float)    // pooled, per period scratch
//	defer stream.SliceFree(tmp)
//
// A buffer must be released by the allocator that produced it. AudioSignal
// tracks the pairing with a single per-signal flag.
//
// # Conversion
//
// Copy converts between formats, Resample changes the sample rate of a flat
// buffer. Neither fails: unknown formats are logged and skipped.
package stream
