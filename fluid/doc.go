// SPDX-License-Identifier: EPL-2.0

// Package fluid implements 7th order windowed sinc interpolation for pitch
// shifting stream buffers.
//
// The coefficient table holds 256 fractional positions of a Hann windowed
// sinc over 7 taps. It is built once per process and read without locking
// afterwards. The read position is a 32.32 fixed point phase; its top 8
// fraction bits select the table row.
//
// The first output samples read the first source sample in place of taps
// before the start. Taps past the end of the source are not substituted
// with silence: give the source at least 3 trailing guard samples when the
// tail matters. Reads beyond the slice repeat its last sample.
package fluid
