// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/notecore/utils"
)

// Resampler streams src at another sample rate using cubic interpolation.
// Channels stay interleaved. When downsampling a one-pole low-pass runs on
// the input frames.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64
	channels int

	// hist holds the frames at t-1, t0, t+1, t+2; live marks which of
	// them came from the source rather than edge duplication.
	hist    [4][]float32
	live    [4]bool
	started bool
	pos     float64

	block      []float32
	blockPos   int
	blockLen   int
	srcErr     error
	lowpass    bool
	lowpassMem []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	ratio := 1.0
	if dstRate > 0 {
		ratio = float64(src.SampleRate()) / float64(dstRate)
	}

	r := &Resampler{
		src:        src,
		dstRate:    dstRate,
		ratio:      ratio,
		channels:   channels,
		block:      make([]float32, channels*1024),
		lowpass:    ratio > 1,
		lowpassMem: make([]float32, channels),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampled source: %w", err)
	}

	return nil
}

// pull reads the next source frame into dst.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for r.blockPos+r.channels > r.blockLen {
		if r.srcErr != nil {
			if errors.Is(r.srcErr, io.EOF) {
				return false, nil
			}
			return false, r.srcErr
		}

		n, err := r.src.ReadSamples(r.block)
		r.blockLen = n - n%r.channels
		r.blockPos = 0
		r.srcErr = err
		if n == 0 && err == nil {
			r.srcErr = io.EOF
		}
	}

	copy(dst, r.block[r.blockPos:r.blockPos+r.channels])
	r.blockPos += r.channels

	if r.lowpass {
		if !r.started {
			copy(r.lowpassMem, dst)
		}
		for c := range dst {
			dst[c] = 0.5*dst[c] + 0.5*r.lowpassMem[c]
			r.lowpassMem[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) start() (bool, error) {
	ok, err := r.pull(r.hist[1])
	if !ok {
		return false, err
	}
	r.started = true

	copy(r.hist[0], r.hist[1])
	r.live[0], r.live[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.pull(r.hist[i])
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
		r.live[i] = ok
	}

	return true, nil
}

func (r *Resampler) advance() (bool, error) {
	first := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.live[0], r.live[1], r.live[2] = r.live[1], r.live[2], r.live[3]
	r.hist[3] = first

	ok, err := r.pull(r.hist[3])
	if err != nil {
		return false, err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.live[3] = ok

	return r.live[1], nil
}

// ReadSamples produces interleaved samples at the destination rate. The
// length of dst must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.dstRate <= 0 {
		return 0, ErrInvalidRate
	}

	if !r.started {
		ok, err := r.start()
		if err != nil {
			return 0, fmt.Errorf("resampler: %w", err)
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	for f := range frames {
		for r.pos >= 1 {
			r.pos--

			ok, err := r.advance()
			if err != nil {
				return f * r.channels, fmt.Errorf("resampler: %w", err)
			}
			if !ok {
				return f * r.channels, io.EOF
			}
		}

		x := float32(r.pos)
		out := dst[f*r.channels : (f+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		r.pos += r.ratio
	}

	return len(dst), nil
}
