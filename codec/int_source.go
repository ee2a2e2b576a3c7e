// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"io"

	goaudio "github.com/go-audio/audio"
)

// pcmReader is what the go-audio WAV and AIFF decoders have in common.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource turns integer PCM from a go-audio decoder into float32.
type intSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	fullScale  float32
	// bias is subtracted before scaling; 8 bit WAV is unsigned.
	bias       int
	intBuf     *goaudio.IntBuffer
}

func newIntSource(dec pcmReader, bitDepth int) (*intSource, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedWavLayout
	}

	var scale float32
	switch bitDepth {
	case 8:
		scale = 1 << 7
	case 16:
		scale = 1 << 15
	case 24:
		scale = 1 << 23
	case 32:
		scale = 1 << 31
	default:
		return nil, ErrUnsupportedBitDepth
	}

	return &intSource{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		fullScale:  scale,
	}, nil
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}

	return 4096
}

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]-s.bias) / s.fullScale
	}

	if n < len(dst) && err == nil {
		return n, io.EOF
	}

	return n, err
}
