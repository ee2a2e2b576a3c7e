// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/notecore/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	canonicalHeaderSize = 44
)

// pcm16Source streams a canonical 16 bit PCM WAV.
type pcm16Source struct {
	r          io.Reader
	sampleRate int
	channels   int
	buf        []byte
}

func (s *pcm16Source) SampleRate() int { return s.sampleRate }
func (s *pcm16Source) Channels() int   { return s.channels }
func (s *pcm16Source) Close() error    { return nil }
func (s *pcm16Source) BufSize() int    { return cap(s.buf) / 2 }

func (s *pcm16Source) ReadSamples(dst []float32) (int, error) {
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(dst)*2]

	n, err := io.ReadFull(s.r, s.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("reading wav data: %w", err)
	}

	samples := n / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = float32(v) / 32768.0
	}

	if samples == 0 && err != nil {
		return 0, io.EOF
	}

	return samples, nil
}

// WAV decodes RIFF WAVE data.
type WAV struct{}

// Decode streams canonical 16 bit PCM directly and hands any other layout
// (8, 24 or 32 bit, extensible format, extra chunks) to go-audio/wav.
func (WAV) Decode(r io.Reader) (audio.Source, error) {
	header := make([]byte, canonicalHeaderSize)

	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("reading wav header: %w", err)
	}
	header = header[:n]

	if n < 12 || !bytes.Equal(header[:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	if isCanonicalPCM16(header) {
		return &pcm16Source{
			r:          r,
			sampleRate: int(binary.LittleEndian.Uint32(header[24:28])),
			channels:   int(binary.LittleEndian.Uint16(header[22:24])),
			buf:        make([]byte, 4096),
		}, nil
	}

	data, err := io.ReadAll(io.MultiReader(bytes.NewReader(header), r))
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	return decodeGoAudioWAV(bytes.NewReader(data))
}

func isCanonicalPCM16(h []byte) bool {
	return len(h) == canonicalHeaderSize &&
		bytes.Equal(h[12:16], []byte("fmt ")) &&
		binary.LittleEndian.Uint32(h[16:20]) == 16 &&
		binary.LittleEndian.Uint16(h[20:22]) == wavFormatPCM &&
		binary.LittleEndian.Uint16(h[34:36]) == 16 &&
		bytes.Equal(h[36:40], []byte("data"))
}

func decodeGoAudioWAV(rs io.ReadSeeker) (audio.Source, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}

	src, err := newIntSource(dec, int(dec.SampleBitDepth()))
	if err != nil {
		return nil, err
	}
	if dec.SampleBitDepth() == 8 {
		src.bias = 128
	}

	return src, nil
}
