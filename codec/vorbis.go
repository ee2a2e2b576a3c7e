// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"io"

	"github.com/ik5/notecore/audio"
	"github.com/jfreymuth/oggvorbis"
)

// frameReader is the part of oggvorbis.Reader the source needs. Read
// fills interleaved samples and counts them in frames.
type frameReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type vorbisSource struct {
	dec      frameReader
	channels int
}

func (s *vorbisSource) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisSource) Channels() int   { return s.channels }
func (s *vorbisSource) Close() error    { return nil }
func (s *vorbisSource) BufSize() int    { return 4096 / s.channels * s.channels }

func (s *vorbisSource) ReadSamples(dst []float32) (int, error) {
	whole := len(dst) / s.channels * s.channels
	if whole == 0 {
		return 0, nil
	}

	frames, err := s.dec.Read(dst[:whole])

	return frames * s.channels, err
}

// Vorbis decodes Ogg Vorbis data.
type Vorbis struct{}

func (Vorbis) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening ogg stream: %w", err)
	}

	return &vorbisSource{
		dec:      dec,
		channels: max(dec.Channels(), 1),
	}, nil
}
