// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/notecore/internal/logx"
	"github.com/ik5/notecore/stream"
	"github.com/ik5/notecore/utils"
)

// IntBuffer exports the stream as a mono go-audio IntBuffer. Integer
// formats keep their bit depth; float formats are exported as 32-bit.
func IntBuffer(s *AudioSignal) *goaudio.IntBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	depth := 32
	if s.format.IsInteger() {
		depth = int(s.format.Bits())
	}
	if depth > 32 {
		depth = 32
	}

	out := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  s.samplerate,
		},
		Data:           make([]int, 0, s.totalFrames()),
		SourceBitDepth: depth,
	}

	for _, b := range s.stream {
		for i := range b.Len() {
			var v int64
			if s.format.IsInteger() {
				v = utils.RescaleInt(b.Int(i), s.format.Bits(), uint(depth))
			} else {
				v = utils.UnitToInt(b.At(i), uint(depth))
			}
			out.Data = append(out.Data, int(v))
		}
	}

	return out
}

// ImportBuffer replaces the stream of s with the content of buf, mixed down
// to mono and resampled to the signal's rate.
func ImportBuffer(s *AudioSignal, buf goaudio.Buffer) {
	if s == nil || buf == nil {
		return
	}

	f := buf.PCMFormat()
	if f == nil || f.NumChannels <= 0 {
		logx.Warn("audiosignal: import of buffer without format")
		return
	}

	var mono []float64
	switch b := buf.(type) {
	case *goaudio.IntBuffer:
		depth := b.SourceBitDepth
		if depth <= 0 {
			depth = 16
		}
		mono = mixInterleaved(len(b.Data), f.NumChannels, func(i int) float64 {
			return utils.IntToUnit(int64(b.Data[i]), uint(depth))
		})
	case *goaudio.Float32Buffer:
		mono = mixInterleaved(len(b.Data), f.NumChannels, func(i int) float64 {
			return float64(b.Data[i])
		})
	default:
		fb := buf.AsFloatBuffer()
		mono = mixInterleaved(len(fb.Data), f.NumChannels, func(i int) float64 {
			return fb.Data[i]
		})
	}

	flat := stream.Alloc(len(mono), stream.Double)
	copy(stream.Data[float64](flat), mono)

	s.importFlat(flat, f.SampleRate)
	stream.Free(flat)
}

func mixInterleaved(n, channels int, at func(int) float64) []float64 {
	frames := n / channels
	out := make([]float64, frames)

	for i := range frames {
		var sum float64
		for c := range channels {
			sum += at(i*channels + c)
		}
		out[i] = utils.ClampUnit(sum / float64(channels))
	}

	return out
}

// importFlat resamples flat from rate to the signal's rate and writes it as
// the new stream content. Loop points are reset.
func (s *AudioSignal) importFlat(flat *stream.Buffer, rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bufferSize <= 0 {
		logx.Warn("audiosignal: import into signal without buffer size")
		return
	}

	src := flat
	if rate > 0 && s.samplerate > 0 && rate != s.samplerate {
		src = stream.Resample(flat, rate, s.samplerate)
		if src == nil {
			return
		}
		defer stream.Free(src)
	}

	frames := src.Len()
	s.streamResize((frames + s.bufferSize - 1) / s.bufferSize)
	s.scatter(src)

	s.firstFrame = 0
	s.lastFrame = frames
	s.frameCount = frames
	s.loopStart, s.loopEnd = 0, 0
}
