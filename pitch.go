// SPDX-License-Identifier: EPL-2.0

package notecore

import (
	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/fluid"
	"github.com/ik5/notecore/stream"
)

// endTaps is how far past its last output sample the interpolator reads.
const endTaps = fluid.Order / 2

// PitchSignal returns a copy of s pitched through u. The whole stream is
// flattened and pitched in one pass, so the phase runs across buffer
// boundaries; the result is cut back into buffers of the same size. u
// carries tuning and vibrato; its buffers, length, format and samplerate are
// overwritten. A nil u uses fluid.New() and leaves the pitch unchanged.
func PitchSignal(s *audiosignal.AudioSignal, u *fluid.Util) *audiosignal.AudioSignal {
	if s == nil {
		return nil
	}
	if u == nil {
		u = fluid.New()
	}

	// presets last, the soundcard would override them
	out := audiosignal.New(
		audiosignal.WithOutputSoundcard(s.OutputSoundcard()),
		audiosignal.WithPresets(s.Samplerate(), s.BufferSize(), s.Format()),
		audiosignal.WithRecallID(s.RecallID()),
		audiosignal.WithFlags(s.Flags()),
	)
	out.StreamResize(s.Length())
	out.SetLoop(s.Loop())
	out.SetFirstFrame(s.FirstFrame())
	out.SetLastFrame(s.LastFrame())
	out.SetFrameCount(s.FrameCount())

	flat := s.Flatten()
	if flat == nil {
		return out
	}
	defer stream.Free(flat)

	frames := flat.Len()
	bufferSize := s.BufferSize()

	// the end taps read real silence instead of the clamped last sample
	src := stream.Alloc(frames+endTaps, s.Format())
	defer stream.Free(src)
	stream.Copy(src, 0, flat, 0, frames)

	dst := stream.Alloc(frames, s.Format())
	defer stream.Free(dst)

	u.Format = s.Format()
	u.Samplerate = s.Samplerate()
	u.BufferLength = frames
	u.SourceStride, u.DestinationStride = 1, 1
	u.Source, u.Destination = src, dst
	u.Pitch()
	u.Source, u.Destination = nil, nil

	for i := range out.Length() {
		stream.Copy(out.Buffer(i), 0, dst, i*bufferSize, bufferSize)
	}

	return out
}
