// SPDX-License-Identifier: EPL-2.0

package notecore

import (
	"fmt"
	"io"

	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/codec"
	"github.com/ik5/notecore/stream"
	"github.com/ik5/notecore/utils"
)

// WriteWAV renders the first FrameCount frames of s as a mono 16 bit WAV.
// A signal without a frame count is written whole.
func WriteWAV(w io.Writer, s *audiosignal.AudioSignal) error {
	if s == nil {
		return ErrNoSource
	}

	flat := s.Flatten()
	if flat == nil {
		return fmt.Errorf("notecore: cannot render %s signal", s.Format())
	}
	defer stream.Free(flat)

	frames := flat.Len()
	if n := s.FrameCount(); n > 0 && n < frames {
		frames = n
	}

	samples := make([]int16, frames)
	for i := range samples {
		samples[i] = int16(utils.UnitToInt(flat.At(i), 16))
	}

	if err := codec.WritePCM16(w, s.Samplerate(), 1, samples); err != nil {
		return fmt.Errorf("writing signal: %w", err)
	}

	return nil
}
