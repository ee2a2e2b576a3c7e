// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"fmt"

	"github.com/ik5/notecore/audio"
	"github.com/ik5/notecore/stream"
)

// ImportSource drains src into s, mixed down to mono and resampled to the
// signal's rate. The previous stream content is replaced and the source is
// left open.
func ImportSource(s *AudioSignal, src audio.Source) error {
	if s == nil || src == nil {
		return nil
	}

	samples, err := audio.CollectMono(src, s.Samplerate(), 0)
	if err != nil {
		return fmt.Errorf("importing source: %w", err)
	}

	flat := stream.Alloc(len(samples), stream.Float)
	copy(stream.Data[float32](flat), samples)

	s.importFlat(flat, s.Samplerate())
	stream.Free(flat)

	return nil
}
