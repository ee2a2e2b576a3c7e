// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// CollectMono drains src into one mono slice at targetRate. The source is
// mixed down first and only resampled when its rate differs. bufferSize is
// the read chunk; 0 uses the source's preference.
func CollectMono(src Source, targetRate int, bufferSize int) ([]float32, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidRate
	}

	var pipeline Source = NewMonoMixer(src)
	if src.SampleRate() != targetRate {
		pipeline = NewResampler(pipeline, targetRate)
	}

	if bufferSize <= 0 {
		bufferSize = max(src.BufSize(), 1)
	}

	var out []float32
	buf := make([]float32, bufferSize)

	for {
		n, err := pipeline.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("collecting samples: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}
