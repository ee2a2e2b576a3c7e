// SPDX-License-Identifier: EPL-2.0

package codec_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/notecore/codec"
)

func ExampleNewRegistry() {
	var buf bytes.Buffer
	_ = codec.WritePCM16(&buf, 44100, 1, []int16{0, 16384, -16384})

	src, err := codec.NewRegistry().Decode("wav", &buf)
	if err != nil {
		fmt.Println(err)
		return
	}

	samples := make([]float32, 8)
	n, _ := src.ReadSamples(samples)
	fmt.Println(src.SampleRate(), src.Channels(), samples[:n])
	// Output: 44100 1 [0 0.5 -0.5]
}
