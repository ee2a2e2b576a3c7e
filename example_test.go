// SPDX-License-Identifier: EPL-2.0

package notecore_test

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ik5/notecore"
	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/codec"
	"github.com/ik5/notecore/machine"
	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/processor"
	"github.com/ik5/notecore/soundcard"
	"github.com/ik5/notecore/stream"
)

// Decode a WAV, use it as the template of a pad and let the processor play
// a note on that pad.
func Example() {
	clock := soundcard.NewClock()

	samples := make([]int16, 4096)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	var wav bytes.Buffer
	_ = codec.WritePCM16(&wav, 44100, 1, samples)

	tmpl, err := notecore.DecodeTemplate(codec.NewRegistry(), "wav", &wav,
		audiosignal.WithOutputSoundcard(clock))
	if err != nil {
		fmt.Println(err)
		return
	}

	a := machine.New(1, 8, machine.WithOutputSoundcard(clock))
	a.Input(4, 0).Recyclings()[0].AddAudioSignal(tmpl)
	a.NotationAt(0, 0, true).AddNote(notation.NewNote(0, 1, 4))

	p := processor.New(a, 0, nil)
	p.RunInitPre()
	for range 8 {
		p.RunInter()
		clock.Tick()
	}

	signals := a.Input(4, 0).Recyclings()[0].Signals()
	live := signals[len(signals)-1]
	fmt.Println(len(signals), live.HasFlags(audiosignal.FlagTemplate), live.FrameCount() > 0)
	// Output: 2 false true
}

func ExampleWriteWAV() {
	s := audiosignal.New(audiosignal.WithPresets(8000, 4, stream.Signed16))
	s.StreamResize(1)
	s.SetFrameCount(4)

	var buf bytes.Buffer
	if err := notecore.WriteWAV(&buf, s); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(buf.Len())
	// Output: 52
}
