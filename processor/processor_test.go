// SPDX-License-Identifier: EPL-2.0

package processor

import (
	"io"
	"math"
	"testing"

	"github.com/ik5/notecore/audiosignal"
	"github.com/ik5/notecore/internal/audiotest"
	"github.com/ik5/notecore/machine"
	"github.com/ik5/notecore/notation"
	"github.com/ik5/notecore/port"
	"github.com/ik5/notecore/recall"
	"github.com/ik5/notecore/soundcard"
	"github.com/ik5/notecore/stream"
)

func newProcessor(pads int, opts ...machine.Option) (*NotationAudioProcessor, *audiotest.Soundcard) {
	sc := audiotest.NewSoundcard()
	sc.SetDelay(3.5)

	opts = append([]machine.Option{machine.WithOutputSoundcard(sc)}, opts...)
	a := machine.New(1, pads, opts...)

	return New(a, 0, recall.New(recall.ScopeNotation, nil)), sc
}

func signalsOnPad(p *NotationAudioProcessor, pad int) []*audiosignal.AudioSignal {
	return p.Audio().Input(pad, 0).Recyclings()[0].Signals()
}

func TestCounterChange_PulseCadence(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(1)
	port.Write(p.Fx().Delay, port.DoubleValue(3.5))

	for call := 1; call <= 12; call++ {
		p.CounterChange()

		if got, want := p.Has16thPulse(), call%4 == 0; got != want {
			t.Fatalf("call %d: Has16thPulse() = %v, want %v", call, got, want)
		}
		if got, want := p.next.offset, uint64(call/4); got != want {
			t.Fatalf("call %d: offset = %d, want %d", call, got, want)
		}
	}
}

func TestCounterChange_SoundcardPulse(t *testing.T) {
	t.Parallel()

	p, sc := newProcessor(1)
	sc.SetNoteOffset(0)
	sc.SetNextWindow(16, 31)

	p.CounterChange()

	if !p.Has16thPulse() || p.next.offset != 1 || p.DelayCounter() != 0 {
		t.Errorf("pulse = %v, offset = %d, delay counter = %v", p.Has16thPulse(), p.next.offset, p.DelayCounter())
	}
	if p.next.note256thLower != 16 || p.next.note256thUpper != 31 {
		t.Errorf("next window = %d..%d", p.next.note256thLower, p.next.note256thUpper)
	}
}

func TestCounterChange_WindowRegressionPulses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		lower, upper uint64
		pulse        bool
	}{
		{"loop wrap", 32, 40, true},
		{"one 256th back", 159, 165, true},
		{"jump ahead", 500, 510, true},
		{"contiguous", 171, 172, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, sc := newProcessor(1)
			sc.SetNoteOffset(10)
			sc.SetWindow(160, 170)
			sc.SetNextWindow(tt.lower, tt.upper)

			p.CounterChange()

			if p.Has16thPulse() != tt.pulse {
				t.Errorf("Has16thPulse() = %v, want %v", p.Has16thPulse(), tt.pulse)
			}
		})
	}
}

func TestCounterChange_LoopWrap(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(1)
	fx := p.Fx()
	port.Write(fx.Delay, port.DoubleValue(0))
	port.Write(fx.Loop, port.BoolValue(true))
	port.Write(fx.LoopStart, port.UintValue(2))
	port.Write(fx.LoopEnd, port.UintValue(5))

	want := []uint64{1, 2, 3, 4, 2, 3, 4, 2, 3, 4, 2}
	for i, w := range want {
		p.CounterChange()
		if p.next.offset != w {
			t.Fatalf("step %d: offset = %d, want %d", i, p.next.offset, w)
		}
	}
}

func TestCounterChange_TicWraps(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(1)
	port.Write(p.Fx().Delay, port.DoubleValue(0))

	for range soundcard.DefaultPeriod + 3 {
		p.CounterChange()
	}
	p.RunInter()

	if p.Tic() != 3 {
		t.Errorf("Tic() = %d, want 3", p.Tic())
	}
}

func TestCounterChange_TicWrapsAtPeriodPort(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(1)
	port.Write(p.Fx().Delay, port.DoubleValue(0))
	port.Write(p.Fx().Period, port.UintValue(4))

	for range 6 {
		p.CounterChange()
	}
	p.RunInter()

	if p.Tic() != 2 {
		t.Errorf("Tic() = %d, want 6 mod 4", p.Tic())
	}

	p.Seek(7, io.SeekStart)
	if p.Tic() != 3 {
		t.Errorf("Tic() = %d after Seek(7), want 3", p.Tic())
	}

	port.Write(p.Fx().Period, port.UintValue(0))
	p.Seek(70, io.SeekStart)
	if p.Tic() != 70%soundcard.DefaultPeriod {
		t.Errorf("Tic() = %d with a zero period, want the default cycle", p.Tic())
	}
}

func TestCounterChange_MissingPortsUseDefaults(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(1)
	*p.Fx() = FxNotationAudio{}

	steps := int(math.Floor(soundcard.DefaultDelay)) + 1
	for range steps {
		p.CounterChange()
	}

	if !p.Has16thPulse() || p.next.offset != 1 {
		t.Errorf("pulse = %v, offset = %d after %d calls", p.Has16thPulse(), p.next.offset, steps)
	}
	if p.BPM() != soundcard.DefaultBPM || p.Tact() != soundcard.DefaultTact {
		t.Errorf("BPM() = %v, Tact() = %v", p.BPM(), p.Tact())
	}
}

func TestRunInitPre(t *testing.T) {
	t.Parallel()

	p, sc := newProcessor(1)
	sc.SetDelay(8)
	port.Write(p.Fx().Delay, port.DoubleValue(0))
	p.CounterChange()
	p.RunInter()

	sc.SetWindow(3, 9)
	p.RunInitPre()

	if lower, upper := p.Note256thOffset(); lower != 3 || upper != 9 {
		t.Errorf("window = %d..%d, want the soundcard's 3..9", lower, upper)
	}
	if p.next.note256thLower != 3 || p.next.note256thUpper != 9 {
		t.Errorf("next window = %d..%d", p.next.note256thLower, p.next.note256thUpper)
	}
	if p.NotationCounter() != 0 || p.next.offset != 0 || p.Tic() != 0 {
		t.Errorf("counters not reset: %+v %+v", p.active, p.next)
	}
	if !p.Has16thPulse() || p.Note256thDelay() != 0.5 {
		t.Errorf("pulse = %v, 256th delay = %v", p.Has16thPulse(), p.Note256thDelay())
	}
}

func TestKeyOn_Pad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []machine.Option
		pad   int
		other int
	}{
		{"forward", nil, 3, 4},
		{"reverse", []machine.Option{machine.WithBehaviour(machine.ReverseMapping)}, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newProcessor(8, tt.opts...)
			note := notation.NewNote(0, 1, 3)

			created := p.KeyOn(note, 100, KeyModePlay)
			if len(created) != 1 {
				t.Fatalf("KeyOn() created %d signals", len(created))
			}
			if got := signalsOnPad(p, tt.pad); len(got) != 1 || got[0] != created[0] {
				t.Errorf("pad %d holds %d signals", tt.pad, len(got))
			}
			if got := signalsOnPad(p, tt.other); len(got) != 0 {
				t.Errorf("pad %d holds %d signals", tt.other, len(got))
			}
		})
	}
}

func TestKeyOn_Signal(t *testing.T) {
	t.Parallel()

	p, sc := newProcessor(8)
	sc.SetAttackAtPosition(7)
	note := notation.NewNote(2, 3, 1)

	s := p.KeyOn(note, 90, KeyModeMIDI1Record)[0]

	if s.Length() != 5 {
		t.Errorf("Length() = %d, want floor(3.5)+2", s.Length())
	}
	if !s.HasFlags(audiosignal.FlagStream | audiosignal.FlagSliceAlloc) {
		t.Errorf("Flags() = %b", s.Flags())
	}
	if s.KeyFormat() != audiosignal.KeyFormat256th || s.StreamMode() != audiosignal.StreamModeContinuesFeed {
		t.Error("signal not keyed on the 256th grid")
	}
	if s.Attack() != 7 || s.Delay() != 3.5 {
		t.Errorf("Attack() = %d, Delay() = %v", s.Attack(), s.Delay())
	}
	if !s.HasNote(note) || note.Velocity() != 90 {
		t.Error("note not linked")
	}
	if s.RecallID().Context().Parent() != p.RecallID().Context() {
		t.Error("signal does not run in a child context")
	}
	if s.Refs() != 2 || len(p.RecordingSignals()) != 1 {
		t.Errorf("Refs() = %d, recording = %d", s.Refs(), len(p.RecordingSignals()))
	}
}

func TestKeyOn_OutsidePads(t *testing.T) {
	t.Parallel()

	p, _ := newProcessor(4)
	if got := p.KeyOn(notation.NewNote(0, 1, 9), 0, KeyModePlay); got != nil {
		t.Errorf("KeyOn() = %v, want nil", got)
	}
}

func TestSeek(t *testing.T) {
	t.Parallel()

	p, sc := newProcessor(4)
	sc.SetAttackPosition(3, 5)
	p.Audio().NotationAt(0, 0, true).AddNote(notation.NewNote(4, 9, 1))

	tests := []struct {
		offset int64
		whence int
		want   uint64
	}{
		{-1, io.SeekEnd, 8},
		{2, io.SeekCurrent, 10},
		{-5, io.SeekStart, 0},
		{6, io.SeekStart, 6},
		{1, 42, 6},
	}

	for _, tt := range tests {
		if got := p.Seek(tt.offset, tt.whence); got != tt.want {
			t.Fatalf("Seek(%d, %d) = %d, want %d", tt.offset, tt.whence, got, tt.want)
		}
	}

	lower, upper := p.Note256thOffset()
	if lower != 16*6+3 || upper != 16*6+5 {
		t.Errorf("window = %d..%d", lower, upper)
	}
	if p.NotationCounter() != 6 || p.next.offset != 6 || p.Tic() != 6 || !p.Has16thPulse() {
		t.Errorf("counters = %+v %+v", p.active, p.next)
	}
}

func TestChangeBPM(t *testing.T) {
	t.Parallel()

	p, sc := newProcessor(1)
	sc.SetPresets(soundcard.Presets{Channels: 2, Samplerate: 44100, BufferSize: 512, Format: stream.Signed16})

	p.ChangeBPM(120, 60)
	want := soundcard.ComputeDelay(44100, 512, 60, soundcard.DefaultTact)

	if p.BPM() != 60 || port.ReadDouble(p.Fx().Delay, 0) != want {
		t.Errorf("BPM() = %v, delay = %v, want %v", p.BPM(), port.ReadDouble(p.Fx().Delay, 0), want)
	}
	if p.Note256thDelay() != want/16 {
		t.Errorf("Note256thDelay() = %v", p.Note256thDelay())
	}

	p.ChangeTact(soundcard.DefaultTact, 0.5)
	if p.Tact() != 0.5 || port.ReadDouble(p.Fx().Delay, 0) != want/2 {
		t.Errorf("Tact() = %v, delay = %v", p.Tact(), port.ReadDouble(p.Fx().Delay, 0))
	}
}

func TestKeyMode_String(t *testing.T) {
	t.Parallel()

	for mode, want := range map[KeyMode]string{
		KeyModePlay:        "play",
		KeyModeMIDI1Record: "midi1-record",
		KeyModeMIDI2Record: "midi2-record",
		KeyModeFeed:        "feed",
		KeyMode(9):         "unknown",
	} {
		if mode.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(mode), mode.String(), want)
		}
	}
}
