// SPDX-License-Identifier: EPL-2.0

package audiosignal

import (
	"math"
	"testing"

	"github.com/ik5/notecore/stream"
)

// fillFrames writes value(frame) into every frame of s.
func fillFrames(s *AudioSignal, value func(frame int) int64) {
	bs := s.BufferSize()
	for i, b := range s.Stream() {
		for j := range b.Len() {
			b.SetInt(j, value(i*bs+j))
		}
	}
}

// frameAt returns the integer sample at frame.
func frameAt(s *AudioSignal, frame int) int64 {
	bs := s.BufferSize()
	return s.Buffer(frame / bs).Int(frame % bs)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	s := New()
	if s.Samplerate() != 44100 || s.BufferSize() != 512 || s.Format() != stream.Signed16 {
		t.Errorf("New() presets = %d/%d/%v", s.Samplerate(), s.BufferSize(), s.Format())
	}
	if s.WordSize() != 2 {
		t.Errorf("WordSize() = %d, want 2", s.WordSize())
	}
	if s.Length() != 0 || s.Current() != nil || s.CurrentIndex() != -1 {
		t.Error("new signal should have an empty stream and no cursor")
	}
	if s.Refs() != 1 {
		t.Errorf("Refs() = %d, want 1", s.Refs())
	}
}

func TestStreamResize_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format stream.Format
		slice  bool
		sizes  []int
	}{
		{"s16 heap", stream.Signed16, false, []int{10, 3, 0, 7}},
		{"s24 pooled", stream.Signed24, true, []int{4, 9, 1}},
		{"double heap", stream.Double, false, []int{2, 2, 5}},
		{"complex pooled", stream.Complex, true, []int{6, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []Option{WithPresets(44100, 128, tt.format)}
			if tt.slice {
				opts = append(opts, WithFlags(FlagSliceAlloc))
			}
			s := New(opts...)

			for _, n := range tt.sizes {
				s.StreamResize(n)
				if s.Length() != n {
					t.Fatalf("StreamResize(%d): Length() = %d", n, s.Length())
				}
				for i, b := range s.Stream() {
					if b.Len() != 128 || b.Format() != tt.format {
						t.Fatalf("buffer %d: len %d format %v", i, b.Len(), b.Format())
					}
				}
			}
		})
	}
}

func TestStreamResize_KeepsSurvivors(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 64, stream.Signed16))
	s.StreamResize(4)
	first := s.Buffer(0)
	fillFrames(s, func(f int) int64 { return int64(f) })

	s.StreamResize(8)
	s.StreamResize(2)

	if s.Buffer(0) != first {
		t.Error("surviving buffer was reallocated")
	}
	if got := frameAt(s, 100); got != 100 {
		t.Errorf("frame 100 = %d, want 100", got)
	}
}

func TestStreamResize_CursorInvalidated(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 64, stream.Signed16))
	s.StreamResize(6)
	if s.CurrentIndex() != 0 {
		t.Fatalf("growing from empty should set cursor to 0, got %d", s.CurrentIndex())
	}

	s.SetCurrent(4)
	s.StreamResize(5)
	if s.CurrentIndex() != 4 {
		t.Errorf("cursor outside truncation moved to %d", s.CurrentIndex())
	}

	s.StreamResize(3)
	if s.Current() != nil || s.CurrentIndex() != -1 {
		t.Error("cursor inside truncated region should be unset")
	}
}

func TestStreamSafeResize_NeverDropsConsumed(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 32, stream.Float))
	s.StreamResize(10)
	s.SetCurrent(6)

	for _, n := range []int{0, 2, 6, 7} {
		s.StreamSafeResize(n)
		if s.Length() < 7 {
			t.Fatalf("StreamSafeResize(%d): Length() = %d, want >= 7", n, s.Length())
		}
		if s.CurrentIndex() != 6 {
			t.Fatalf("StreamSafeResize(%d) moved cursor to %d", n, s.CurrentIndex())
		}
	}

	s.StreamSafeResize(12)
	if s.Length() != 12 {
		t.Errorf("grow: Length() = %d, want 12", s.Length())
	}
}

func TestCursor_Next(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 16, stream.Signed8))
	s.StreamResize(3)

	if s.Next() != s.Buffer(1) || s.Next() != s.Buffer(2) {
		t.Fatal("Next() did not walk the stream")
	}
	if s.LengthTillCurrent() != 2 {
		t.Errorf("LengthTillCurrent() = %d, want 2", s.LengthTillCurrent())
	}
	if s.Next() != nil || s.CurrentIndex() != -1 {
		t.Error("Next() past the tail should unset the cursor")
	}
}

func TestSetBufferSize_Redistributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		newSize int
		length  int
	}{
		{"double size", 512, 5},
		{"uneven size", 300, 9},
		{"smaller size", 100, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(WithPresets(44100, 256, stream.Signed16))
			s.StreamResize(10)
			fillFrames(s, func(f int) int64 { return int64(f%1000 + 1) })

			s.SetBufferSize(tt.newSize)

			if s.Length() != tt.length {
				t.Fatalf("Length() = %d, want %d", s.Length(), tt.length)
			}
			for i, b := range s.Stream() {
				if b.Len() != tt.newSize {
					t.Fatalf("buffer %d has %d samples, want %d", i, b.Len(), tt.newSize)
				}
			}
			for f := range 2560 {
				if got := frameAt(s, f); got != int64(f%1000+1) {
					t.Fatalf("frame %d = %d, want %d", f, got, f%1000+1)
				}
			}
			for f := 2560; f < tt.length*tt.newSize; f++ {
				if got := frameAt(s, f); got != 0 {
					t.Fatalf("padding frame %d = %d, want 0", f, got)
				}
			}
		})
	}
}

func TestSetBufferSize_SliceAlloc(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(48000, 128, stream.Signed32), WithFlags(FlagSliceAlloc))
	s.StreamResize(3)
	s.SetCurrent(2)

	s.SetBufferSize(64)

	if s.Length() != 6 {
		t.Fatalf("Length() = %d, want 6", s.Length())
	}
	if s.CurrentIndex() != 4 {
		t.Errorf("cursor = %d, want 4 (same frame)", s.CurrentIndex())
	}
}

func TestSetFormat_SameFormatTwice(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 64, stream.Signed16))
	s.StreamResize(2)
	fillFrames(s, func(f int) int64 { return int64(f*97 - 3000) })

	s.SetFormat(stream.Signed24)
	snapshot := make([]int64, 128)
	for f := range snapshot {
		snapshot[f] = frameAt(s, f)
	}

	s.SetFormat(stream.Signed24)
	for f, want := range snapshot {
		if got := frameAt(s, f); got != want {
			t.Fatalf("frame %d changed from %d to %d", f, want, got)
		}
	}
	if s.WordSize() != 4 {
		t.Errorf("WordSize() = %d, want 4", s.WordSize())
	}
}

func TestSetFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, via := range []stream.Format{stream.Signed32, stream.Signed64, stream.Double, stream.Complex} {
		t.Run(via.String(), func(t *testing.T) {
			t.Parallel()

			s := New(WithPresets(44100, 32, stream.Signed16))
			s.StreamResize(2)
			fillFrames(s, func(f int) int64 { return int64(f*511 - 16000) })

			s.SetFormat(via)
			s.SetFormat(stream.Signed16)

			for f := range 64 {
				if got := frameAt(s, f); got != int64(f*511-16000) {
					t.Fatalf("frame %d = %d, want %d", f, got, f*511-16000)
				}
			}
		})
	}
}

func TestSetFormat_Invalid(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 32, stream.Signed16))
	s.StreamResize(1)
	s.SetFormat(stream.Format(42))

	if s.Format() != stream.Signed16 || s.Buffer(0).Format() != stream.Signed16 {
		t.Error("invalid format must leave the signal untouched")
	}
}

func TestSetSamplerate_RoundTrip(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 256, stream.Double))
	s.StreamResize(8)
	bs := s.BufferSize()
	for i, b := range s.Stream() {
		for j := range b.Len() {
			f := float64(i*bs + j)
			b.SetAt(j, 0.5*math.Sin(2*math.Pi*440*f/44100))
		}
	}
	s.SetLoop(441, 882)

	s.SetSamplerate(48000)
	if start, end := s.Loop(); start != 480 || end != 960 {
		t.Errorf("loop at 48000 = [%d, %d], want [480, 960]", start, end)
	}
	if s.Length() != 9 {
		t.Errorf("Length() at 48000 = %d, want 9", s.Length())
	}

	s.SetSamplerate(44100)
	for f := 4; f < 2000; f++ {
		want := 0.5 * math.Sin(2*math.Pi*440*float64(f)/44100)
		got := s.Buffer(f / bs).At(f % bs)
		if math.Abs(got-want) > 1e-3 {
			t.Fatalf("frame %d = %v, want %v", f, got, want)
		}
	}
}

func TestSetSamplerate_Unchanged(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 64, stream.Signed16))
	s.StreamResize(3)
	first := s.Buffer(0)

	s.SetSamplerate(44100)
	s.SetSamplerate(0)

	if s.Buffer(0) != first || s.Samplerate() != 44100 {
		t.Error("unchanged or invalid rate must be a no-op")
	}
}

func TestSetFlags_SliceAllocLockedWhileBuffered(t *testing.T) {
	t.Parallel()

	s := New()
	s.StreamResize(1)
	s.SetFlags(FlagSliceAlloc | FlagStream)

	if s.HasFlags(FlagSliceAlloc) {
		t.Error("allocator flag toggled while buffers exist")
	}
	if !s.HasFlags(FlagStream) {
		t.Error("other flags should still be set")
	}
}

func TestRefcount_LastUnrefDisposes(t *testing.T) {
	t.Parallel()

	s := New(WithFlags(FlagSliceAlloc))
	s.StreamResize(4)

	s.Ref()
	s.Unref()
	if s.Length() != 4 {
		t.Fatal("signal disposed while referenced")
	}

	s.Unref()
	if s.Length() != 0 || s.Current() != nil {
		t.Error("last Unref should release the stream")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New(WithPresets(44100, 16, stream.Signed16))
	s.StreamResize(2)
	fillFrames(s, func(f int) int64 { return int64(f + 1) })
	s.Clear()

	for f := range 32 {
		if frameAt(s, f) != 0 {
			t.Fatalf("frame %d not cleared", f)
		}
	}
}

func BenchmarkSetBufferSize(b *testing.B) {
	s := New(WithPresets(44100, 256, stream.Signed16), WithFlags(FlagSliceAlloc))
	s.StreamResize(64)

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		if i%2 == 0 {
			s.SetBufferSize(512)
		} else {
			s.SetBufferSize(256)
		}
	}
}
