// SPDX-License-Identifier: EPL-2.0

package fluid

import (
	"math"
	"testing"

	"github.com/ik5/notecore/stream"
)

func sineBuffer(n int, f stream.Format, freq float64) *stream.Buffer {
	b := stream.Alloc(n, f)
	for i := range n {
		b.SetAt(i, 0.5*math.Sin(2*math.Pi*freq*float64(i)/44100))
	}

	return b
}

func TestCoefficients(t *testing.T) {
	t.Parallel()

	// row 127 is fraction 128/256, where tap 3 sits exactly on x == 0
	if got := Coefficient(127, 3); got != 1 {
		t.Errorf("Coefficient(127, 3) = %v, want 1", got)
	}

	for row := range Rows {
		var sum float64
		for tap := range Order {
			sum += Coefficient(row, tap)
		}
		if math.Abs(sum-1) > 0.05 {
			t.Fatalf("row %d sums to %v, want about 1", row, sum)
		}
	}

	x := 0 - 3.5 + 10.0/256
	arg := math.Pi * x
	want := math.Sin(arg) / arg * 0.5 * (1 + math.Cos(2*arg/7))
	if got := Coefficient(Rows-10-1, 0); math.Abs(got-want) > 1e-15 {
		t.Errorf("Coefficient(245, 0) = %v, want %v", got, want)
	}

	if Coefficient(-1, 0) != 0 || Coefficient(0, Order) != 0 {
		t.Error("out of range coefficient should be 0")
	}
}

func TestPitch_NoTuningFollowsSource(t *testing.T) {
	t.Parallel()

	for _, f := range []stream.Format{stream.Signed16, stream.Signed24, stream.Signed32, stream.Float, stream.Double, stream.Complex} {
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()

			src := sineBuffer(512, f, 220)
			dst := stream.Alloc(509, f)

			u := New()
			u.Format = f
			u.Source, u.Destination = src, dst
			u.BufferLength = 509
			u.Pitch()

			if u.PhaseIncrement != 1 {
				t.Errorf("PhaseIncrement = %v, want 1", u.PhaseIncrement)
			}
			for i := 3; i < 500; i++ {
				if math.Abs(dst.At(i)-src.At(i)) > 1e-3 {
					t.Fatalf("sample %d = %v, source %v", i, dst.At(i), src.At(i))
				}
			}
		})
	}
}

func TestPitch_OctaveUp(t *testing.T) {
	t.Parallel()

	src := sineBuffer(1024, stream.Double, 110)
	dst := stream.Alloc(500, stream.Double)

	u := New()
	u.Format = stream.Double
	u.Tuning = 1200
	u.Source, u.Destination = src, dst
	u.BufferLength = 500
	u.Pitch()

	if math.Abs(u.PhaseIncrement-2) > 1e-12 {
		t.Fatalf("PhaseIncrement = %v, want 2", u.PhaseIncrement)
	}
	for i := 2; i < 500; i++ {
		if math.Abs(dst.At(i)-src.At(2*i)) > 1e-3 {
			t.Fatalf("sample %d = %v, want source[%d] = %v", i, dst.At(i), 2*i, src.At(2*i))
		}
	}
}

func TestPitch_Continuity(t *testing.T) {
	t.Parallel()

	const n = 256
	src := sineBuffer(2*n, stream.Double, 100)

	whole := stream.Alloc(2*n, stream.Double)
	u := New()
	u.Format = stream.Double
	u.Source, u.Destination, u.BufferLength = src, whole, 2*n
	u.Pitch()

	first, second := stream.Alloc(n+3, stream.Double), stream.Alloc(n+3, stream.Double)
	stream.Copy(first, 0, src, 0, n+3)
	stream.Copy(second, 0, src, n, n)
	parts := stream.Alloc(2*n, stream.Double)

	out := stream.Alloc(n, stream.Double)
	for i, part := range []*stream.Buffer{first, second} {
		p := New()
		p.Format = stream.Double
		p.Source, p.Destination, p.BufferLength = part, out, n
		p.Pitch()
		stream.Copy(parts, i*n, out, 0, n)
	}

	for i := range 2*n - 4 {
		// the second call clamps its first taps to its own start
		if i >= n && i < n+Order/2 {
			continue
		}
		if math.Abs(whole.At(i)-parts.At(i)) > 1e-4 {
			t.Fatalf("sample %d: one call %v, two calls %v", i, whole.At(i), parts.At(i))
		}
	}
}

// The phase restarts on every call, so split calls only line up with one
// call when the increment is a whole number of samples.
func TestPitch_ContinuityOctaveUp(t *testing.T) {
	t.Parallel()

	const n = 128
	src := sineBuffer(4*n+4, stream.Double, 100)

	whole := stream.Alloc(2*n, stream.Double)
	u := New()
	u.Format = stream.Double
	u.Tuning = 1200
	u.Source, u.Destination, u.BufferLength = src, whole, 2*n
	u.Pitch()

	tests := []struct {
		name  string
		from  int
		skip  int
		first int
	}{
		{name: "first half", from: 0, skip: 0, first: 0},
		// the first taps of the second call clamp to its own start
		{name: "second half", from: 2 * n, skip: 2, first: n},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			part := stream.Alloc(2*n+4, stream.Double)
			stream.Copy(part, 0, src, tt.from, 2*n+4)
			out := stream.Alloc(n, stream.Double)

			p := New()
			p.Format = stream.Double
			p.Tuning = 1200
			p.Source, p.Destination, p.BufferLength = part, out, n
			p.Pitch()

			for j := tt.skip; j < n; j++ {
				if math.Abs(out.At(j)-whole.At(tt.first+j)) > 1e-6 {
					t.Fatalf("sample %d: one call %v, split call %v", tt.first+j, whole.At(tt.first+j), out.At(j))
				}
			}
		})
	}
}

func TestPitch_VibratoKeepsLFOOffset(t *testing.T) {
	t.Parallel()

	src := sineBuffer(512, stream.Float, 220)
	dst := stream.Alloc(128, stream.Float)

	u := New()
	u.Format = stream.Float
	u.Source, u.Destination, u.BufferLength = src, dst, 128
	u.VibratoEnabled = true
	u.VibratoLFOFreq = 100
	u.VibratoLFODepth = 0.5

	u.Pitch()
	if u.VibratoLFOOffset != 128 {
		t.Fatalf("VibratoLFOOffset = %d, want 128", u.VibratoLFOOffset)
	}
	first := u.PhaseIncrement

	u.Pitch()
	if u.VibratoLFOOffset != 256 {
		t.Fatalf("VibratoLFOOffset = %d, want 256", u.VibratoLFOOffset)
	}
	if u.PhaseIncrement == first || u.PhaseIncrement == 1 {
		t.Errorf("PhaseIncrement = %v, vibrato did not modulate", u.PhaseIncrement)
	}

	// ±50 cents peak
	lo, hi := math.Exp2(-50.0/1200), math.Exp2(50.0/1200)
	if u.PhaseIncrement < lo-1e-9 || u.PhaseIncrement > hi+1e-9 {
		t.Errorf("PhaseIncrement = %v outside [%v, %v]", u.PhaseIncrement, lo, hi)
	}
}

func TestPitch_NoOps(t *testing.T) {
	t.Parallel()

	src := sineBuffer(64, stream.Signed16, 440)
	tests := []struct {
		name string
		edit func(u *Util, dst *stream.Buffer)
	}{
		{"nil source", func(u *Util, _ *stream.Buffer) { u.Source = nil }},
		{"unknown format", func(u *Util, _ *stream.Buffer) { u.Format = 99 }},
		{"format mismatch", func(u *Util, _ *stream.Buffer) { u.Format = stream.Signed32 }},
		{"zero length", func(u *Util, _ *stream.Buffer) { u.BufferLength = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := stream.Alloc(64, stream.Signed16)
			u := New()
			u.Source, u.Destination, u.BufferLength = src, dst, 64
			tt.edit(u, dst)

			u.Pitch()

			for i := range 64 {
				if dst.Int(i) != 0 {
					t.Fatalf("destination written at %d", i)
				}
			}
		})
	}

	var u *Util
	u.Pitch()
}

func TestPitch_Stride(t *testing.T) {
	t.Parallel()

	// interleaved stereo, pitch the left channel into the right
	src := stream.Alloc(128, stream.Double)
	for i := range 64 {
		src.SetAt(2*i, float64(i)/64)
	}
	dst := stream.Alloc(128, stream.Double)

	u := New()
	u.Format = stream.Double
	u.Source, u.SourceStride = src, 2
	u.Destination, u.DestinationStride = dst, 2
	u.BufferLength = 64
	u.Pitch()

	for i := 4; i < 56; i++ {
		if math.Abs(dst.At(2*i)-float64(i)/64) > 1e-3 {
			t.Fatalf("frame %d = %v, want %v", i, dst.At(2*i), float64(i)/64)
		}
		if dst.At(2*i+1) != 0 {
			t.Fatalf("odd sample %d written", 2*i+1)
		}
	}
}

func TestSaturate(t *testing.T) {
	t.Parallel()

	s8 := saturate[int8](8)
	if s8(500) != 127 || s8(-500) != -128 || s8(12.7) != 12 {
		t.Errorf("int8 saturation wrong: %d %d %d", s8(500), s8(-500), s8(12.7))
	}

	s64 := saturate[int64](64)
	if s64(1e30) != math.MaxInt64 || s64(-1e30) != math.MinInt64 {
		t.Error("int64 saturation wrong")
	}
}

func BenchmarkPitch(b *testing.B) {
	src := sineBuffer(4096, stream.Signed16, 440)
	dst := stream.Alloc(4000, stream.Signed16)

	u := New()
	u.Source, u.Destination, u.BufferLength = src, dst, 4000
	u.Tuning = 700

	b.ReportAllocs()
	for b.Loop() {
		u.Pitch()
	}
}
