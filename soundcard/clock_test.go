// SPDX-License-Identifier: EPL-2.0

package soundcard

import (
	"math"
	"testing"
)

func TestComputeDelay_Default(t *testing.T) {
	t.Parallel()

	got := ComputeDelay(DefaultSamplerate, DefaultBufferSize, DefaultBPM, DefaultDelayFactor)
	if math.Abs(got-DefaultDelay) > 1e-9 {
		t.Errorf("ComputeDelay() = %v, want %v", got, DefaultDelay)
	}
	if math.Abs(got-10.7666015625) > 1e-6 {
		t.Errorf("ComputeDelay() = %v, want ~10.7666", got)
	}
}

func TestComputeDelay_InvalidFallsBack(t *testing.T) {
	t.Parallel()

	if got := ComputeDelay(0, 512, 120, 0.25); got != DefaultDelay {
		t.Errorf("ComputeDelay() = %v, want default", got)
	}
}

func TestClock_WindowsPartitionTheGrid(t *testing.T) {
	t.Parallel()

	c := NewClock()
	var expect uint64

	for range 2000 {
		lo, hi := c.Note256thOffset()
		if hi >= lo {
			if lo != expect {
				t.Fatalf("period %d: window starts at %d, want %d", c.Periods(), lo, expect)
			}
			expect = hi + 1
		}

		nlo, nhi := c.CalcNextNote256thOffset()
		c.Tick()
		glo, ghi := c.Note256thOffset()
		if nlo != glo || nhi != ghi {
			t.Fatalf("calc next = [%d,%d], after tick [%d,%d]", nlo, nhi, glo, ghi)
		}
	}
}

func TestClock_NoteOffsetAdvances(t *testing.T) {
	t.Parallel()

	c := NewClock()
	periods := int(math.Ceil(16 * c.Delay()))

	for range periods {
		c.Tick()
	}

	if got := c.NoteOffset(); got != 16 {
		t.Errorf("NoteOffset() after %d periods = %d, want 16", periods, got)
	}
}

func TestClock_Loop(t *testing.T) {
	t.Parallel()

	c := NewClock(WithLoop(2, 4))
	c.Seek(3)

	for range 40 {
		c.Tick()
		if off := c.NoteOffset(); off < 2 || off >= 4 {
			t.Fatalf("NoteOffset() = %d, outside loop [2, 4)", off)
		}
	}
}

func TestClock_SetBPM(t *testing.T) {
	t.Parallel()

	c := NewClock()
	before := c.Delay()
	c.SetBPM(240)

	if math.Abs(c.Delay()-before/2) > 1e-9 {
		t.Errorf("Delay() at 240 bpm = %v, want %v", c.Delay(), before/2)
	}

	c.SetBPM(-1)
	if c.BPM() != 240 {
		t.Errorf("SetBPM(-1) changed bpm to %v", c.BPM())
	}
}

func TestClock_AttacksInsidePeriod(t *testing.T) {
	t.Parallel()

	c := NewClock()
	bs := c.Presets().BufferSize

	for range 500 {
		lo, hi := c.Note256thAttack()
		if lo < 0 || lo >= bs || hi < 0 || hi >= bs {
			t.Fatalf("attacks [%d, %d] outside period of %d", lo, hi, bs)
		}
		if a := c.Attack(); a < 0 || a >= bs {
			t.Fatalf("Attack() = %d outside period", a)
		}
		c.Tick()
	}
}
